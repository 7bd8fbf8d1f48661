// uptimectl
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package backend

import "github.com/prometheus/client_golang/prometheus"

// metrics contains the metric collectors of the backend client
type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// newMetrics initializes metric collectors of the backend client
func newMetrics() metrics {
	return metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uptimectl_backend_requests_total",
				Help: "Requests sent to the monitoring backend",
			},
			[]string{"method", "resource", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "uptimectl_backend_request_duration_seconds",
				Help:    "Latency of requests sent to the monitoring backend",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "resource"},
		),
	}
}

func (m metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requests, m.duration}
}
