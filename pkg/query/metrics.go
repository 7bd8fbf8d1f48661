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

package query

import "github.com/prometheus/client_golang/prometheus"

// metrics contains the metric collectors of the query store
type metrics struct {
	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
}

func newMetrics() metrics {
	return metrics{
		hits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uptimectl_query_cache_hits_total",
				Help: "Reads answered from the query cache",
			},
			[]string{"kind"},
		),
		misses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uptimectl_query_cache_misses_total",
				Help: "Reads that had to be loaded from the backend",
			},
			[]string{"kind"},
		),
	}
}

func (m metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.hits, m.misses}
}
