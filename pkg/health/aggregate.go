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

package health

// Aggregate folds a payload into one bucket.
//
// A single bucket is returned as it is. An empty list yields an empty
// bucket, meaning there is no data for the period. Otherwise every counter
// of the result is the sum of the bucket counters, absent counters
// counting as 0, and the records of all buckets are concatenated in order.
func Aggregate(p Payload) Bucket {
	if p.single != nil {
		return *p.single
	}
	if len(p.many) == 0 {
		return Bucket{}
	}

	var retries, timeouts, cronruns int64
	size := 0
	for _, b := range p.many {
		size += len(b.LatestResponse)
	}
	records := make([]Record, 0, size)

	for _, b := range p.many {
		retries += b.Retries()
		timeouts += b.Timeouts()
		cronruns += b.Cronruns()
		records = append(records, b.LatestResponse...)
	}

	return Bucket{
		NumberOfRetries:  Ptr(retries),
		NumberOfTimeouts: Ptr(timeouts),
		NumberOfCronruns: Ptr(cronruns),
		LatestResponse:   records,
	}
}

// Tally summarises the outcome of the records of a bucket
type Tally struct {
	Success int `json:"success" yaml:"success"`
	Timeout int `json:"timeout" yaml:"timeout"`
	Failure int `json:"failure" yaml:"failure"`
	// AverageResponseTime is the mean response time in milliseconds
	AverageResponseTime int64 `json:"averageResponseTime" yaml:"averageResponseTime"`
}

// Total returns the number of tallied records
func (t Tally) Total() int {
	return t.Success + t.Timeout + t.Failure
}

// Tally classifies every record. A successful record counts as success
// even when it is flagged as timed out.
func (b Bucket) Tally() Tally {
	var t Tally
	var sum int64
	for _, r := range b.LatestResponse {
		switch {
		case bool(r.Success):
			t.Success++
		case bool(r.Timeout):
			t.Timeout++
		default:
			t.Failure++
		}
		sum += int64(r.ResponseTime)
	}
	if n := len(b.LatestResponse); n > 0 {
		t.AverageResponseTime = sum / int64(n)
	}
	return t
}
