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

// Package health shapes health payloads returned by the monitoring backend.
package health

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Record is the result of one check run against a monitored URL
type Record struct {
	URL            string `json:"url,omitempty" yaml:"url,omitempty"`
	Timestamp      Count  `json:"timestamp" yaml:"timestamp"`
	Success        Flag   `json:"isSuccess" yaml:"isSuccess"`
	Timeout        Flag   `json:"isTimeout" yaml:"isTimeout"`
	StatusCode     Count  `json:"statusCode" yaml:"statusCode"`
	ResponseTime   Count  `json:"responseTime" yaml:"responseTime"`
	ResponseSize   Count  `json:"responseSize" yaml:"responseSize"`
	ContentType    string `json:"contentType" yaml:"contentType"`
	RequestMethod  string `json:"requestMethod" yaml:"requestMethod"`
	InspectionTime string `json:"inspection_time" yaml:"inspectionTime"`
}

// Time returns the instant the check ran
func (r Record) Time() time.Time {
	return time.UnixMilli(int64(r.Timestamp))
}

// Bucket is one unit of rolled up counters and the check results it covers.
// The aggregated health of a query has the same shape.
type Bucket struct {
	NumberOfRetries  *Count   `json:"numberOfRetries,omitempty" yaml:"numberOfRetries,omitempty"`
	NumberOfTimeouts *Count   `json:"numberOfTimeouts,omitempty" yaml:"numberOfTimeouts,omitempty"`
	NumberOfCronruns *Count   `json:"numberOfCronruns,omitempty" yaml:"numberOfCronruns,omitempty"`
	LatestResponse   []Record `json:"latestResponse,omitempty" yaml:"latestResponse,omitempty"`
}

// Retries returns the retry counter, 0 when absent
func (b Bucket) Retries() int64 { return value(b.NumberOfRetries) }

// Timeouts returns the timeout counter, 0 when absent
func (b Bucket) Timeouts() int64 { return value(b.NumberOfTimeouts) }

// Cronruns returns the cron run counter, 0 when absent
func (b Bucket) Cronruns() int64 { return value(b.NumberOfCronruns) }

// IsEmpty reports whether the bucket carries neither counters nor records
func (b Bucket) IsEmpty() bool {
	return b.NumberOfRetries == nil && b.NumberOfTimeouts == nil &&
		b.NumberOfCronruns == nil && len(b.LatestResponse) == 0
}

// Clone returns a copy of b that shares no memory with b
func (b Bucket) Clone() Bucket {
	return Bucket{
		NumberOfRetries:  clonePtr(b.NumberOfRetries),
		NumberOfTimeouts: clonePtr(b.NumberOfTimeouts),
		NumberOfCronruns: clonePtr(b.NumberOfCronruns),
		LatestResponse:   slices.Clone(b.LatestResponse),
	}
}

func clonePtr(c *Count) *Count {
	if c == nil {
		return nil
	}
	return Ptr(int64(*c))
}

func value(c *Count) int64 {
	if c == nil {
		return 0
	}
	return int64(*c)
}

// Payload is the health data of one backend response: either a single
// bucket or a list of buckets.
type Payload struct {
	single *Bucket
	many   []Bucket
}

// Single wraps one bucket
func Single(b Bucket) Payload {
	return Payload{single: &b}
}

// Many wraps a list of buckets
func Many(bs ...Bucket) Payload {
	if bs == nil {
		bs = []Bucket{}
	}
	return Payload{many: bs}
}

// IsSingle reports whether the payload holds a single bucket
func (p Payload) IsSingle() bool {
	return p.single != nil
}

// Buckets returns the buckets of the payload in order
func (p Payload) Buckets() []Bucket {
	if p.single != nil {
		return []Bucket{*p.single}
	}
	return p.many
}

// UnmarshalJSON decides the payload shape from the top level JSON token.
// An object is a single bucket, an array a list of buckets and null an
// empty list.
func (p *Payload) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("health payload is empty")
	}

	switch data[0] {
	case '{':
		var b Bucket
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("failed to decode health bucket: %w", err)
		}
		*p = Single(b)
	case '[':
		var bs []Bucket
		if err := json.Unmarshal(data, &bs); err != nil {
			return fmt.Errorf("failed to decode health buckets: %w", err)
		}
		*p = Many(bs...)
	case 'n':
		if !bytes.Equal(data, []byte("null")) {
			return fmt.Errorf("unexpected health payload %q", data)
		}
		*p = Many()
	default:
		return fmt.Errorf("unexpected health payload %q", data)
	}
	return nil
}

// MarshalJSON writes the payload back in its original shape
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.single != nil {
		return json.Marshal(p.single)
	}
	if p.many == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.many)
}
