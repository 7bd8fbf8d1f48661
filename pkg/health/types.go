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

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Count is an integer the backend sends either as a JSON number or as a
// numeric string. Anything that does not parse as a number decodes to 0.
type Count int64

// UnmarshalJSON never fails: malformed values decode to 0
func (c *Count) UnmarshalJSON(data []byte) error {
	*c = Count(parseCount(data))
	return nil
}

func parseCount(data []byte) int64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}

	s := string(data)
	if data[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return 0
		}
		s = strings.TrimSpace(unquoted)
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

// Ptr returns a pointer to a Count holding n
func Ptr(n int64) *Count {
	c := Count(n)
	return &c
}

// Flag is a boolean the backend sends either as a JSON boolean or as the
// strings "true" and "false". Any other value decodes to false.
type Flag bool

// UnmarshalJSON never fails: unknown values decode to false
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*f = true
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = false
			return nil
		}
		*f = Flag(strings.EqualFold(strings.TrimSpace(s), "true"))
	default:
		*f = false
	}
	return nil
}
