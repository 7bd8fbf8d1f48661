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

package probe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{name: "object", raw: `{"a":1,"b":"x"}`, want: map[string]any{"a": float64(1), "b": "x"}},
		{name: "string holding object", raw: `"{\"a\":1}"`, want: map[string]any{"a": float64(1)}},
		{name: "array", raw: `[1,2]`, want: nil},
		{name: "string holding array", raw: `"[1,2]"`, want: nil},
		{name: "string holding invalid json", raw: `"{oops"`, want: map[string]any{}},
		{name: "invalid json", raw: `{oops`, want: map[string]any{}},
		{name: "empty", raw: ``, want: map[string]any{}},
		{name: "null", raw: `null`, want: map[string]any{}},
		{name: "number", raw: `42`, want: map[string]any{}},
		{name: "bool", raw: `true`, want: map[string]any{}},
		{name: "string holding number", raw: `"42"`, want: map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseJSON(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}
