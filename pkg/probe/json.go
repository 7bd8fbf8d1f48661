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

	"github.com/tidwall/gjson"
)

// ParseJSON interprets a loosely typed JSON object.
//
// An object, or a string holding an object, yields that object. An array,
// or a string holding an array, yields nil. Anything else, including
// invalid JSON, yields an empty object.
func ParseJSON(raw json.RawMessage) map[string]any {
	if !gjson.ValidBytes(raw) {
		return map[string]any{}
	}
	r := gjson.ParseBytes(raw)
	if r.Type == gjson.String {
		if !gjson.Valid(r.Str) {
			return map[string]any{}
		}
		r = gjson.Parse(r.Str)
	}

	switch {
	case r.IsArray():
		return nil
	case r.IsObject():
		if m, ok := r.Value().(map[string]any); ok {
			return m
		}
	}
	return map[string]any{}
}
