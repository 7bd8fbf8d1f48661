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

package helper

import "github.com/mitchellh/mapstructure"

// Decode decodes input into a value of type T using mapstructure.
//
// Input is weakly typed: numbers and booleans decode into strings and
// numeric strings decode into numbers, which is what the backend returns
// for loosely typed fields such as monitor headers. Strings are
// converted into time.Duration and comma separated strings into slices.
func Decode[T any](input any) (T, error) {
	var result T
	config := &mapstructure.DecoderConfig{
		Metadata:         nil,
		WeaklyTypedInput: true,
		Result:           &result,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return result, err
	}

	if err := decoder.Decode(input); err != nil {
		return result, err
	}

	return result, nil
}

// DecodeValues decodes every value of input into T. Values that cannot be
// decoded are left out of the result and reported per key.
func DecodeValues[T any](input map[string]any) (map[string]T, map[string]error) {
	result := make(map[string]T, len(input))
	var failed map[string]error
	for k, v := range input {
		d, err := Decode[T](v)
		if err != nil {
			if failed == nil {
				failed = map[string]error{}
			}
			failed[k] = err
			continue
		}
		result[k] = d
	}
	return result, failed
}
