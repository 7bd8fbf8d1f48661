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

package config

// FlagsNameMapping maps the configuration to the names of its flags
type FlagsNameMapping struct {
	ApiURL     string
	Token      string
	Timeout    string
	RetryCount string
	RetryDelay string
	Timezone   string
	CacheSize  string
	CacheTTL   string
	ApiAddress string
	Output     string
}

// NewFlagsNameMapping returns the mapping of the configuration keys
func NewFlagsNameMapping() *FlagsNameMapping {
	return &FlagsNameMapping{
		ApiURL:     "apiUrl",
		Token:      "token",
		Timeout:    "timeout",
		RetryCount: "retryCount",
		RetryDelay: "retryDelay",
		Timezone:   "timezone",
		CacheSize:  "cacheSize",
		CacheTTL:   "cacheTtl",
		ApiAddress: "apiAddress",
		Output:     "output",
	}
}
