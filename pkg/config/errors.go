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

import "errors"

var (
	// ErrInvalidApiURL is returned when the backend url is invalid
	ErrInvalidApiURL = errors.New("invalid api url")
	// ErrInvalidTimeout is returned when the request timeout is not positive
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrInvalidRetryCount is returned when the retry count is out of range
	ErrInvalidRetryCount = errors.New("invalid retry count")
	// ErrInvalidRetryDelay is returned when the retry delay is negative
	ErrInvalidRetryDelay = errors.New("invalid retry delay")
	// ErrInvalidTimezone is returned when the timezone cannot be loaded
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrInvalidCacheSize is returned when the cache size is not positive
	ErrInvalidCacheSize = errors.New("invalid cache size")
	// ErrInvalidCacheTTL is returned when the cache ttl is not positive
	ErrInvalidCacheTTL = errors.New("invalid cache ttl")
	// ErrInvalidOutput is returned when the output format is unknown
	ErrInvalidOutput = errors.New("invalid output format")
)
