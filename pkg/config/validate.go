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

import (
	"context"
	"errors"
	"net/url"

	"github.com/caas-team/uptimectl/internal/logger"
)

const maxRetryCount = 5

// Validate validates the config. Every violation is logged and the
// returned error joins all of them.
func (c *Config) Validate(ctx context.Context, fm *FlagsNameMapping) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx).With("name", "configValidation")
	if fm == nil {
		fm = NewFlagsNameMapping()
	}

	var errs []error
	if u, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil || u.Host == "" {
		log.ErrorContext(ctx, "The api url is not a valid url", fm.ApiURL, c.Backend.BaseURL)
		errs = append(errs, ErrInvalidApiURL)
	}
	if c.Backend.Timeout <= 0 {
		log.ErrorContext(ctx, "The timeout must be positive", fm.Timeout, c.Backend.Timeout)
		errs = append(errs, ErrInvalidTimeout)
	}
	if c.Backend.Retry.Count < 0 || c.Backend.Retry.Count > maxRetryCount {
		log.ErrorContext(ctx, "The amount of retries should be between 0 and 5", fm.RetryCount, c.Backend.Retry.Count)
		errs = append(errs, ErrInvalidRetryCount)
	}
	if c.Backend.Retry.Delay < 0 {
		log.ErrorContext(ctx, "The retry delay must not be negative", fm.RetryDelay, c.Backend.Retry.Delay)
		errs = append(errs, ErrInvalidRetryDelay)
	}
	if _, err := c.Calculator(); c.Timezone == "" || err != nil {
		log.ErrorContext(ctx, "The timezone is unknown", fm.Timezone, c.Timezone, "error", err)
		errs = append(errs, ErrInvalidTimezone)
	}
	if c.Cache.Size <= 0 {
		log.ErrorContext(ctx, "The cache size must be positive", fm.CacheSize, c.Cache.Size)
		errs = append(errs, ErrInvalidCacheSize)
	}
	if c.Cache.TTL <= 0 {
		log.ErrorContext(ctx, "The cache ttl must be positive", fm.CacheTTL, c.Cache.TTL)
		errs = append(errs, ErrInvalidCacheTTL)
	}
	switch c.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		log.ErrorContext(ctx, "The output format must be one of table, json or yaml", fm.Output, c.Output)
		errs = append(errs, ErrInvalidOutput)
	}

	return errors.Join(errs...)
}
