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

package test

import (
	"context"
	"testing"
	"time"

	"github.com/caas-team/uptimectl/pkg/config"
)

// ConfigBuilder builds a valid configuration for e2e tests
type ConfigBuilder struct{ cfg config.Config }

func NewConfig() *ConfigBuilder {
	cfg := config.NewConfig()
	cfg.SetApiAddress("localhost:8080")
	cfg.SetRetryCount(0)
	cfg.SetTimeout(5 * time.Second)
	return &ConfigBuilder{cfg: *cfg}
}

func (b *ConfigBuilder) WithApiAddress(addr string) *ConfigBuilder {
	b.cfg.SetApiAddress(addr)
	return b
}

func (b *ConfigBuilder) WithTimezone(name string) *ConfigBuilder {
	b.cfg.SetTimezone(name)
	return b
}

func (b *ConfigBuilder) WithCache(size int, ttl time.Duration) *ConfigBuilder {
	b.cfg.SetCacheSize(size)
	b.cfg.SetCacheTTL(ttl)
	return b
}

func (b *ConfigBuilder) Config(t *testing.T) *config.Config {
	t.Helper()
	if err := b.cfg.Validate(context.Background(), config.NewFlagsNameMapping()); err != nil {
		t.Fatalf("config is not valid: %v", err)
	}
	return &b.cfg
}
