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
	"time"

	"github.com/caas-team/uptimectl/internal/helper"
	"github.com/caas-team/uptimectl/pkg/backend"
	"github.com/caas-team/uptimectl/pkg/query"
	"github.com/caas-team/uptimectl/pkg/timezone"
)

// Output formats of the command line
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

type Config struct {
	Backend  backend.Config
	Cache    query.Options
	Api      ApiConfig
	Timezone string
	Output   string
}

// ApiConfig is the configuration for the console API
type ApiConfig struct {
	ListeningAddress string
}

// NewConfig creates a new Config
func NewConfig() *Config {
	return &Config{
		Backend: backend.Config{
			BaseURL: backend.DefaultURL,
			Timeout: backend.DefaultTimeout,
			Retry:   helper.RetryConfig{Count: 3, Delay: time.Second},
		},
		Cache: query.Options{
			Size: query.DefaultSize,
			TTL:  query.DefaultTTL,
		},
		Api:      ApiConfig{ListeningAddress: ":8080"},
		Timezone: timezone.DefaultZone,
		Output:   OutputTable,
	}
}

// SetApiURL sets the base url of the backend
func (c *Config) SetApiURL(url string) {
	c.Backend.BaseURL = url
}

// SetToken sets the token sent to the backend
func (c *Config) SetToken(token string) {
	c.Backend.Token = token
}

// SetTimeout sets the request timeout of the backend client
func (c *Config) SetTimeout(timeout time.Duration) {
	c.Backend.Timeout = timeout
}

// SetRetryCount sets how often failed reads are retried
func (c *Config) SetRetryCount(count int) {
	c.Backend.Retry.Count = count
}

// SetRetryDelay sets the initial delay between retries
func (c *Config) SetRetryDelay(delay time.Duration) {
	c.Backend.Retry.Delay = delay
}

func (c *Config) SetTimezone(name string) {
	c.Timezone = name
}

func (c *Config) SetCacheSize(size int) {
	c.Cache.Size = size
}

func (c *Config) SetCacheTTL(ttl time.Duration) {
	c.Cache.TTL = ttl
}

func (c *Config) SetApiAddress(address string) {
	c.Api.ListeningAddress = address
}

// SetOutput sets the output format of the command line
func (c *Config) SetOutput(output string) {
	c.Output = output
}

// Calculator returns the timezone calculator of the configured zone
func (c *Config) Calculator() (*timezone.Calculator, error) {
	return timezone.Load(c.Timezone)
}
