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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/caas-team/uptimectl/internal/logger"
)

func TestConfig_Validate(t *testing.T) {
	ctx, cancel := logger.NewContextWithLogger(context.Background())
	defer cancel()

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr []error
	}{
		{
			name:   "defaults ok",
			modify: func(*Config) {},
		},
		{
			name: "custom config ok",
			modify: func(c *Config) {
				c.SetApiURL("https://uptime.example.com/api")
				c.SetToken("secret")
				c.SetTimeout(5 * time.Second)
				c.SetRetryCount(0)
				c.SetRetryDelay(0)
				c.SetTimezone("Europe/Berlin")
				c.SetCacheSize(1)
				c.SetCacheTTL(time.Minute)
				c.SetApiAddress("localhost:9090")
				c.SetOutput(OutputYAML)
			},
		},
		{
			name:    "url missing",
			modify:  func(c *Config) { c.SetApiURL("") },
			wantErr: []error{ErrInvalidApiURL},
		},
		{
			name:    "url malformed",
			modify:  func(c *Config) { c.SetApiURL("this is not a valid url") },
			wantErr: []error{ErrInvalidApiURL},
		},
		{
			name:    "retry count to high",
			modify:  func(c *Config) { c.SetRetryCount(100000) },
			wantErr: []error{ErrInvalidRetryCount},
		},
		{
			name:    "negative retry count and delay",
			modify:  func(c *Config) { c.SetRetryCount(-1); c.SetRetryDelay(-time.Second) },
			wantErr: []error{ErrInvalidRetryCount, ErrInvalidRetryDelay},
		},
		{
			name:    "unknown timezone",
			modify:  func(c *Config) { c.SetTimezone("Mars/Olympus_Mons") },
			wantErr: []error{ErrInvalidTimezone},
		},
		{
			name:    "empty timezone",
			modify:  func(c *Config) { c.SetTimezone("") },
			wantErr: []error{ErrInvalidTimezone},
		},
		{
			name: "everything wrong",
			modify: func(c *Config) {
				c.SetTimeout(0)
				c.SetCacheSize(0)
				c.SetCacheTTL(-time.Second)
				c.SetOutput("xml")
			},
			wantErr: []error{ErrInvalidTimeout, ErrInvalidCacheSize, ErrInvalidCacheTTL, ErrInvalidOutput},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig()
			tt.modify(c)

			err := c.Validate(ctx, NewFlagsNameMapping())
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			for _, other := range []error{
				ErrInvalidApiURL, ErrInvalidTimeout, ErrInvalidRetryCount, ErrInvalidRetryDelay,
				ErrInvalidTimezone, ErrInvalidCacheSize, ErrInvalidCacheTTL, ErrInvalidOutput,
			} {
				if !contains(tt.wantErr, other) {
					assert.False(t, errors.Is(err, other), "unexpected %v", other)
				}
			}
		})
	}
}

func contains(errs []error, err error) bool {
	for _, e := range errs {
		if e == err {
			return true
		}
	}
	return false
}

func TestConfig_Calculator(t *testing.T) {
	c := NewConfig()
	calc, err := c.Calculator()
	assert.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", calc.Location().String())
}
