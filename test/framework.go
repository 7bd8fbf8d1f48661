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

	"github.com/caas-team/uptimectl/pkg/config"
)

type Runner interface {
	// Run runs the test.
	Run(ctx context.Context) error
}

type Framework struct {
	t *testing.T
}

func NewFramework(t *testing.T) *Framework {
	t.Helper()
	return &Framework{t: t}
}

// E2E creates an end-to-end test of the console.
// The test is skipped when running short tests.
func (f *Framework) E2E(t *testing.T, cfg *config.Config) *E2E {
	if testing.Short() {
		f.t.Skip("skipping e2e tests")
		return nil
	}

	if cfg == nil {
		cfg = NewConfig().Config(f.t)
	}

	return &E2E{
		t:      t,
		config: *cfg,
	}
}
