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

package e2e

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/caas-team/uptimectl/pkg/backend"
	"github.com/caas-team/uptimectl/pkg/console"
	"github.com/caas-team/uptimectl/pkg/health"
	"github.com/caas-team/uptimectl/test"
)

const baseURL = "http://localhost:8080"

func TestE2E_Console(t *testing.T) {
	framework := test.NewFramework(t)

	stored := health.Many(
		health.Bucket{
			NumberOfRetries:  health.Ptr(1),
			NumberOfTimeouts: health.Ptr(0),
			NumberOfCronruns: health.Ptr(2),
			LatestResponse: []health.Record{
				{Timestamp: 1734720000000, Success: true, StatusCode: 200, ResponseTime: 120, ResponseSize: 512, RequestMethod: http.MethodGet},
				{Timestamp: 1734723600000, Success: false, StatusCode: 500, ResponseTime: 80, ResponseSize: 20, RequestMethod: http.MethodGet},
			},
		},
		health.Bucket{
			NumberOfRetries:  health.Ptr(0),
			NumberOfTimeouts: health.Ptr(1),
			NumberOfCronruns: health.Ptr(1),
			LatestResponse: []health.Record{
				{Timestamp: 1734727200000, Timeout: true, StatusCode: 408, ResponseTime: 5000, RequestMethod: http.MethodGet},
			},
		},
	)
	live := health.Single(health.Bucket{
		NumberOfCronruns: health.Ptr(1),
		LatestResponse: []health.Record{
			{Timestamp: 1734730000000, Success: true, StatusCode: 200, ResponseTime: 90, RequestMethod: http.MethodGet},
		},
	})

	fake := test.NewBackend().
		WithProjects(backend.Project{ID: "p1", Name: "shop"}).
		WithMonitors(backend.Monitor{ID: "m1", Name: "home", URL: "https://shop.example.com", Project: backend.ProjectRef("p1")}).
		WithHealth("m1", stored).
		WithLiveHealth("m1", live)

	e2e := framework.E2E(t, nil).WithBackend(fake)

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() {
		finished <- e2e.Run(ctx)
	}()
	defer func() {
		cancel()
		if err := <-finished; err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("e2e.Run() error = %v", err)
		}
	}()

	e2e.AwaitStartup(baseURL+"/v1/day", 10*time.Second)

	t.Run("stored health", func(t *testing.T) {
		agg := health.Aggregate(stored)
		e2e.HttpAssertion(baseURL + "/v1/urls/m1/health?date=1734719400").
			WithSchema().
			WithHealth(console.HealthInfo{ID: "m1", Date: 1734719400, Health: agg, Tally: agg.Tally()}).
			Assert(http.StatusOK)
	})

	t.Run("stored health is cached", func(t *testing.T) {
		before := fake.Calls("/health")
		e2e.HttpAssertion(baseURL + "/v1/urls/m1/health?date=1734719400").Assert(http.StatusOK)
		if got := fake.Calls("/health"); got != before {
			t.Errorf("Want %d backend calls, got %d", before, got)
		}
	})

	t.Run("live health", func(t *testing.T) {
		agg := health.Aggregate(live)
		e2e.HttpAssertion(baseURL + "/v1/urls/m1/health?date=1734719400&live=true").
			WithSchema().
			WithHealth(console.HealthInfo{ID: "m1", Date: 1734719400, Live: true, Health: agg, Tally: agg.Tally()}).
			Assert(http.StatusOK)
	})

	t.Run("invalid date", func(t *testing.T) {
		e2e.HttpAssertion(baseURL + "/v1/urls/m1/health?date=yesterday").Assert(http.StatusBadRequest)
	})

	t.Run("day of the epoch", func(t *testing.T) {
		e2e.HttpAssertion(baseURL + "/v1/day?at=1").
			WithSchema().
			WithDay(console.DayInfo{StartOfDay: -19800, EndOfDay: 66599}).
			Assert(http.StatusOK)
	})

	t.Run("metrics", func(t *testing.T) {
		e2e.HttpAssertion(baseURL + "/metrics").Assert(http.StatusOK)
	})
}
