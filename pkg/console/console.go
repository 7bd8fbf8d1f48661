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

// Package console serves aggregated uptime data over a local JSON API.
package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caas-team/uptimectl/internal/logger"
	"github.com/caas-team/uptimectl/pkg/api"
	"github.com/caas-team/uptimectl/pkg/config"
	"github.com/caas-team/uptimectl/pkg/health"
	"github.com/caas-team/uptimectl/pkg/metrics"
	"github.com/caas-team/uptimectl/pkg/query"
	"github.com/caas-team/uptimectl/pkg/timezone"
)

const urlParamID = "id"

// Console is the local console API
type Console struct {
	query   *query.Client
	calc    *timezone.Calculator
	api     api.API
	metrics metrics.Metrics
	version string
}

// New creates a new Console
func New(cfg config.ApiConfig, q *query.Client, calc *timezone.Calculator, version string) *Console {
	return &Console{
		query:   q,
		calc:    calc,
		api:     api.New(cfg),
		metrics: metrics.NewMetrics(),
		version: version,
	}
}

// Run serves the console until ctx is done
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	if err := c.metrics.Register(append(c.query.GetMetricCollectors(), c.api.GetMetricCollectors()...)...); err != nil {
		log.Error("Failed to register metrics", "error", err)
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	if err := c.api.RegisterRoutes(ctx, c.routes()...); err != nil {
		log.Error("Failed to register routes", "error", err)
		return err
	}

	cErr := make(chan error, 1)
	go func() {
		cErr <- c.api.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		return c.shutdown(ctx)
	case err := <-cErr:
		if ctx.Err() != nil {
			return c.shutdown(ctx)
		}
		return err
	}
}

// shutdown stops the api. A canceled context is the regular way to stop
// the console and is not reported.
func (c *Console) shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down console")
	if err := c.api.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// routes returns the routes of the console
func (c *Console) routes() []api.Route {
	return []api.Route{
		{
			Path: "/v1/urls/{" + urlParamID + "}/health", Method: http.MethodGet, Handler: c.handleURLHealth,
			Doc: &api.Doc{
				Summary: "Aggregated health of a monitored URL",
				Tags:    []string{"Health"},
				Parameters: openapi3.Parameters{
					{Value: openapi3.NewPathParameter(urlParamID).WithSchema(openapi3.NewStringSchema())},
					{Value: openapi3.NewQueryParameter("date").WithSchema(openapi3.NewInt64Schema()).
						WithDescription("Unix seconds the health is reported from, defaults to the start of today")},
					{Value: openapi3.NewQueryParameter("live").WithSchema(openapi3.NewBoolSchema())},
				},
				Response: HealthInfo{Health: health.Bucket{LatestResponse: []health.Record{}}},
			},
		},
		{
			Path: "/v1/day", Method: http.MethodGet, Handler: c.handleDay,
			Doc: &api.Doc{
				Summary: "Civil day range around an instant",
				Tags:    []string{"Time"},
				Parameters: openapi3.Parameters{
					{Value: openapi3.NewQueryParameter("at").WithSchema(openapi3.NewInt64Schema())},
				},
				Response: DayInfo{},
			},
		},
		{
			Path: "/v1/time", Method: http.MethodGet, Handler: c.handleTime,
			Doc: &api.Doc{
				Summary: "Display form of a unix timestamp",
				Tags:    []string{"Time"},
				Parameters: openapi3.Parameters{
					{Value: openapi3.NewQueryParameter("ts").WithSchema(openapi3.NewFloat64Schema())},
				},
				Response: TimeInfo{},
			},
		},
		{Path: "/openapi", Method: http.MethodGet, Handler: c.handleOpenAPI},
		{
			Path: "/metrics", Method: "Handle",
			Handler: promhttp.HandlerFor(
				c.metrics.GetRegistry(),
				promhttp.HandlerOpts{Registry: c.metrics.GetRegistry()},
			).ServeHTTP,
		},
	}
}
