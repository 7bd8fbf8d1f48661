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

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/caas-team/uptimectl/internal/logger"
	"github.com/caas-team/uptimectl/pkg/config"
)

type API interface {
	Run(ctx context.Context) error
	Shutdown(ctx context.Context) error
	RegisterRoutes(ctx context.Context, routes ...Route) error
	// GetMetricCollectors returns the collectors of the served requests
	GetMetricCollectors() []prometheus.Collector
}

type api struct {
	server  *http.Server
	router  chi.Router
	metrics *requestMetrics
}

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// methods a route can be registered for besides Handle and HandleFunc
var methods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// New creates a new api
func New(cfg config.ApiConfig) API {
	r := chi.NewRouter()
	return &api{
		server:  &http.Server{Addr: cfg.ListeningAddress, Handler: r, ReadHeaderTimeout: readHeaderTimeout},
		router:  r,
		metrics: newRequestMetrics(),
	}
}

// Run serves the api until ctx is done or the server fails
func (a *api) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if len(a.router.Routes()) == 0 {
		return ErrNoRoutes
	}

	cErr := make(chan error, 1)
	go func() {
		defer close(cErr)
		log.Info("Serving Api", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil {
			cErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("failed serving API: %w", ctx.Err())
	case err := <-cErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			log.Info("Api server closed")
			return nil
		}
		log.Error("Failed serving API", "error", err)
		return fmt.Errorf("failed serving API: %w", err)
	}
}

// Shutdown gracefully shuts down the api server.
// The error of ctx is returned together with the shutdown error.
func (a *api) Shutdown(ctx context.Context) error {
	errC := ctx.Err()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.FromContext(ctx).Error("Failed to shutdown api server", "error", err)
		return fmt.Errorf("failed shutting down API: %w", errors.Join(errC, err))
	}
	return errC
}

type Route struct {
	Path string
	// Method is an HTTP method or one of Handle and HandleFunc, which
	// serve every method
	Method  string
	Handler http.HandlerFunc
	// Doc describes the route in the OpenAPI document.
	// Routes without Doc are not documented.
	Doc *Doc
}

// RegisterRoutes sets up all endpoint handlers for the given routes
func (a *api) RegisterRoutes(ctx context.Context, routes ...Route) error {
	for _, route := range routes {
		if route.Method != "Handle" && route.Method != "HandleFunc" && !methods[route.Method] {
			return fmt.Errorf("unsupported method for %s: %s", route.Path, route.Method)
		}
	}

	a.router.Use(logger.Middleware(ctx), a.metrics.middleware, middleware.Recoverer)
	for _, route := range routes {
		switch route.Method {
		case "Handle":
			a.router.Handle(route.Path, route.Handler)
		case "HandleFunc":
			a.router.HandleFunc(route.Path, route.Handler)
		default:
			a.router.Method(route.Method, route.Path, route.Handler)
		}
	}

	// Handles requests with simple http ok
	// Used as liveness probe
	a.router.Handle("/", okHandler(ctx))

	return nil
}

func (a *api) GetMetricCollectors() []prometheus.Collector {
	return a.metrics.collectors()
}

// okHandler returns a handler that will serve status ok
func okHandler(ctx context.Context) http.Handler {
	log := logger.FromContext(ctx)

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			log.Error("Could not write response", "error", err.Error())
		}
	})
}

// requestMetrics counts the served requests per route pattern
type requestMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newRequestMetrics() *requestMetrics {
	return &requestMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uptimectl_console_requests_total",
			Help: "Number of requests served by the console",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uptimectl_console_request_duration_seconds",
			Help:    "Duration of requests served by the console",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *requestMetrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *requestMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requests, m.duration}
}
