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

package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/caas-team/uptimectl/pkg/backend"
	backendmock "github.com/caas-team/uptimectl/pkg/backend/test"
	"github.com/caas-team/uptimectl/pkg/config"
	"github.com/caas-team/uptimectl/pkg/health"
	"github.com/caas-team/uptimectl/pkg/query"
	"github.com/caas-team/uptimectl/pkg/timezone"
)

// 2024-12-21T10:00:00+05:30
const referenceInstant = 1734755400

func newTestConsole(t *testing.T) (*Console, *backendmock.MockClient) {
	t.Helper()
	loc, err := time.LoadLocation(timezone.DefaultZone)
	require.NoError(t, err)
	calc := timezone.New(loc, timezone.WithClock(func() time.Time { return time.Unix(referenceInstant, 0) }))

	mock := backendmock.New(nil, []backend.Monitor{{ID: "m1", Name: "api"}}, nil)
	q := query.New(mock, query.NewStore(query.Options{}))
	return New(config.ApiConfig{ListeningAddress: "localhost:0"}, q, calc, "v0.0.1"), mock
}

func newTestRouter(c *Console) chi.Router {
	r := chi.NewRouter()
	for _, route := range c.routes() {
		if route.Method == "Handle" {
			r.Handle(route.Path, route.Handler)
			continue
		}
		r.MethodFunc(route.Method, route.Path, route.Handler)
	}
	return r
}

func serve(t *testing.T, h http.Handler, target string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, bytes.NewBuffer([]byte{}))
	for k, v := range headers {
		req.Header.Add(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result() //nolint:bodyclose // closed by caller
}

func TestConsole_handleURLHealth(t *testing.T) {
	c, mock := newTestConsole(t)
	mock.SetHealth("m1", health.Many(
		health.Bucket{
			NumberOfRetries: health.Ptr(1), NumberOfTimeouts: health.Ptr(1), NumberOfCronruns: health.Ptr(2),
			LatestResponse: []health.Record{
				{Timestamp: 1, Success: true, ResponseTime: 100},
				{Timestamp: 2, Timeout: true, ResponseTime: 300},
			},
		},
		health.Bucket{NumberOfCronruns: health.Ptr(1), LatestResponse: []health.Record{{Timestamp: 3, ResponseTime: 200}}},
	))
	mock.SetLiveHealth("m1", health.Single(health.Bucket{NumberOfCronruns: health.Ptr(9)}))
	router := newTestRouter(c)

	tests := []struct {
		name     string
		target   string
		wantCode int
		want     *HealthInfo
	}{
		{
			name:     "defaults to today",
			target:   "/v1/urls/m1/health",
			wantCode: http.StatusOK,
			want: &HealthInfo{
				ID: "m1", Date: 1734719400,
				Health: health.Bucket{
					NumberOfRetries: health.Ptr(1), NumberOfTimeouts: health.Ptr(1), NumberOfCronruns: health.Ptr(3),
					LatestResponse: []health.Record{
						{Timestamp: 1, Success: true, ResponseTime: 100},
						{Timestamp: 2, Timeout: true, ResponseTime: 300},
						{Timestamp: 3, ResponseTime: 200},
					},
				},
				Tally: health.Tally{Success: 1, Timeout: 1, Failure: 1, AverageResponseTime: 200},
			},
		},
		{
			name:     "live",
			target:   "/v1/urls/m1/health?live=true&date=5",
			wantCode: http.StatusOK,
			want: &HealthInfo{
				ID: "m1", Date: 5, Live: true,
				Health: health.Bucket{NumberOfCronruns: health.Ptr(9)},
			},
		},
		{name: "invalid date", target: "/v1/urls/m1/health?date=yesterday", wantCode: http.StatusBadRequest},
		{name: "invalid live", target: "/v1/urls/m1/health?live=maybe", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(t, router, tt.target, nil)
			defer resp.Body.Close()
			require.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.want == nil {
				return
			}
			var got HealthInfo
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			if diff := cmp.Diff(*tt.want, got); diff != "" {
				t.Errorf("handleURLHealth() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConsole_handleURLHealth_errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "not found", err: backend.ErrRequest{Method: "GET", Path: "/health", Status: http.StatusNotFound}, wantCode: http.StatusNotFound},
		{name: "backend unauthorized", err: backend.ErrRequest{Method: "GET", Path: "/health", Status: http.StatusUnauthorized}, wantCode: http.StatusBadGateway},
		{name: "backend down", err: errors.New("connection refused"), wantCode: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mock := newTestConsole(t)
			mock.SetErr(tt.err)
			resp := serve(t, newTestRouter(c), "/v1/urls/m1/health", nil)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}

func Test_statusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(query.ErrDisabled))
	assert.Equal(t, http.StatusNotFound, statusFor(backend.ErrNotFound))
	assert.Equal(t, http.StatusBadGateway, statusFor(context.DeadlineExceeded))
}

func TestConsole_handleDay(t *testing.T) {
	c, _ := newTestConsole(t)
	router := newTestRouter(c)

	tests := []struct {
		name     string
		target   string
		wantCode int
		want     DayInfo
	}{
		{
			name:     "today",
			target:   "/v1/day",
			wantCode: http.StatusOK,
			want:     DayInfo{StartOfDay: 1734719400, EndOfDay: 1734805799, SecondsRemaining: 50399},
		},
		{
			name:     "zero is today",
			target:   "/v1/day?at=0",
			wantCode: http.StatusOK,
			want:     DayInfo{StartOfDay: 1734719400, EndOfDay: 1734805799, SecondsRemaining: 50399},
		},
		{
			name:     "epoch",
			target:   "/v1/day?at=1",
			wantCode: http.StatusOK,
			want:     DayInfo{StartOfDay: -19800, EndOfDay: 66599, SecondsRemaining: 50399},
		},
		{name: "invalid", target: "/v1/day?at=noon", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(t, router, tt.target, nil)
			defer resp.Body.Close()
			require.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.wantCode != http.StatusOK {
				return
			}
			var got DayInfo
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsole_handleTime(t *testing.T) {
	c, _ := newTestConsole(t)
	router := newTestRouter(c)

	tests := []struct {
		name     string
		target   string
		wantCode int
		want     TimeInfo
	}{
		{
			name:     "now",
			target:   "/v1/time",
			wantCode: http.StatusOK,
			want:     TimeInfo{Timestamp: referenceInstant, Display: "December 21, 2024 at 10:00:00 AM IST"},
		},
		{
			name:     "fractional",
			target:   "/v1/time?ts=0.9",
			wantCode: http.StatusOK,
			want:     TimeInfo{Timestamp: 0, Display: "January 1, 1970 at 05:30:00 AM IST"},
		},
		{name: "not a number", target: "/v1/time?ts=abc", wantCode: http.StatusBadRequest},
		{name: "nan", target: "/v1/time?ts=NaN", wantCode: http.StatusBadRequest},
		{name: "infinite", target: "/v1/time?ts=Inf", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(t, router, tt.target, nil)
			defer resp.Body.Close()
			require.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.wantCode != http.StatusOK {
				return
			}
			var got TimeInfo
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsole_handleOpenAPI(t *testing.T) {
	c, _ := newTestConsole(t)
	router := newTestRouter(c)

	tests := []struct {
		name    string
		headers map[string]string
		decoder func([]byte, any) error
		wantCT  string
	}{
		{name: "yaml is default", headers: map[string]string{}, decoder: yaml.Unmarshal, wantCT: "text/yaml"},
		{name: "set json via accept header", headers: map[string]string{"Accept": "application/json"}, decoder: json.Unmarshal, wantCT: "application/json"},
		{name: "set yaml via accept header", headers: map[string]string{"Accept": "text/yaml"}, decoder: yaml.Unmarshal, wantCT: "text/yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(t, router, "/openapi", tt.headers)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantCT, resp.Header.Get("Content-Type"))

			b, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if err := tt.decoder(b, &openapi3.T{}); err != nil {
				t.Errorf("failed to decode response handleOpenAPI() = %v", err)
			}
			for _, p := range []string{"/v1/urls/{id}/health", "/v1/day", "/v1/time"} {
				assert.Contains(t, string(b), p)
			}
			assert.NotContains(t, string(b), "/metrics")
		})
	}
}

func TestConsole_Run(t *testing.T) {
	c, _ := newTestConsole(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("console did not stop")
	}

	mfs, err := c.metrics.GetRegistry().Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, strings.Join(names, ","), "go_goroutines")
}

func TestConsole_metrics(t *testing.T) {
	c, _ := newTestConsole(t)
	require.NoError(t, c.metrics.Register(c.query.GetMetricCollectors()...))
	router := newTestRouter(c)

	// warm a cache counter
	resp := serve(t, router, "/v1/urls/m1/health", nil)
	resp.Body.Close()

	resp = serve(t, router, "/metrics", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "uptimectl_query_cache_misses_total")
}
