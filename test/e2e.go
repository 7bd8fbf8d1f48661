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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/google/go-cmp/cmp"

	"github.com/caas-team/uptimectl/pkg/backend"
	"github.com/caas-team/uptimectl/pkg/config"
	"github.com/caas-team/uptimectl/pkg/console"
	"github.com/caas-team/uptimectl/pkg/query"
)

var _ Runner = (*E2E)(nil)

// E2E runs the console against a fake backend
type E2E struct {
	t       *testing.T
	config  config.Config
	backend *Backend
	mu      sync.Mutex
	running bool
}

// WithBackend starts the fake backend and points the console to it
func (t *E2E) WithBackend(b *Backend) *E2E {
	t.backend = b
	t.config.SetApiURL(b.Start(t.t))
	return t
}

// Run runs the console until ctx is done.
// Must be called once.
func (t *E2E) Run(ctx context.Context) error {
	if t.isRunning() {
		t.t.Fatal("E2E.Run must be called once")
	}

	calc, err := t.config.Calculator()
	if err != nil {
		return err
	}
	q := query.New(backend.New(t.config.Backend, nil), query.NewStore(t.config.Cache))
	c := console.New(t.config.Api, q, calc, "e2e")

	t.mu.Lock()
	t.running = true
	t.mu.Unlock()
	return c.Run(ctx)
}

// AwaitStartup waits until the provided URL is ready.
//
// Must be called after the e2e test started with [E2E.Run].
func (t *E2E) AwaitStartup(u string, failureTimeout time.Duration) *E2E {
	t.t.Helper()
	// To ensure the goroutine is started before we are checking if the test is running.
	const initialDelay = 100 * time.Millisecond
	<-time.After(initialDelay)
	if !t.isRunning() {
		t.t.Fatal("E2E.AwaitStartup must be called after E2E.Run")
	}

	const retryInterval = 100 * time.Millisecond
	start := time.Now()
	deadline := start.Add(failureTimeout)

	for {
		status, err := get(u)
		if err == nil && status == http.StatusOK {
			t.t.Logf("%s is ready after %v", u, time.Since(start))
			return t
		}
		if time.Now().After(deadline) {
			t.t.Errorf("%s is not ready [%d] after %v: %v", u, status, failureTimeout, err)
			return t
		}
		<-time.After(retryInterval)
	}
}

func get(u string) (int, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, u, http.NoBody)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func (t *E2E) isRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

type e2eHttpAsserter struct {
	e2e    *E2E
	url    string
	schema *openapi3.T
	router routers.Router
	want   any
}

// HttpAssertion creates a new HTTP assertion for the given URL.
func (t *E2E) HttpAssertion(u string) *e2eHttpAsserter {
	return &e2eHttpAsserter{e2e: t, url: u}
}

// Assert asserts the status code and optional validations against the response.
// Optional validations must be set before calling this method.
//
// Must be called after the e2e test started with [E2E.Run].
func (a *e2eHttpAsserter) Assert(status int) {
	a.e2e.t.Helper()
	if !a.e2e.isRunning() {
		a.e2e.t.Fatal("e2eHttpAsserter.Assert must be called after E2E.Run")
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, a.url, http.NoBody)
	if err != nil {
		a.e2e.t.Fatalf("Failed to create request: %v", err)
		return
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		a.e2e.t.Errorf("Failed to get %s: %v", a.url, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != status {
		a.e2e.t.Errorf("Want status code %d for %s, got %d", status, a.url, resp.StatusCode)
		return
	}
	a.e2e.t.Logf("Got status code %d for %s", resp.StatusCode, a.url)

	if status != http.StatusOK {
		return
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		a.e2e.t.Fatalf("Failed to read response body: %v", err)
	}
	if a.schema != nil && a.router != nil {
		if err = a.assertSchema(req, resp.StatusCode, data); err != nil {
			a.e2e.t.Errorf("Response from %q does not match schema: %v", a.url, err)
		}
	}
	if a.want != nil {
		a.assertBody(data)
	}
}

// WithSchema fetches the OpenAPI schema and validates the response against it.
func (a *e2eHttpAsserter) WithSchema() *e2eHttpAsserter {
	a.e2e.t.Helper()
	schema, err := a.fetchSchema()
	if err != nil {
		a.e2e.t.Fatalf("Failed to fetch OpenAPI schema: %v", err)
	}

	router, err := gorillamux.NewRouter(schema)
	if err != nil {
		a.e2e.t.Fatalf("Failed to create router from OpenAPI schema: %v", err)
	}

	a.schema = schema
	a.router = router
	return a
}

// WithHealth sets the expected health of the response
func (a *e2eHttpAsserter) WithHealth(want console.HealthInfo) *e2eHttpAsserter { //nolint:gocritic // Performance is not a concern here
	a.want = want
	return a
}

// WithDay sets the expected day of the response
func (a *e2eHttpAsserter) WithDay(want console.DayInfo) *e2eHttpAsserter {
	a.want = want
	return a
}

func (a *e2eHttpAsserter) fetchSchema() (*openapi3.T, error) {
	ctx := context.Background()
	u, err := url.Parse(a.url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	u.Path = "/openapi"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET OpenAPI schema: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI schema: %w", err)
	}

	schema, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI schema: %w", err)
	}
	if err = schema.Validate(ctx); err != nil {
		return nil, fmt.Errorf("OpenAPI schema validation error: %w", err)
	}

	return schema, nil
}

func (a *e2eHttpAsserter) assertSchema(req *http.Request, status int, data []byte) error {
	route, _, err := a.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("failed to find route: %w", err)
	}

	responseRef := route.Operation.Responses.Get(status)
	if responseRef == nil || responseRef.Value == nil {
		return fmt.Errorf("no response defined in OpenAPI schema for status code %d", status)
	}

	mediaType := responseRef.Value.Content.Get("application/json")
	if mediaType == nil {
		return errors.New("no media type defined in OpenAPI schema for Content-Type 'application/json'")
	}

	var body any
	if err = json.NewDecoder(bytes.NewReader(data)).Decode(&body); err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	if err = mediaType.Schema.Value.VisitJSON(body); err != nil {
		return fmt.Errorf("response body does not match schema: %w", err)
	}
	return nil
}

func (a *e2eHttpAsserter) assertBody(data []byte) {
	a.e2e.t.Helper()
	switch want := a.want.(type) {
	case console.HealthInfo:
		var got console.HealthInfo
		if err := json.Unmarshal(data, &got); err != nil {
			a.e2e.t.Fatalf("Failed to decode response body: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			a.e2e.t.Errorf("Health mismatch (-want +got):\n%s", diff)
		}
	case console.DayInfo:
		var got console.DayInfo
		if err := json.Unmarshal(data, &got); err != nil {
			a.e2e.t.Fatalf("Failed to decode response body: %v", err)
		}
		if got.StartOfDay != want.StartOfDay || got.EndOfDay != want.EndOfDay {
			a.e2e.t.Errorf("Want day %d-%d, got %d-%d", want.StartOfDay, want.EndOfDay, got.StartOfDay, got.EndOfDay)
		}
	default:
		a.e2e.t.Fatalf("Invalid response type: %T", a.want)
	}
}
