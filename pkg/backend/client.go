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

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"

	"github.com/caas-team/uptimectl/internal/helper"
	"github.com/caas-team/uptimectl/internal/httpclient"
	"github.com/caas-team/uptimectl/internal/logger"
	"github.com/caas-team/uptimectl/pkg/health"
)

const (
	// DefaultURL is the address of a locally running backend
	DefaultURL = "http://localhost:5001"
	// DefaultTimeout is the request timeout of the backend client
	DefaultTimeout = 50 * time.Second
)

// ErrNotFound is returned when a lookup by id yields no entity
var ErrNotFound = errors.New("not found")

// Client is the interface of the monitoring backend
type Client interface {
	// ListProjects returns all projects
	ListProjects(ctx context.Context) ([]Project, error)
	// CreateProject creates a project and returns it as stored
	CreateProject(ctx context.Context, p Project) (Project, error)
	// UpdateProject patches the project with the given id
	UpdateProject(ctx context.Context, id string, p Project) (Project, error)
	// DeleteProject deletes the project with the given id
	DeleteProject(ctx context.Context, id string) error

	// ListProjectURLs returns the monitors of a project
	ListProjectURLs(ctx context.Context, project string) ([]Monitor, error)
	// GetURL returns a single monitor
	GetURL(ctx context.Context, id string) (Monitor, error)
	CreateURL(ctx context.Context, m Monitor) (Monitor, error)
	UpdateURL(ctx context.Context, id string, m Monitor) (Monitor, error)
	DeleteURL(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, u User) (User, error)
	UpdateUser(ctx context.Context, id string, u User) (User, error)
	DeleteUser(ctx context.Context, id string) error

	// Health returns the health buckets of a monitor recorded since date
	Health(ctx context.Context, id string, date int64) (health.Payload, error)
	// LiveHealth returns the current health of a monitor
	LiveHealth(ctx context.Context, id string) (health.Payload, error)

	// GetMetricCollectors returns the metric collectors of the client
	GetMetricCollectors() []prometheus.Collector
}

// Config configures the backend client
type Config struct {
	// BaseURL is the address of the backend
	BaseURL string `json:"apiUrl" yaml:"apiUrl" mapstructure:"apiUrl"`
	// Token is sent verbatim in the Authorization header
	Token string `json:"token" yaml:"token" mapstructure:"token"`
	// Timeout of a single request
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// Retry configures the retries of read requests
	Retry helper.RetryConfig `json:"retry" yaml:"retry" mapstructure:"retry"`
}

// client implements Client over HTTP
type client struct {
	config  Config
	client  *http.Client
	metrics metrics
}

// New creates a new backend client. If hc is nil a client with the configured
// timeout is used.
func New(cfg Config, hc *http.Client) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if hc == nil {
		hc = httpclient.New(cfg.Timeout)
	}
	return &client{
		config:  cfg,
		client:  hc,
		metrics: newMetrics(),
	}
}

func (c *client) ListProjects(ctx context.Context) ([]Project, error) {
	var env Envelope[[]Project]
	if err := c.get(ctx, "/project", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *client) CreateProject(ctx context.Context, p Project) (Project, error) {
	var env Envelope[Project]
	err := c.do(ctx, http.MethodPost, "/project", nil, p, &env)
	return env.Data, err
}

func (c *client) UpdateProject(ctx context.Context, id string, p Project) (Project, error) {
	var env Envelope[Project]
	err := c.do(ctx, http.MethodPatch, "/project/"+url.PathEscape(id), nil, p, &env)
	return env.Data, err
}

func (c *client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/project/"+url.PathEscape(id), nil, nil, nil)
}

func (c *client) ListProjectURLs(ctx context.Context, project string) ([]Monitor, error) {
	var env Envelope[[]Monitor]
	if err := c.get(ctx, "/url", url.Values{"project": {project}}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetURL looks up a monitor by id. The backend answers with a list.
func (c *client) GetURL(ctx context.Context, id string) (Monitor, error) {
	var env Envelope[[]Monitor]
	if err := c.get(ctx, "/url", url.Values{"_id": {id}}, &env); err != nil {
		return Monitor{}, err
	}
	if len(env.Data) == 0 {
		return Monitor{}, fmt.Errorf("url %q: %w", id, ErrNotFound)
	}
	return env.Data[0], nil
}

func (c *client) CreateURL(ctx context.Context, m Monitor) (Monitor, error) {
	var env Envelope[Monitor]
	err := c.do(ctx, http.MethodPost, "/url", nil, m, &env)
	return env.Data, err
}

func (c *client) UpdateURL(ctx context.Context, id string, m Monitor) (Monitor, error) {
	var env Envelope[Monitor]
	err := c.do(ctx, http.MethodPatch, "/url/"+url.PathEscape(id), nil, m, &env)
	return env.Data, err
}

func (c *client) DeleteURL(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/url/"+url.PathEscape(id), nil, nil, nil)
}

func (c *client) ListUsers(ctx context.Context) ([]User, error) {
	var env Envelope[[]User]
	if err := c.get(ctx, "/user", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *client) CreateUser(ctx context.Context, u User) (User, error) {
	var env Envelope[User]
	err := c.do(ctx, http.MethodPost, "/user", nil, u, &env)
	return env.Data, err
}

func (c *client) UpdateUser(ctx context.Context, id string, u User) (User, error) {
	var env Envelope[User]
	err := c.do(ctx, http.MethodPatch, "/user/"+url.PathEscape(id), nil, u, &env)
	return env.Data, err
}

func (c *client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/user/"+url.PathEscape(id), nil, nil, nil)
}

func (c *client) Health(ctx context.Context, id string, date int64) (health.Payload, error) {
	var env Envelope[health.Payload]
	q := url.Values{"url": {id}, "createdAt": {strconv.FormatInt(date, 10)}}
	if err := c.get(ctx, "/health", q, &env); err != nil {
		return health.Payload{}, err
	}
	return env.Data, nil
}

func (c *client) LiveHealth(ctx context.Context, id string) (health.Payload, error) {
	var env Envelope[health.Payload]
	if err := c.get(ctx, "/health/live", url.Values{"url": {id}}, &env); err != nil {
		return health.Payload{}, err
	}
	return env.Data, nil
}

func (c *client) GetMetricCollectors() []prometheus.Collector {
	return c.metrics.collectors()
}

// get performs a GET request and retries it on transient failures.
// Client errors are not retried.
func (c *client) get(ctx context.Context, path string, query url.Values, out any) error {
	return helper.Retry(func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, path, query, nil, out)
		var reqErr ErrRequest
		if errors.As(err, &reqErr) && !reqErr.Temporary() {
			return helper.Permanent(err)
		}
		return err
	}, c.config.Retry)(ctx)
}

// do sends a request to the backend and decodes the response body into out
func (c *client) do(ctx context.Context, method, path string, query url.Values, body, out any) (err error) {
	log := logger.FromContext(ctx).With("method", method, "path", path)

	var payload io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			log.Error("Failed to encode request body", "error", err)
			return err
		}
		payload = bytes.NewReader(b)
	}

	u := strings.TrimSuffix(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		log.Error("Failed to create request", "error", err)
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", c.config.Token)
	}

	resource := resourceOf(path)
	start := time.Now()
	res, err := c.client.Do(req) //nolint:bodyclose // closed in defer
	c.metrics.duration.WithLabelValues(method, resource).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error("Failed to send request", "error", err)
		c.metrics.requests.WithLabelValues(method, resource, "error").Inc()
		return err
	}
	defer func() {
		if cErr := res.Body.Close(); cErr != nil {
			log.Error("Failed to close response body", "error", cErr)
			err = errors.Join(err, cErr)
		}
	}()
	c.metrics.requests.WithLabelValues(method, resource, strconv.Itoa(res.StatusCode)).Inc()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		log.Error("Failed to read response body", "error", err)
		return err
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		reqErr := ErrRequest{
			Method:  method,
			Path:    path,
			Status:  res.StatusCode,
			Message: gjson.GetBytes(b, "message").String(),
		}
		log.Error("Request failed", "status", res.Status, "message", reqErr.Message)
		return reqErr
	}

	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err = json.Unmarshal(b, out); err != nil {
		log.Error("Failed to decode response body", "error", err)
		return err
	}
	log.Debug("Request succeeded", "status", res.StatusCode)
	return nil
}

// resourceOf returns the first path segment, e.g. "project" for "/project/42"
func resourceOf(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
