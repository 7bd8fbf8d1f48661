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

package query

import (
	"context"
	"errors"
	"slices"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/caas-team/uptimectl/pkg/backend"
	"github.com/caas-team/uptimectl/pkg/health"
)

// ErrDisabled is returned by reads that need an id when none is given
var ErrDisabled = errors.New("query disabled: missing id")

const (
	KeyProjects = "projects"
	KeyURLs     = "urls"
	KeyUsers    = "users"
)

// ProjectURLsKey is the cache key of the monitors of a project
func ProjectURLsKey(project string) string {
	return KeyProjects + "/urls/" + project
}

// URLKey is the cache key of a single monitor
func URLKey(id string) string {
	return KeyURLs + "/" + id
}

// URLHealthKey is the cache key of a monitor's aggregated health
func URLHealthKey(id string, date int64, live bool) string {
	return KeyURLs + "/health/" + id + "/" + strconv.FormatInt(date, 10) + "/" + strconv.FormatBool(live)
}

// Client reads from the backend through the Store and invalidates
// affected entries on mutations. Reads return copies of the cached slices;
// the raw JSON fields of monitors are shared and must not be modified.
type Client struct {
	backend backend.Client
	store   *Store
}

// New creates a new query client
func New(b backend.Client, s *Store) *Client {
	if s == nil {
		s = NewStore(Options{})
	}
	return &Client{backend: b, store: s}
}

func (c *Client) Projects(ctx context.Context) ([]backend.Project, error) {
	ps, err := load(ctx, c.store, KeyProjects, nil, c.backend.ListProjects)
	return cloned(ps, err)
}

func (c *Client) ProjectURLs(ctx context.Context, project string) ([]backend.Monitor, error) {
	if project == "" {
		return nil, ErrDisabled
	}
	ms, err := load(ctx, c.store, ProjectURLsKey(project), nil, func(ctx context.Context) ([]backend.Monitor, error) {
		return c.backend.ListProjectURLs(ctx, project)
	})
	return cloned(ms, err)
}

func (c *Client) URL(ctx context.Context, id string) (backend.Monitor, error) {
	if id == "" {
		return backend.Monitor{}, ErrDisabled
	}
	return load(ctx, c.store, URLKey(id), nil, func(ctx context.Context) (backend.Monitor, error) {
		return c.backend.GetURL(ctx, id)
	})
}

// URLHealth returns the aggregated health of a monitor since date.
// Live reads ignore date and are never cached.
func (c *Client) URLHealth(ctx context.Context, id string, date int64, live bool) (health.Bucket, error) {
	if id == "" {
		return health.Bucket{}, ErrDisabled
	}
	b, err := load(ctx, c.store, URLHealthKey(id, date, live), &LoadOptions{DisableLRU: live},
		func(ctx context.Context) (health.Bucket, error) {
			var (
				p   health.Payload
				err error
			)
			if live {
				p, err = c.backend.LiveHealth(ctx, id)
			} else {
				p, err = c.backend.Health(ctx, id, date)
			}
			if err != nil {
				return health.Bucket{}, err
			}
			return health.Aggregate(p), nil
		})
	if err != nil {
		return health.Bucket{}, err
	}
	return b.Clone(), nil
}

func (c *Client) Users(ctx context.Context) ([]backend.User, error) {
	us, err := load(ctx, c.store, KeyUsers, nil, c.backend.ListUsers)
	return cloned(us, err)
}

func (c *Client) CreateProject(ctx context.Context, p backend.Project) (backend.Project, error) {
	p, err := c.backend.CreateProject(ctx, p)
	return p, c.invalidate(ctx, err, KeyProjects, KeyURLs)
}

func (c *Client) UpdateProject(ctx context.Context, id string, p backend.Project) (backend.Project, error) {
	p, err := c.backend.UpdateProject(ctx, id, p)
	return p, c.invalidate(ctx, err, KeyProjects, KeyURLs)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.invalidate(ctx, c.backend.DeleteProject(ctx, id), KeyProjects, KeyURLs)
}

func (c *Client) CreateURL(ctx context.Context, m backend.Monitor) (backend.Monitor, error) {
	m, err := c.backend.CreateURL(ctx, m)
	return m, c.invalidate(ctx, err, KeyProjects, KeyURLs)
}

func (c *Client) UpdateURL(ctx context.Context, id string, m backend.Monitor) (backend.Monitor, error) {
	m, err := c.backend.UpdateURL(ctx, id, m)
	return m, c.invalidate(ctx, err, KeyProjects, KeyURLs)
}

func (c *Client) DeleteURL(ctx context.Context, id string) error {
	return c.invalidate(ctx, c.backend.DeleteURL(ctx, id), KeyProjects, KeyURLs)
}

func (c *Client) CreateUser(ctx context.Context, u backend.User) (backend.User, error) {
	u, err := c.backend.CreateUser(ctx, u)
	return u, c.invalidate(ctx, err, KeyUsers)
}

func (c *Client) UpdateUser(ctx context.Context, id string, u backend.User) (backend.User, error) {
	u, err := c.backend.UpdateUser(ctx, id, u)
	return u, c.invalidate(ctx, err, KeyUsers)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.invalidate(ctx, c.backend.DeleteUser(ctx, id), KeyUsers)
}

// Invalidate drops the entries stored under the key prefix
func (c *Client) Invalidate(ctx context.Context, prefix string) {
	c.store.Invalidate(ctx, prefix)
}

// GetMetricCollectors returns the collectors of the store and the backend
func (c *Client) GetMetricCollectors() []prometheus.Collector {
	return append(c.store.GetMetricCollectors(), c.backend.GetMetricCollectors()...)
}

// cloned copies a cached slice so callers cannot modify the cache
func cloned[S ~[]E, E any](s S, err error) (S, error) {
	if err != nil {
		return nil, err
	}
	return slices.Clone(s), nil
}

// invalidate drops the given key prefixes unless the mutation failed
func (c *Client) invalidate(ctx context.Context, err error, prefixes ...string) error {
	if err != nil {
		return err
	}
	for _, p := range prefixes {
		c.store.Invalidate(ctx, p)
	}
	return nil
}
