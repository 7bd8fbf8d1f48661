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

package backendmock

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/caas-team/uptimectl/internal/logger"
	"github.com/caas-team/uptimectl/pkg/backend"
	"github.com/caas-team/uptimectl/pkg/health"
)

var _ backend.Client = (*MockClient)(nil)

// MockClient is an in-memory backend.Client
type MockClient struct {
	mu       sync.Mutex
	projects []backend.Project
	monitors []backend.Monitor
	users    []backend.User
	health   map[string]health.Payload
	live     map[string]health.Payload
	err      error
	calls    map[string]int
}

// New creates a new MockClient serving the given entities
func New(projects []backend.Project, monitors []backend.Monitor, users []backend.User) *MockClient {
	return &MockClient{
		projects: projects,
		monitors: monitors,
		users:    users,
		health:   map[string]health.Payload{},
		live:     map[string]health.Payload{},
		calls:    map[string]int{},
	}
}

// SetErr sets the error returned by every method
func (m *MockClient) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetHealth sets the payload returned by Health for the monitor id
func (m *MockClient) SetHealth(id string, p health.Payload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.health[id] = p
}

// SetLiveHealth sets the payload returned by LiveHealth for the monitor id
func (m *MockClient) SetLiveHealth(id string, p health.Payload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[id] = p
}

// Calls returns the number of times the named method was called
func (m *MockClient) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockClient) record(ctx context.Context, method string) error {
	m.mu.Lock()
	m.calls[method]++
	err := m.err
	m.mu.Unlock()
	logger.FromContext(ctx).Info("Mock"+method+" called", "err", err)
	return err
}

func (m *MockClient) ListProjects(ctx context.Context) ([]backend.Project, error) {
	if err := m.record(ctx, "ListProjects"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]backend.Project{}, m.projects...), nil
}

func (m *MockClient) CreateProject(ctx context.Context, p backend.Project) (backend.Project, error) {
	if err := m.record(ctx, "CreateProject"); err != nil {
		return backend.Project{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = append(m.projects, p)
	return p, nil
}

func (m *MockClient) UpdateProject(ctx context.Context, id string, p backend.Project) (backend.Project, error) {
	if err := m.record(ctx, "UpdateProject"); err != nil {
		return backend.Project{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = id
	for i := range m.projects {
		if m.projects[i].ID == id {
			m.projects[i] = p
			return p, nil
		}
	}
	return backend.Project{}, backend.ErrRequest{Method: "PATCH", Path: "/project/" + id, Status: 404}
}

func (m *MockClient) DeleteProject(ctx context.Context, id string) error {
	if err := m.record(ctx, "DeleteProject"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.projects {
		if m.projects[i].ID == id {
			m.projects = append(m.projects[:i], m.projects[i+1:]...)
			return nil
		}
	}
	return backend.ErrRequest{Method: "DELETE", Path: "/project/" + id, Status: 404}
}

func (m *MockClient) ListProjectURLs(ctx context.Context, project string) ([]backend.Monitor, error) {
	if err := m.record(ctx, "ListProjectURLs"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []backend.Monitor{}
	for _, mon := range m.monitors {
		if mon.ProjectID() == project {
			res = append(res, mon)
		}
	}
	return res, nil
}

func (m *MockClient) GetURL(ctx context.Context, id string) (backend.Monitor, error) {
	if err := m.record(ctx, "GetURL"); err != nil {
		return backend.Monitor{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mon := range m.monitors {
		if mon.ID == id {
			return mon, nil
		}
	}
	return backend.Monitor{}, backend.ErrNotFound
}

func (m *MockClient) CreateURL(ctx context.Context, mon backend.Monitor) (backend.Monitor, error) {
	if err := m.record(ctx, "CreateURL"); err != nil {
		return backend.Monitor{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monitors = append(m.monitors, mon)
	return mon, nil
}

func (m *MockClient) UpdateURL(ctx context.Context, id string, mon backend.Monitor) (backend.Monitor, error) {
	if err := m.record(ctx, "UpdateURL"); err != nil {
		return backend.Monitor{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mon.ID = id
	for i := range m.monitors {
		if m.monitors[i].ID == id {
			m.monitors[i] = mon
			return mon, nil
		}
	}
	return backend.Monitor{}, backend.ErrRequest{Method: "PATCH", Path: "/url/" + id, Status: 404}
}

func (m *MockClient) DeleteURL(ctx context.Context, id string) error {
	if err := m.record(ctx, "DeleteURL"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.monitors {
		if m.monitors[i].ID == id {
			m.monitors = append(m.monitors[:i], m.monitors[i+1:]...)
			return nil
		}
	}
	return backend.ErrRequest{Method: "DELETE", Path: "/url/" + id, Status: 404}
}

func (m *MockClient) ListUsers(ctx context.Context) ([]backend.User, error) {
	if err := m.record(ctx, "ListUsers"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]backend.User{}, m.users...), nil
}

func (m *MockClient) CreateUser(ctx context.Context, u backend.User) (backend.User, error) {
	if err := m.record(ctx, "CreateUser"); err != nil {
		return backend.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, u)
	return u, nil
}

func (m *MockClient) UpdateUser(ctx context.Context, id string, u backend.User) (backend.User, error) {
	if err := m.record(ctx, "UpdateUser"); err != nil {
		return backend.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = id
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i] = u
			return u, nil
		}
	}
	return backend.User{}, backend.ErrRequest{Method: "PATCH", Path: "/user/" + id, Status: 404}
}

func (m *MockClient) DeleteUser(ctx context.Context, id string) error {
	if err := m.record(ctx, "DeleteUser"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return backend.ErrRequest{Method: "DELETE", Path: "/user/" + id, Status: 404}
}

func (m *MockClient) Health(ctx context.Context, id string, _ int64) (health.Payload, error) {
	if err := m.record(ctx, "Health"); err != nil {
		return health.Payload{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.health[id]; ok {
		return p, nil
	}
	return health.Many(), nil
}

func (m *MockClient) LiveHealth(ctx context.Context, id string) (health.Payload, error) {
	if err := m.record(ctx, "LiveHealth"); err != nil {
		return health.Payload{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.live[id]; ok {
		return p, nil
	}
	return health.Single(health.Bucket{}), nil
}

func (m *MockClient) GetMetricCollectors() []prometheus.Collector {
	return []prometheus.Collector{}
}
