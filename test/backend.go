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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/caas-team/uptimectl/pkg/backend"
	"github.com/caas-team/uptimectl/pkg/health"
)

// Backend is a fake monitoring backend serving fixed data over HTTP
type Backend struct {
	mu       sync.Mutex
	projects []backend.Project
	monitors []backend.Monitor
	users    []backend.User
	health   map[string]health.Payload
	live     map[string]health.Payload
	calls    map[string]int
}

func NewBackend() *Backend {
	return &Backend{
		health: map[string]health.Payload{},
		live:   map[string]health.Payload{},
		calls:  map[string]int{},
	}
}

func (b *Backend) WithProjects(ps ...backend.Project) *Backend {
	b.projects = append(b.projects, ps...)
	return b
}

func (b *Backend) WithMonitors(ms ...backend.Monitor) *Backend {
	b.monitors = append(b.monitors, ms...)
	return b
}

func (b *Backend) WithUsers(us ...backend.User) *Backend {
	b.users = append(b.users, us...)
	return b
}

// WithHealth sets the stored health of a monitor
func (b *Backend) WithHealth(id string, p health.Payload) *Backend {
	b.health[id] = p
	return b
}

// WithLiveHealth sets the live health of a monitor
func (b *Backend) WithLiveHealth(id string, p health.Payload) *Backend {
	b.live[id] = p
	return b
}

// Calls returns how often the path was requested
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// Start serves the backend until the test ends and returns its url
func (b *Backend) Start(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(b.router())
	t.Cleanup(srv.Close)
	return srv.URL
}

func (b *Backend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(b.count)
	r.Get("/project", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, b.projects)
	})
	r.Get("/user", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, b.users)
	})
	r.Get("/url", b.handleURLs)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond(w, lookup(b.health, r.URL.Query().Get("url"), health.Many()))
	})
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		respond(w, lookup(b.live, r.URL.Query().Get("url"), health.Single(health.Bucket{})))
	})
	return r
}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[r.URL.Path]++
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleURLs(w http.ResponseWriter, r *http.Request) {
	id, project := r.URL.Query().Get("_id"), r.URL.Query().Get("project")
	ms := []backend.Monitor{}
	for _, m := range b.monitors {
		if (id == "" || m.ID == id) && (project == "" || m.ProjectID() == project) {
			ms = append(ms, m)
		}
	}
	respond(w, ms)
}

func lookup(m map[string]health.Payload, id string, def health.Payload) health.Payload {
	if p, ok := m[id]; ok {
		return p
	}
	return def
}

func respond[T any](w http.ResponseWriter, data T) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(backend.Envelope[T]{Data: data})
}
