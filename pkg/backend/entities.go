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
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/caas-team/uptimectl/pkg/health"
)

// Envelope wraps every response body of the backend
type Envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Project groups monitored URLs
type Project struct {
	ID          string `json:"_id,omitempty" yaml:"id,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Owner       string `json:"owner,omitempty" yaml:"owner,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Monitor is a URL registered for periodic checks
type Monitor struct {
	ID            string `json:"_id,omitempty" yaml:"id,omitempty"`
	Name          string `json:"name,omitempty" yaml:"name"`
	URL           string `json:"url,omitempty" yaml:"url"`
	URLWithIPPort string `json:"urlWithIpPort,omitempty" yaml:"urlWithIpPort,omitempty"`
	// CronSchedule is the check interval as configured in the backend
	CronSchedule health.Count `json:"cronSchedule,omitempty" yaml:"cronSchedule"`
	// Timeout is the request timeout in seconds
	Timeout health.Count `json:"timeout,omitempty" yaml:"timeout"`
	Method  string       `json:"method,omitempty" yaml:"method"`
	// Project is either a project id or the populated project
	Project   json.RawMessage `json:"project,omitempty" yaml:"-"`
	Body      json.RawMessage `json:"body,omitempty" yaml:"-"`
	Headers   json.RawMessage `json:"headers,omitempty" yaml:"-"`
	CreatedAt string          `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt string          `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// ProjectID returns the id of the monitor's project, whether the backend
// sent the bare id or the populated project.
func (m Monitor) ProjectID() string {
	r := gjson.ParseBytes(m.Project)
	switch {
	case r.Type == gjson.String:
		return r.String()
	case r.IsObject():
		return r.Get("_id").String()
	default:
		return ""
	}
}

// ProjectRef encodes a project id for Monitor.Project
func ProjectRef(id string) json.RawMessage {
	b, _ := json.Marshal(id)
	return b
}

// User is a member of the monitoring team
type User struct {
	ID          string `json:"_id,omitempty" yaml:"id,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name"`
	SlackUserID string `json:"slackUserId,omitempty" yaml:"slackUserId,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
}
