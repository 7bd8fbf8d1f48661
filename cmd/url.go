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

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/caas-team/uptimectl/pkg/backend"
	"github.com/caas-team/uptimectl/pkg/health"
)

// NewCmdURL creates the url command group
func NewCmdURL() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Manage monitored URLs",
	}
	cmd.AddCommand(
		newCmdURLList(),
		newCmdURLGet(),
		newCmdURLCreate(),
		newCmdURLUpdate(),
		newCmdURLDelete(),
	)
	return cmd
}

func newCmdURLList() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the monitored URLs of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			monitors, err := d.query.ProjectURLs(cmd.Context(), project)
			if err != nil {
				return err
			}
			return d.out.print(monitors, func(w io.Writer) {
				row(w, "ID", "NAME", "METHOD", "URL", "TIMEOUT", "SCHEDULE")
				for _, m := range monitors {
					row(w, m.ID, m.Name, m.Method, m.URL, fmt.Sprintf("%ds", m.Timeout), m.CronSchedule)
				}
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "id of the project")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newCmdURLGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <url-id>",
		Short: "Show a monitored URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			m, err := d.query.URL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return d.out.print(m, func(w io.Writer) {
				row(w, "ID", m.ID)
				row(w, "NAME", m.Name)
				row(w, "PROJECT", m.ProjectID())
				row(w, "METHOD", m.Method)
				row(w, "URL", m.URL)
				if m.URLWithIPPort != "" {
					row(w, "RESOLVED", m.URLWithIPPort)
				}
				row(w, "TIMEOUT", fmt.Sprintf("%ds", m.Timeout))
				row(w, "SCHEDULE", m.CronSchedule)
				if len(m.Headers) > 0 {
					row(w, "HEADERS", string(m.Headers))
				}
				if len(m.Body) > 0 {
					row(w, "BODY", string(m.Body))
				}
			})
		},
	}
}

// monitorFlags holds the flags describing a monitor
type monitorFlags struct {
	name, url, method, project string
	body, headers              string
	timeout, cron              int64
}

// bind binds the flags using the current values as defaults
func (f *monitorFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", f.name, "name of the monitor")
	cmd.Flags().StringVar(&f.url, "url", f.url, "the monitored URL")
	cmd.Flags().StringVar(&f.method, "method", f.method, "HTTP method of the check")
	cmd.Flags().StringVar(&f.project, "project", f.project, "id of the project the monitor belongs to")
	cmd.Flags().StringVar(&f.body, "body", f.body, "JSON body sent with the check")
	cmd.Flags().StringVar(&f.headers, "headers", f.headers, "JSON object of headers sent with the check")
	cmd.Flags().Int64Var(&f.timeout, "requestTimeout", f.timeout, "timeout of the check in seconds")
	cmd.Flags().Int64Var(&f.cron, "cron", f.cron, "interval of the check as understood by the backend scheduler")
}

func (f *monitorFlags) monitor() (backend.Monitor, error) {
	m := backend.Monitor{
		Name:         f.name,
		URL:          f.url,
		Method:       strings.ToUpper(f.method),
		Timeout:      health.Count(f.timeout),
		CronSchedule: health.Count(f.cron),
	}
	if f.project != "" {
		m.Project = backend.ProjectRef(f.project)
	}
	if f.body != "" {
		if !gjson.Valid(f.body) {
			return backend.Monitor{}, fmt.Errorf("body is not valid JSON: %s", f.body)
		}
		m.Body = json.RawMessage(f.body)
	}
	if f.headers != "" {
		if !gjson.Valid(f.headers) || !gjson.Parse(f.headers).IsObject() {
			return backend.Monitor{}, fmt.Errorf("headers must be a JSON object: %s", f.headers)
		}
		m.Headers = json.RawMessage(f.headers)
	}
	return m, nil
}

func newCmdURLCreate() *cobra.Command {
	f := monitorFlags{method: "GET", body: "{}", headers: "{}"}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a URL for monitoring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			m, err := f.monitor()
			if err != nil {
				return err
			}
			created, err := d.query.CreateURL(cmd.Context(), m)
			if err != nil {
				return err
			}
			d.confirm(cmd, "URL %q created", created.Name)
			return nil
		},
	}
	f.bind(cmd)
	for _, name := range []string{"name", "url", "project"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newCmdURLUpdate() *cobra.Command {
	f := monitorFlags{}
	cmd := &cobra.Command{
		Use:   "update <url-id>",
		Short: "Update a monitored URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			m, err := f.monitor()
			if err != nil {
				return err
			}
			if _, err := d.query.UpdateURL(cmd.Context(), args[0], m); err != nil {
				return err
			}
			d.confirm(cmd, "URL %s updated", args[0])
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newCmdURLDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <url-id>",
		Short: "Stop monitoring a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			if err := d.query.DeleteURL(cmd.Context(), args[0]); err != nil {
				return err
			}
			d.confirm(cmd, "URL %s deleted", args[0])
			return nil
		},
	}
}
