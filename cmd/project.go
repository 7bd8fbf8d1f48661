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
	"io"

	"github.com/spf13/cobra"

	"github.com/caas-team/uptimectl/pkg/backend"
)

// NewCmdProject creates the project command group
func NewCmdProject() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		newCmdProjectList(),
		newCmdProjectCreate(),
		newCmdProjectUpdate(),
		newCmdProjectDelete(),
	)
	return cmd
}

func newCmdProjectList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			projects, err := d.query.Projects(cmd.Context())
			if err != nil {
				return err
			}
			return d.out.print(projects, func(w io.Writer) {
				row(w, "ID", "NAME", "OWNER", "DESCRIPTION")
				for _, p := range projects {
					row(w, p.ID, p.Name, p.Owner, p.Description)
				}
			})
		},
	}
}

// projectFlags binds the flags describing a project
func projectFlags(cmd *cobra.Command, p *backend.Project) {
	cmd.Flags().StringVar(&p.Name, "name", "", "name of the project")
	cmd.Flags().StringVar(&p.Description, "description", "", "description of the project")
	cmd.Flags().StringVar(&p.Owner, "owner", "", "id of the user owning the project")
}

func newCmdProjectCreate() *cobra.Command {
	var p backend.Project
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			created, err := d.query.CreateProject(cmd.Context(), p)
			if err != nil {
				return err
			}
			d.confirm(cmd, "Project %q created", created.Name)
			return nil
		},
	}
	projectFlags(cmd, &p)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCmdProjectUpdate() *cobra.Command {
	var p backend.Project
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			if _, err := d.query.UpdateProject(cmd.Context(), args[0], p); err != nil {
				return err
			}
			d.confirm(cmd, "Project %s updated", args[0])
			return nil
		},
	}
	projectFlags(cmd, &p)
	return cmd
}

func newCmdProjectDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			if err := d.query.DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			d.confirm(cmd, "Project %s deleted", args[0])
			return nil
		},
	}
}
