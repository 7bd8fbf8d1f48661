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

// NewCmdUser creates the user command group
func NewCmdUser() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(
		newCmdUserList(),
		newCmdUserCreate(),
		newCmdUserUpdate(),
		newCmdUserDelete(),
	)
	return cmd
}

func newCmdUserList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			users, err := d.query.Users(cmd.Context())
			if err != nil {
				return err
			}
			return d.out.print(users, func(w io.Writer) {
				row(w, "ID", "NAME", "TITLE", "SLACK")
				for _, u := range users {
					row(w, u.ID, u.Name, u.Title, u.SlackUserID)
				}
			})
		},
	}
}

func userFlags(cmd *cobra.Command, u *backend.User) {
	cmd.Flags().StringVar(&u.Name, "name", "", "name of the user")
	cmd.Flags().StringVar(&u.SlackUserID, "slackUserId", "", "slack member id notified about incidents")
	cmd.Flags().StringVar(&u.Title, "title", "", "job title of the user")
}

func newCmdUserCreate() *cobra.Command {
	var u backend.User
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			created, err := d.query.CreateUser(cmd.Context(), u)
			if err != nil {
				return err
			}
			d.confirm(cmd, "User %q created", created.Name)
			return nil
		},
	}
	userFlags(cmd, &u)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCmdUserUpdate() *cobra.Command {
	var u backend.User
	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			if _, err := d.query.UpdateUser(cmd.Context(), args[0], u); err != nil {
				return err
			}
			d.confirm(cmd, "User %s updated", args[0])
			return nil
		},
	}
	userFlags(cmd, &u)
	return cmd
}

func newCmdUserDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			if err := d.query.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			d.confirm(cmd, "User %s deleted", args[0])
			return nil
		},
	}
}
