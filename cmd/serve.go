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
	"github.com/spf13/cobra"

	"github.com/caas-team/uptimectl/pkg/config"
	"github.com/caas-team/uptimectl/pkg/console"
)

// NewCmdServe creates the serve command
func NewCmdServe(version string) *cobra.Command {
	fm := config.NewFlagsNameMapping()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the health console over HTTP",
		Long: `Serve the aggregated health of the monitored URLs, the civil day helpers,
the OpenAPI document and the Prometheus metrics over HTTP until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			return console.New(d.cfg.Api, d.query, d.calc, version).Run(cmd.Context())
		},
	}

	NewFlag(fm.ApiAddress, "apiAddress").String().Bind(cmd, ":8080", "address the console listens on")

	return cmd
}
