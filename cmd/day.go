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

	"github.com/caas-team/uptimectl/pkg/console"
)

// NewCmdDay creates the day command
func NewCmdDay() *cobra.Command {
	var at int64

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show the boundaries of a civil day in the configured timezone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}

			day := d.calc.Today()
			if cmd.Flags().Changed("at") {
				day = d.calc.DayRangeAt(at)
			}
			info := console.DayInfo{
				StartOfDay:       day.StartOfDay,
				EndOfDay:         day.EndOfDay,
				SecondsRemaining: d.calc.SecondsRemainingToday(),
			}

			return d.out.print(info, func(w io.Writer) {
				row(w, "TIMEZONE", d.calc.Location())
				row(w, "START", info.StartOfDay, d.calc.Format(info.StartOfDay))
				row(w, "END", info.EndOfDay, d.calc.Format(info.EndOfDay))
				row(w, "REMAINING TODAY", info.SecondsRemaining)
			})
		},
	}

	cmd.Flags().Int64Var(&at, "at", 0, "unix timestamp within the day, 0 means now")
	return cmd
}
