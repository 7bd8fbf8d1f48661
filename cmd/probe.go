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
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caas-team/uptimectl/pkg/probe"
)

// NewCmdProbe creates the probe command
func NewCmdProbe() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <url-id>",
		Short: "Send the request of a monitored URL once",
		Long: `Send the request configured for a monitored URL and print the response.
Failed requests are reported in the output, the command itself only fails
if the monitor cannot be loaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			m, err := d.query.URL(ctx, args[0])
			if err != nil {
				return err
			}
			res := probe.Do(ctx, probe.ForMonitor(ctx, m))

			return d.out.print(res, func(w io.Writer) {
				row(w, "URL", m.URL)
				row(w, "SUCCESS", res.Success)
				if res.Status != 0 {
					row(w, "STATUS", res.Status)
				}
				if res.Message != "" {
					row(w, "MESSAGE", res.Message)
				}
				row(w, "ELAPSED", res.Elapsed)
				keys := make([]string, 0, len(res.Headers))
				for k := range res.Headers {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					row(w, k, strings.Join(res.Headers[k], ", "))
				}
				if res.Data != nil {
					fmt.Fprintln(w)
					fmt.Fprintln(w, formatData(res.Data))
				}
			})
		},
	}
}

func formatData(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
