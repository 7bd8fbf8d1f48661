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
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/caas-team/uptimectl/internal/logger"
	"github.com/caas-team/uptimectl/pkg/console"
	"github.com/caas-team/uptimectl/pkg/health"
	"github.com/caas-team/uptimectl/pkg/query"
	"github.com/caas-team/uptimectl/pkg/timezone"
)

// NewCmdHealth creates the health command
func NewCmdHealth() *cobra.Command {
	var (
		date  string
		at    int64
		live  bool
		watch time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health <url-id>",
		Short: "Show the aggregated health of a monitored URL",
		Long: `Show the counters, the outcome tally and the check results of a monitored URL.
By default the results of the current day are shown. With --watch the health
is polled until the command is interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			log := logger.FromContext(ctx)
			id := args[0]

			for {
				from, err := dayStart(d.calc, date, at, cmd.Flags().Changed("at"))
				if err != nil {
					return err
				}
				b, err := d.query.URLHealth(ctx, id, from, live)
				if err != nil {
					return err
				}
				if err := printHealth(d, console.HealthInfo{ID: id, Date: from, Live: live, Health: b, Tally: b.Tally()}); err != nil {
					return err
				}

				if watch <= 0 {
					return nil
				}
				if err := sleep(ctx, watch); err != nil {
					if errors.Is(err, context.Canceled) {
						log.Debug("Stopped watching health", "id", id)
						return nil
					}
					return err
				}
				d.query.Invalidate(ctx, query.URLHealthKey(id, from, live))
			}
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "civil date to report, e.g. 2024-12-21")
	cmd.Flags().Int64Var(&at, "at", 0, "report the civil day containing this unix timestamp")
	cmd.Flags().BoolVar(&live, "live", false, "report the live health instead of the stored results")
	cmd.Flags().DurationVar(&watch, "watch", 0, "poll the health at this interval until interrupted")
	cmd.MarkFlagsMutuallyExclusive("date", "at")

	return cmd
}

// dayStart returns the start of the requested civil day, today by default
func dayStart(calc *timezone.Calculator, date string, at int64, atSet bool) (int64, error) {
	switch {
	case date != "":
		unix, err := calc.CivilDateToUnix(date)
		if err != nil {
			return 0, fmt.Errorf("invalid --date: %w", err)
		}
		return calc.DayRangeAt(unix).StartOfDay, nil
	case atSet:
		return calc.DayRangeAt(at).StartOfDay, nil
	default:
		return calc.Today().StartOfDay, nil
	}
}

func printHealth(d *deps, info console.HealthInfo) error {
	return d.out.print(info, func(w io.Writer) {
		b := info.Health
		row(w, "URL", info.ID)
		if info.Live {
			row(w, "PERIOD", "live")
		} else {
			row(w, "PERIOD", "since "+d.calc.Format(info.Date))
		}
		if b.IsEmpty() {
			row(w, "STATUS", "no data for this period")
			return
		}
		row(w, "CRON RUNS", b.Cronruns())
		row(w, "RETRIES", b.Retries())
		row(w, "TIMEOUTS", b.Timeouts())
		row(w, "SUCCESS", info.Tally.Success)
		row(w, "TIMED OUT", info.Tally.Timeout)
		row(w, "FAILED", info.Tally.Failure)
		row(w, "AVG RESPONSE", fmt.Sprintf("%dms", info.Tally.AverageResponseTime))
		if len(b.LatestResponse) == 0 {
			return
		}
		fmt.Fprintln(w)
		row(w, "TIME", "RESULT", "STATUS", "RESPONSE", "SIZE", "METHOD")
		for _, r := range b.LatestResponse {
			row(w, d.calc.Format(r.Time().Unix()), outcome(r), r.StatusCode,
				fmt.Sprintf("%dms", r.ResponseTime), r.ResponseSize, r.RequestMethod)
		}
	})
}

func outcome(r health.Record) string {
	switch {
	case bool(r.Success):
		return "success"
	case bool(r.Timeout):
		return "timeout"
	default:
		return "failure"
	}
}
