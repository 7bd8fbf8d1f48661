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
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/caas-team/uptimectl/internal/httpclient"
	"github.com/caas-team/uptimectl/internal/logger"
	"github.com/caas-team/uptimectl/pkg/backend"
	"github.com/caas-team/uptimectl/pkg/config"
	"github.com/caas-team/uptimectl/pkg/query"
	"github.com/caas-team/uptimectl/pkg/timezone"
)

const envPrefix = "UPTIMECTL"

// NewCmdRoot creates a new root command
func NewCmdRoot(version string) *cobra.Command {
	var cfgFile string
	fm := config.NewFlagsNameMapping()
	defaults := config.NewConfig()

	rootCmd := &cobra.Command{
		Use:     "uptimectl",
		Short:   "Manage and inspect uptime monitors",
		Long:    "uptimectl manages the projects, monitored URLs and users of an uptime monitoring backend and reports their health",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			cmd.SetContext(logger.IntoContext(cmd.Context(), logger.NewLogger()))
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.uptimectl.yaml)")

	NewFlag(fm.ApiURL, "apiUrl").String().Bind(rootCmd, defaults.Backend.BaseURL, "The base url of the monitoring backend")
	NewFlag(fm.Token, "token").String().Bind(rootCmd, "", "The token sent in the Authorization header")
	NewFlag(fm.Timeout, "timeout").Duration().Bind(rootCmd, defaults.Backend.Timeout, "The timeout of backend requests")
	NewFlag(fm.RetryCount, "retryCount").Int().Bind(rootCmd, defaults.Backend.Retry.Count, "Amount of retries of failed reads")
	NewFlag(fm.RetryDelay, "retryDelay").Duration().Bind(rootCmd, defaults.Backend.Retry.Delay, "The initial delay between retries")
	NewFlag(fm.Timezone, "timezone").String().Bind(rootCmd, defaults.Timezone, "The IANA timezone dates are computed and rendered in")
	NewFlag(fm.CacheSize, "cacheSize").Int().Bind(rootCmd, defaults.Cache.Size, "Maximum number of cached backend reads")
	NewFlag(fm.CacheTTL, "cacheTtl").Duration().Bind(rootCmd, defaults.Cache.TTL, "Time a cached backend read stays valid")
	NewFlag(fm.Output, "output").StringP("o").Bind(rootCmd, defaults.Output, "Output format, one of table, json or yaml")

	return rootCmd
}

// Execute adds all child commands to the root command
// and executes the cmd tree
func Execute(version string) {
	cmd := NewCmdRoot(version)
	addCommands(cmd, version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1) //nolint:gocritic // stop is called explicitly
	}
}

func addCommands(root *cobra.Command, version string) {
	root.AddCommand(
		NewCmdProject(),
		NewCmdURL(),
		NewCmdUser(),
		NewCmdHealth(),
		NewCmdProbe(),
		NewCmdDay(),
		NewCmdServe(version),
		NewCmdGenDocs(root),
	)
}

// initConfig reads in the .env file, the config file and environment variables
func initConfig(cfgFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".uptimectl")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// deps bundles what the commands need to talk to the backend
type deps struct {
	cfg   *config.Config
	calc  *timezone.Calculator
	query *query.Client
	out   printer
}

// newDeps builds the configuration from viper and the clients on top of it
func newDeps(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()
	fm := config.NewFlagsNameMapping()

	cfg := config.NewConfig()
	cfg.SetApiURL(viper.GetString(fm.ApiURL))
	cfg.SetToken(viper.GetString(fm.Token))
	cfg.SetTimeout(viper.GetDuration(fm.Timeout))
	cfg.SetRetryCount(viper.GetInt(fm.RetryCount))
	cfg.SetRetryDelay(viper.GetDuration(fm.RetryDelay))
	cfg.SetTimezone(viper.GetString(fm.Timezone))
	cfg.SetCacheSize(viper.GetInt(fm.CacheSize))
	cfg.SetCacheTTL(viper.GetDuration(fm.CacheTTL))
	cfg.SetOutput(strings.ToLower(viper.GetString(fm.Output)))
	if addr := viper.GetString(fm.ApiAddress); addr != "" {
		cfg.SetApiAddress(addr)
	}

	if err := cfg.Validate(ctx, fm); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	calc, err := cfg.Calculator()
	if err != nil {
		return nil, err
	}

	// ad-hoc probes share the process wide transport
	cmd.SetContext(httpclient.IntoContext(ctx, &http.Client{Transport: http.DefaultTransport}))

	b := backend.New(cfg.Backend, nil)
	return &deps{
		cfg:   cfg,
		calc:  calc,
		query: query.New(b, query.NewStore(cfg.Cache)),
		out:   printer{w: cmd.OutOrStdout(), format: cfg.Output},
	}, nil
}

// confirm prints a confirmation of a mutation stamped with the current time
func (d *deps) confirm(cmd *cobra.Command, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(cmd.OutOrStdout(), "%s on %s\n", msg, d.calc.Format(d.calc.CurrentTimestamp()))
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
