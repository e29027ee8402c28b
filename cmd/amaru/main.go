// Copyright 2025 Amaru Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/amaruid/amaru"
	"github.com/amaruid/amaru/internal/config"
	"github.com/amaruid/amaru/internal/version"
	"github.com/amaruid/amaru/ledger"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const (
	programName = "amaru"
)

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...),
		"component", programName,
	)
}

var (
	globalFlags = struct {
		debug bool
	}{}
	configFile string
)

func commonRun() *slog.Logger {
	// Configure logger
	logLevel := slog.LevelInfo
	addSource := false
	if globalFlags.debug {
		logLevel = slog.LevelDebug
		addSource = true
	}
	logger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: addSource,
			Level:     logLevel,
		}),
	)
	slog.SetDefault(logger)
	// Configure max processes with our logger wrapper, toss undo func
	_, err := maxprocs.Set(maxprocs.Logger(slogPrintf))
	if err != nil {
		// If we hit this, something really wrong happened
		slog.Error(err.Error())
		os.Exit(1)
	}
	logger.Info(
		"version: "+version.GetVersionString(),
		"component", programName,
	)
	return logger
}

// newClient builds a Client from the loaded config. A one-shot command
// probes connectivity once so operations can sync immediately when the
// network is reachable.
func newClient(cmd *cobra.Command, logger *slog.Logger) (*amaru.Client, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, fmt.Errorf("no config found in context")
	}
	opts := []amaru.ConfigOptionFunc{
		amaru.WithLogger(logger),
		amaru.WithDataDir(cfg.DataDir),
		amaru.WithNetwork(ledger.Network(cfg.Network)),
		amaru.WithHorizonURL(cfg.HorizonURL),
		amaru.WithFriendbotURL(cfg.FriendbotURL),
	}
	for _, interval := range []struct {
		value string
		opt   func(time.Duration) amaru.ConfigOptionFunc
	}{
		{cfg.ShutdownTimeout, amaru.WithShutdownTimeout},
		{cfg.SyncInterval, amaru.WithSyncInterval},
		{cfg.ConnectivityInterval, amaru.WithConnectivityInterval},
	} {
		if interval.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(interval.value)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", interval.value, err)
		}
		opts = append(opts, interval.opt(parsed))
	}
	client, err := amaru.New(amaru.NewConfig(opts...))
	if err != nil {
		return nil, err
	}
	client.ProbeConnectivity(cmd.Context())
	return client, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Offline-tolerant community identity client for Stellar",
	}

	// Global flags
	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "path to config file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	}

	// Subcommands
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(communityCommand())
	rootCmd.AddCommand(fundCommand())
	rootCmd.AddCommand(leaderCommand())
	rootCmd.AddCommand(memberCommand())
	rootCmd.AddCommand(actionCommand())
	rootCmd.AddCommand(queueCommand())
	rootCmd.AddCommand(keysCommand())
	rootCmd.AddCommand(versionCommand())

	// Execute cobra command
	if err := rootCmd.Execute(); err != nil {
		// NOTE: we purposely don't display the error, since cobra will have already displayed it
		os.Exit(1)
	}
}
