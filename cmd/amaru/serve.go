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
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amaruid/amaru"
	"github.com/amaruid/amaru/internal/config"
	"github.com/amaruid/amaru/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the sync agent until interrupted",
		Run: func(cmd *cobra.Command, args []string) {
			serveRun(cmd)
		},
	}
}

func serveRun(cmd *cobra.Command) {
	logger := commonRun()
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		slog.Error("no config found in context")
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	opts := []amaru.ConfigOptionFunc{
		amaru.WithLogger(logger),
		amaru.WithDataDir(cfg.DataDir),
		amaru.WithNetwork(ledger.Network(cfg.Network)),
		amaru.WithHorizonURL(cfg.HorizonURL),
		amaru.WithFriendbotURL(cfg.FriendbotURL),
		amaru.WithPrometheusRegistry(promRegistry),
	}
	client, err := amaru.New(amaru.NewConfig(opts...))
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	// Serve metrics if a port is configured
	if cfg.MetricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle(
			"/metrics",
			promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		)
		metricsServer := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info(
				"serving metrics",
				"component", programName,
				"address", metricsServer.Addr,
			)
			if err := metricsServer.ListenAndServe(); err != nil &&
				err != http.ErrServerClosed {
				slog.Error(err.Error())
			}
		}()
	}

	// Stop the client on SIGINT/SIGTERM
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		logger.Info(
			"signal received, shutting down",
			"component", programName,
			"signal", sig.String(),
		)
		if err := client.Stop(); err != nil {
			slog.Error(err.Error())
		}
	}()

	if err := client.Run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
