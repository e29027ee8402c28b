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

package amaru

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/amaruid/amaru/ledger"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultSyncInterval         = 30 * time.Second
	defaultConnectivityInterval = 15 * time.Second
	defaultShutdownTimeout      = 30 * time.Second
)

// ConnectivityProbe reports whether the network is currently reachable
type ConnectivityProbe func(ctx context.Context) bool

type Config struct {
	promRegistry         prometheus.Registerer
	logger               *slog.Logger
	gateway              ledger.Gateway
	probe                ConnectivityProbe
	dataDir              string
	network              ledger.Network
	horizonURL           string
	friendbotURL         string
	syncInterval         time.Duration
	connectivityInterval time.Duration
	shutdownTimeout      time.Duration
}

type ConfigOptionFunc func(*Config)

// NewConfig creates a new client config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger:               slog.New(slog.NewJSONHandler(io.Discard, nil)),
		network:              ledger.NetworkTestnet,
		syncInterval:         defaultSyncInterval,
		connectivityInterval: defaultConnectivityInterval,
		shutdownTimeout:      defaultShutdownTimeout,
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithDataDir specifies the persistent data directory to use. The default is to store everything in memory
func WithDataDir(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithNetwork specifies the Stellar network to operate against. The default is testnet
func WithNetwork(network ledger.Network) ConfigOptionFunc {
	return func(c *Config) {
		c.network = network
	}
}

// WithHorizonURL specifies the Horizon API endpoint to use
func WithHorizonURL(url string) ConfigOptionFunc {
	return func(c *Config) {
		c.horizonURL = url
	}
}

// WithFriendbotURL specifies the friendbot faucet endpoint used to fund
// new testnet accounts
func WithFriendbotURL(url string) ConfigOptionFunc {
	return func(c *Config) {
		c.friendbotURL = url
	}
}

// WithGateway specifies the ledger gateway to use, replacing the default
// Horizon-backed client
func WithGateway(gateway ledger.Gateway) ConfigOptionFunc {
	return func(c *Config) {
		c.gateway = gateway
	}
}

// WithConnectivityProbe specifies the probe used to detect connectivity
// transitions. The default probes the Horizon endpoint.
func WithConnectivityProbe(probe ConnectivityProbe) ConfigOptionFunc {
	return func(c *Config) {
		c.probe = probe
	}
}

// WithPrometheusRegistry specifies a Prometheus registry for metrics
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithSyncInterval specifies how often the offline queue is drained while
// the network is reachable
func WithSyncInterval(interval time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.syncInterval = interval
	}
}

// WithConnectivityInterval specifies how often connectivity is probed
func WithConnectivityInterval(interval time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.connectivityInterval = interval
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
