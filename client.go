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

// Package amaru is an offline-tolerant client for community identity on
// the Stellar network. Ledger writes that cannot be performed immediately
// are queued locally and drained when connectivity returns; reputation is
// derived from the local record and recomputed on demand.
package amaru

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/amaruid/amaru/database"
	"github.com/amaruid/amaru/event"
	"github.com/amaruid/amaru/keystore"
	"github.com/amaruid/amaru/ledger"
)

type Client struct {
	config        Config
	db            *database.Database
	eventBus      *event.EventBus
	gateway       ledger.Gateway
	keyStore      *keystore.KeyStore
	sessions      SessionStore
	metrics       *clientMetrics
	online        atomic.Bool
	drainMu       sync.Mutex
	shutdownFuncs []func(context.Context) error
	done          chan struct{}
	shutdownOnce  sync.Once
}

// New creates a Client from the given config. The local database and
// keystore are opened immediately; background work (connectivity probing
// and queue draining) does not begin until Run is called.
func New(cfg Config) (*Client, error) {
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	c := &Client{
		config:   cfg,
		eventBus: eventBus,
		done:     make(chan struct{}),
	}
	db, err := database.New(&database.Config{
		Logger:  cfg.logger,
		DataDir: cfg.dataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db
	if cfg.dataDir != "" {
		ks, err := keystore.New(keystore.Config{
			Dir:    filepath.Join(cfg.dataDir, "keys"),
			Logger: cfg.logger,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to open keystore: %w", err)
		}
		c.keyStore = ks
		c.sessions = NewFileSessionStore(
			filepath.Join(cfg.dataDir, "session.json"),
		)
	} else {
		c.sessions = NewMemorySessionStore()
	}
	if cfg.gateway != nil {
		c.gateway = cfg.gateway
	} else {
		c.gateway = ledger.NewClient(ledger.Config{
			Logger:       cfg.logger,
			Network:      cfg.network,
			HorizonURL:   cfg.horizonURL,
			FriendbotURL: cfg.friendbotURL,
		})
	}
	c.metrics = newClientMetrics(cfg.promRegistry)
	return c, nil
}

// Run starts the connectivity monitor and the offline queue drainer and
// blocks until Stop is called
func (c *Client) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	c.shutdownFuncs = append(
		c.shutdownFuncs,
		func(context.Context) error {
			cancel()
			return nil
		},
	)

	// Drain the queue whenever connectivity comes back
	subId := c.eventBus.SubscribeFunc(
		event.ConnectivityEventType,
		func(evt event.Event) {
			payload, ok := evt.Data.(event.ConnectivityEvent)
			if !ok || !payload.Online {
				return
			}
			c.drainQueue(ctx)
		},
	)
	c.shutdownFuncs = append(
		c.shutdownFuncs,
		func(context.Context) error {
			c.eventBus.Unsubscribe(event.ConnectivityEventType, subId)
			return nil
		},
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.runConnectivityMonitor(ctx)
	}()
	go func() {
		defer wg.Done()
		c.runSyncLoop(ctx)
	}()

	// Wait for shutdown signal
	<-c.done
	wg.Wait()
	return nil
}

// Stop shuts the client down gracefully. It is safe to call multiple
// times; only the first call has any effect.
func (c *Client) Stop() error {
	var err error
	c.shutdownOnce.Do(func() {
		err = c.shutdown()
	})
	return err
}

func (c *Client) shutdown() error {
	ctx, cancel := context.WithTimeout(
		context.Background(),
		c.config.shutdownTimeout,
	)
	defer cancel()

	var err error

	c.config.logger.Debug(
		"starting graceful shutdown",
		"component", "client",
	)

	close(c.done)

	// Stop background work before closing storage
	for _, fn := range c.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	c.shutdownFuncs = nil

	if c.eventBus != nil {
		c.eventBus.Stop()
	}

	if c.db != nil {
		if closeErr := c.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
	}

	c.config.logger.Debug(
		"graceful shutdown complete",
		"component", "client",
	)
	return err
}

// Database returns the local database
func (c *Client) Database() *database.Database {
	return c.db
}

// EventBus returns the client's event bus
func (c *Client) EventBus() *event.EventBus {
	return c.eventBus
}

// Gateway returns the ledger gateway
func (c *Client) Gateway() ledger.Gateway {
	return c.gateway
}

// KeyStore returns the on-disk keystore. It is nil when the client runs
// without a data directory.
func (c *Client) KeyStore() *keystore.KeyStore {
	return c.keyStore
}

// Sessions returns the session store
func (c *Client) Sessions() SessionStore {
	return c.sessions
}

// Online reports the last observed connectivity state
func (c *Client) Online() bool {
	return c.online.Load()
}
