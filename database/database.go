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

// Package database provides the versioned local store backing the client:
// account records, conservation actions, reputation events and scores, the
// offline operation queue, and an evidence blob store.
package database

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/amaruid/amaru/database/models"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds the database configuration
type Config struct {
	Logger  *slog.Logger
	DataDir string
}

// Database is the local persistent store. Record collections live in a
// sqlite database managed through gorm; evidence payloads live in a badger
// key-value store alongside it. An empty data directory selects in-memory
// storage for both, which is used by tests.
type Database struct {
	logger   *slog.Logger
	db       *gorm.DB
	evidence *badger.DB
	dataDir  string
}

// New creates a new database instance with optional persistence using the provided data directory
func New(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	var metadataDb *gorm.DB
	var err error
	if cfg.DataDir == "" {
		// Use in-memory database when no data directory is specified, useful for testing
		metadataDb, err = gorm.Open(
			sqlite.Open("file::memory:?cache=shared"),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(cfg.DataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(cfg.DataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		dbPath := filepath.Join(cfg.DataDir, "amaru.sqlite")
		// WAL journal mode so a crash between the local save and the remote
		// submission never corrupts the store
		connOpts := "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		metadataDb, err = gorm.Open(
			sqlite.Open(fmt.Sprintf("file:%s?%s", dbPath, connOpts)),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	}
	evidenceDb, err := openEvidenceStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open evidence store: %w", err)
	}
	db := &Database{
		logger:   logger,
		db:       metadataDb,
		evidence: evidenceDb,
		dataDir:  cfg.DataDir,
	}
	// Create table schemas
	for _, model := range models.MigrateModels {
		db.logger.Debug(fmt.Sprintf("creating table: %#v", model))
		if err := db.db.AutoMigrate(model); err != nil {
			return db, err
		}
	}
	return db, nil
}

// DB returns the underlying gorm handle
func (d *Database) DB() *gorm.DB {
	return d.db
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	if sqlDb, dbErr := d.db.DB(); dbErr != nil {
		err = errors.Join(err, dbErr)
	} else {
		err = errors.Join(err, sqlDb.Close())
	}
	err = errors.Join(err, d.evidence.Close())
	return err
}

// Reset deletes every record in every collection. This is the full local
// reset described by the account lifecycle; nothing else ever deletes
// account records.
func (d *Database) Reset() error {
	for _, model := range models.MigrateModels {
		if result := d.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model); result.Error != nil {
			return result.Error
		}
	}
	return d.evidence.DropAll()
}
