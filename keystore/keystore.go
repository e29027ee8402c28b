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

// Package keystore manages Stellar secret seeds on disk. Seeds are stored
// as JSON envelope files with owner-only permissions and can be exported
// as SOPS-encrypted backups for off-device storage.
package keystore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Common errors returned by KeyStore operations
var (
	ErrKeyNotFound      = errors.New("key not found")
	ErrKeyExists        = errors.New("key already exists")
	ErrInvalidKeyName   = errors.New("invalid key name")
	ErrInsecureFileMode = errors.New("insecure file permissions")
)

const keyFileExtension = ".json"

// Key names become filenames, so they are restricted to a safe charset
var keyNameRegexp = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Config holds configuration for the KeyStore
type Config struct {
	// Dir is the directory key files are stored in. It is created with
	// owner-only permissions if it does not exist.
	Dir string
	// Logger for keystore events
	Logger *slog.Logger
}

// KeyInfo describes a stored key without exposing its seed
type KeyInfo struct {
	Name        string
	Type        string
	Description string
}

// KeyStore manages seed files in a single directory
type KeyStore struct {
	dir    string
	logger *slog.Logger
}

// New creates a KeyStore over the given directory
func New(cfg Config) (*KeyStore, error) {
	if cfg.Dir == "" {
		return nil, errors.New("keystore directory is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf(
			"failed to create keystore directory %q: %w",
			cfg.Dir,
			err,
		)
	}
	return &KeyStore{
		dir:    cfg.Dir,
		logger: logger.With("component", "keystore"),
	}, nil
}

// Dir returns the keystore directory
func (ks *KeyStore) Dir() string {
	return ks.dir
}

// SaveSeed stores a secret seed under the given name. It refuses to
// overwrite an existing key.
func (ks *KeyStore) SaveSeed(name, description, seed string) error {
	path, err := ks.keyPath(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key %q: %w", name, ErrKeyExists)
	}
	if err := writeKeyFile(path, description, seed); err != nil {
		return err
	}
	ks.logger.Info(
		"seed stored",
		"name", name,
	)
	return nil
}

// LoadSeed loads the secret seed stored under the given name.
// Returns ErrInsecureFileMode if the key file has group or other access.
func (ks *KeyStore) LoadSeed(name string) (string, error) {
	path, err := ks.keyPath(name)
	if err != nil {
		return "", err
	}
	env, err := loadKeyFromFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("key %q: %w", name, ErrKeyNotFound)
		}
		return "", err
	}
	return env.Seed, nil
}

// DeleteKey removes a stored key
func (ks *KeyStore) DeleteKey(name string) error {
	path, err := ks.keyPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("key %q: %w", name, ErrKeyNotFound)
		}
		return fmt.Errorf("failed to delete key %q: %w", name, err)
	}
	ks.logger.Info(
		"seed deleted",
		"name", name,
	)
	return nil
}

// ListKeys returns metadata for every stored key, sorted by name. Key
// files that cannot be parsed are skipped with a warning.
func (ks *KeyStore) ListKeys() ([]KeyInfo, error) {
	entries, err := os.ReadDir(ks.dir)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to read keystore directory %q: %w",
			ks.dir,
			err,
		)
	}
	var keys []KeyInfo
	for _, entry := range entries {
		if entry.IsDir() ||
			!strings.HasSuffix(entry.Name(), keyFileExtension) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), keyFileExtension)
		env, err := loadKeyFromFile(filepath.Join(ks.dir, entry.Name()))
		if err != nil {
			ks.logger.Warn(
				"skipping unreadable key file",
				"name", name,
				"error", err,
			)
			continue
		}
		keys = append(keys, KeyInfo{
			Name:        name,
			Type:        env.Type,
			Description: env.Description,
		})
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Name < keys[j].Name
	})
	return keys, nil
}

func (ks *KeyStore) keyPath(name string) (string, error) {
	if !keyNameRegexp.MatchString(name) {
		return "", fmt.Errorf("key name %q: %w", name, ErrInvalidKeyName)
	}
	return filepath.Join(ks.dir, name+keyFileExtension), nil
}
