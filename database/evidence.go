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

package database

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"
)

var ErrEvidenceNotFound = errors.New("evidence not found")

const evidenceKeyPrefix = "evidence:"

func openEvidenceStore(dataDir string) (*badger.DB, error) {
	var opts badger.Options
	if dataDir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(filepath.Join(dataDir, "evidence"))
	}
	// Badger's default logger writes straight to stderr
	opts = opts.WithLogger(nil)
	return badger.Open(opts)
}

// PutEvidence stores an evidence payload and returns its content hash,
// which callers record on the owning conservation action. Storing the same
// payload twice is a no-op that returns the same hash.
func (d *Database) PutEvidence(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	key := []byte(evidenceKeyPrefix + hash)
	err := d.evidence.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store evidence: %w", err)
	}
	return hash, nil
}

// GetEvidence returns the evidence payload for a content hash
func (d *Database) GetEvidence(hash string) ([]byte, error) {
	var data []byte
	err := d.evidence.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(evidenceKeyPrefix + hash))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrEvidenceNotFound
			}
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
