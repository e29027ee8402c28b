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

package keystore

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/amaruid/amaru/ledger"
)

// keyFileType identifies the envelope format of a stored secret seed
const keyFileType = "StellarSecretSeed"

// keyFileEnvelope is the JSON structure of a stored key file
type keyFileEnvelope struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Seed        string `json:"seed"`
}

// loadKeyFromFile loads and parses a key file.
// Returns ErrInsecureFileMode if the file has group or other access.
//
// The file is opened first and permissions are checked on the open handle
// (via fstat on Unix) to avoid a TOCTOU race between the permission check
// and the read.
func loadKeyFromFile(path string) (*keyFileEnvelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file %q: %w", path, err)
	}
	defer f.Close()

	if err := checkOpenFilePermissions(f); err != nil {
		return nil, err
	}

	// Limit read to 1 MiB to guard against accidentally pointing at a
	// large file. Valid key files are well under this size.
	const maxKeyFileSize = 1 << 20
	data, err := io.ReadAll(io.LimitReader(f, maxKeyFileSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %q: %w", path, err)
	}
	env, err := parseKeyEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key file %q: %w", path, err)
	}
	return env, nil
}

// parseKeyEnvelope parses a key file envelope and validates its contents
func parseKeyEnvelope(fileBytes []byte) (*keyFileEnvelope, error) {
	var env keyFileEnvelope
	if err := json.Unmarshal(fileBytes, &env); err != nil {
		return nil, fmt.Errorf("could not parse key file envelope: %w", err)
	}
	if env.Type != keyFileType {
		return nil, fmt.Errorf("unknown key type: %s", env.Type)
	}
	if !ledger.IsValidSecretSeed(env.Seed) {
		return nil, fmt.Errorf("key file does not contain a valid seed")
	}
	return &env, nil
}

// writeKeyFile writes a key envelope with owner-only permissions
func writeKeyFile(path, description, seed string) error {
	if !ledger.IsValidSecretSeed(seed) {
		return fmt.Errorf("not a valid secret seed")
	}
	data, err := json.MarshalIndent(keyFileEnvelope{
		Type:        keyFileType,
		Description: description,
		Seed:        seed,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode key file: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write key file %q: %w", path, err)
	}
	return nil
}
