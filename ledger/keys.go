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

package ledger

import (
	"fmt"

	"github.com/stellar/go/keypair"
)

// Keypair holds a freshly generated Stellar keypair. The secret seed is
// only ever held client-side.
type Keypair struct {
	PublicKey  string
	SecretSeed string
}

// GenerateKeypair generates a fresh keypair. This is a purely local
// operation; the account does not exist on the ledger until it is funded.
func GenerateKeypair() (Keypair, error) {
	pair, err := keypair.Random()
	if err != nil {
		return Keypair{}, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return Keypair{
		PublicKey:  pair.Address(),
		SecretSeed: pair.Seed(),
	}, nil
}

// IsValidPublicKey returns true if the given string is a well-formed
// Stellar public key
func IsValidPublicKey(key string) bool {
	_, err := keypair.ParseAddress(key)
	return err == nil
}

// IsValidSecretSeed returns true if the given string is a well-formed
// Stellar secret seed
func IsValidSecretSeed(seed string) bool {
	_, err := keypair.ParseFull(seed)
	return err == nil
}

// PublicKeyFromSeed derives the public key for a secret seed
func PublicKeyFromSeed(seed string) (string, error) {
	pair, err := keypair.ParseFull(seed)
	if err != nil {
		return "", fmt.Errorf("invalid secret seed: %w", err)
	}
	return pair.Address(), nil
}

// TruncateKey shortens a key for display, keeping the given number of
// characters from each end
func TruncateKey(key string, chars int) string {
	if chars <= 0 || len(key) <= chars*2 {
		return key
	}
	return key[:chars] + "..." + key[len(key)-chars:]
}
