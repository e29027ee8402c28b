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
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// Data entry keys written to accounts. The amaruid prefix namespaces the
// identity entries; action entries are keyed by the local action id.
const (
	DataKeyName      = "amaruid:name"
	DataKeyCommunity = "amaruid:community"
	DataKeyRole      = "amaruid:role"
	DataKeyCreated   = "amaruid:created"
	DataKeyType      = "amaruid:type"
)

// Data entry values are capped at 64 bytes by the protocol
const maxDataValueLen = 64

// submit builds, signs and submits a transaction from the given source
// seed and operations, normalizing the outcome to a Result
func (c *Client) submit(
	secretSeed string,
	operations []txnbuild.Operation,
) (*Result, error) {
	pair, err := keypair.ParseFull(secretSeed)
	if err != nil {
		return nil, fmt.Errorf("invalid secret seed: %w", err)
	}
	sourceAccount, err := c.horizon.AccountDetail(
		horizonclient.AccountRequest{AccountID: pair.Address()},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load source account: %w", err)
	}
	tx, err := txnbuild.NewTransaction(
		c.transactionParams(&sourceAccount, operations),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	tx, err = tx.Sign(c.networkPassphrase(), pair)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	resp, err := c.horizon.SubmitTransaction(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to submit transaction: %w", err)
	}
	return &Result{Hash: resp.Hash, Ledger: resp.Ledger}, nil
}

// SetIdentity writes arbitrary identity data entries onto the account
// owned by the given seed. Entries are written in sorted key order so the
// resulting transaction is deterministic for a given input.
func (c *Client) SetIdentity(
	ctx context.Context,
	secretSeed string,
	entries map[string]string,
) (*Result, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no identity entries to write")
	}
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	operations := make([]txnbuild.Operation, 0, len(entries))
	for _, key := range keys {
		operations = append(operations, &txnbuild.ManageData{
			Name:  key,
			Value: []byte(truncateValue(entries[key])),
		})
	}
	return c.submit(secretSeed, operations)
}

// MemberIdentityEntries builds the standard identity data entries written
// to a new leader or member account
func MemberIdentityEntries(
	name string,
	communityPublicKey string,
	role string,
) map[string]string {
	return map[string]string{
		DataKeyName:      name,
		DataKeyCommunity: communityPublicKey,
		DataKeyRole:      role,
		DataKeyCreated:   time.Now().UTC().Format(time.RFC3339),
	}
}

// RecordAction anchors a conservation action on the member's account as a
// set of data entries keyed by the action id
func (c *Client) RecordAction(
	ctx context.Context,
	secretSeed string,
	actionId string,
	category string,
	description string,
) (*Result, error) {
	operations := []txnbuild.Operation{
		&txnbuild.ManageData{
			Name:  fmt.Sprintf("action:%s:cat", actionId),
			Value: []byte(truncateValue(category)),
		},
		&txnbuild.ManageData{
			Name:  fmt.Sprintf("action:%s:desc", actionId),
			Value: []byte(truncateValue(description)),
		},
		&txnbuild.ManageData{
			Name:  fmt.Sprintf("action:%s:time", actionId),
			Value: []byte(time.Now().UTC().Format(time.RFC3339)),
		},
	}
	return c.submit(secretSeed, operations)
}

func truncateValue(value string) string {
	if len(value) > maxDataValueLen {
		return value[:maxDataValueLen]
	}
	return value
}
