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

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// MultisigParams configures the conversion of a community account into a
// shared multi-signature account
type MultisigParams struct {
	CommunitySecretSeed string
	LeaderPublicKeys    []string
	ThresholdLow        int
	ThresholdMed        int
	ThresholdHigh       int
}

// Validate checks the params for internal consistency. Thresholds must be
// positive and reachable by the combined weight of the leader signers.
func (p MultisigParams) Validate() error {
	if !IsValidSecretSeed(p.CommunitySecretSeed) {
		return fmt.Errorf("invalid community secret seed")
	}
	if len(p.LeaderPublicKeys) == 0 {
		return fmt.Errorf("at least one leader signer is required")
	}
	for _, key := range p.LeaderPublicKeys {
		if !IsValidPublicKey(key) {
			return fmt.Errorf("invalid leader public key: %s", key)
		}
	}
	for _, threshold := range []int{
		p.ThresholdLow,
		p.ThresholdMed,
		p.ThresholdHigh,
	} {
		if threshold < 1 {
			return fmt.Errorf("thresholds must be at least 1")
		}
		// Each leader signer carries weight 1
		if threshold > len(p.LeaderPublicKeys) {
			return fmt.Errorf(
				"threshold %d exceeds combined signer weight %d",
				threshold,
				len(p.LeaderPublicKeys),
			)
		}
	}
	if p.ThresholdLow > p.ThresholdMed || p.ThresholdMed > p.ThresholdHigh {
		return fmt.Errorf("thresholds must be non-decreasing")
	}
	return nil
}

// SetupMultisig converts a community account into a shared account. Each
// leader is added as a signer with weight 1, the account's master key is
// disabled, and the operation thresholds are set. After this transaction
// the community account can only act through its leaders.
func (c *Client) SetupMultisig(
	ctx context.Context,
	params MultisigParams,
) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	operations := make([]txnbuild.Operation, 0, len(params.LeaderPublicKeys)+2)
	for _, leaderKey := range params.LeaderPublicKeys {
		operations = append(operations, &txnbuild.SetOptions{
			Signer: &txnbuild.Signer{
				Address: leaderKey,
				Weight:  txnbuild.Threshold(1),
			},
		})
	}
	// Master weight goes to zero in the same transaction that sets the
	// thresholds, so the account is never left locked without signers
	operations = append(operations, &txnbuild.SetOptions{
		MasterWeight: txnbuild.NewThreshold(0),
		LowThreshold: txnbuild.NewThreshold(
			txnbuild.Threshold(params.ThresholdLow),
		),
		MediumThreshold: txnbuild.NewThreshold(
			txnbuild.Threshold(params.ThresholdMed),
		),
		HighThreshold: txnbuild.NewThreshold(
			txnbuild.Threshold(params.ThresholdHigh),
		),
	})
	operations = append(operations, &txnbuild.ManageData{
		Name:  DataKeyType,
		Value: []byte("community"),
	})
	return c.submit(params.CommunitySecretSeed, operations)
}

// SignAndSubmit signs a base64-encoded transaction envelope with the given
// seeds and submits it. This is how leaders co-sign transactions sourced
// from a shared community account.
func (c *Client) SignAndSubmit(
	ctx context.Context,
	txXDR string,
	secretSeeds []string,
) (*Result, error) {
	generic, err := txnbuild.TransactionFromXDR(txXDR)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transaction: %w", err)
	}
	tx, ok := generic.Transaction()
	if !ok {
		return nil, fmt.Errorf("unsupported transaction envelope")
	}
	pairs := make([]*keypair.Full, 0, len(secretSeeds))
	for _, seed := range secretSeeds {
		pair, err := keypair.ParseFull(seed)
		if err != nil {
			return nil, fmt.Errorf("invalid secret seed: %w", err)
		}
		pairs = append(pairs, pair)
	}
	tx, err = tx.Sign(c.networkPassphrase(), pairs...)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	resp, err := c.horizon.SubmitTransaction(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to submit transaction: %w", err)
	}
	return &Result{Hash: resp.Hash, Ledger: resp.Ledger}, nil
}
