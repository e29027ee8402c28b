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
	"time"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// CreateTrustline opens a trustline from the receiver account to the given
// asset. An account cannot hold a credit asset without one, so this must
// precede certificate issuance.
func (c *Client) CreateTrustline(
	ctx context.Context,
	receiverSeed string,
	assetCode string,
	issuerPublicKey string,
) (*Result, error) {
	operations := []txnbuild.Operation{
		&txnbuild.ChangeTrust{
			Line: txnbuild.ChangeTrustAssetWrapper{
				Asset: txnbuild.CreditAsset{
					Code:   assetCode,
					Issuer: issuerPublicKey,
				},
			},
		},
	}
	return c.submit(receiverSeed, operations)
}

// IssueCertificate sends one unit of the certification asset from the
// community issuer account to the member and records the issuance date as
// a data entry on the issuer. The issuer account is expected to be
// multisig, so the transaction is signed with all provided leader seeds.
func (c *Client) IssueCertificate(
	ctx context.Context,
	issuerSeeds []string,
	memberPublicKey string,
	issuerPublicKey string,
) (*Result, error) {
	if len(issuerSeeds) == 0 {
		return nil, fmt.Errorf("at least one issuer signer is required")
	}
	pairs := make([]*keypair.Full, 0, len(issuerSeeds))
	for _, seed := range issuerSeeds {
		pair, err := keypair.ParseFull(seed)
		if err != nil {
			return nil, fmt.Errorf("invalid issuer secret seed: %w", err)
		}
		pairs = append(pairs, pair)
	}
	sourceAccount, err := c.horizon.AccountDetail(
		horizonclient.AccountRequest{AccountID: issuerPublicKey},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load issuer account: %w", err)
	}
	operations := []txnbuild.Operation{
		&txnbuild.Payment{
			Destination: memberPublicKey,
			Amount:      "1",
			Asset: txnbuild.CreditAsset{
				Code:   CertificateAssetCode,
				Issuer: issuerPublicKey,
			},
		},
		&txnbuild.ManageData{
			Name: fmt.Sprintf("cert:%s:date", memberPublicKey[:8]),
			Value: []byte(
				time.Now().UTC().Format(time.RFC3339),
			),
		},
	}
	tx, err := txnbuild.NewTransaction(
		c.transactionParams(&sourceAccount, operations),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
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

// HasCertificate reports whether the member holds a positive balance of
// the certification asset issued by the given community account
func (c *Client) HasCertificate(
	ctx context.Context,
	memberPublicKey string,
	issuerPublicKey string,
) (bool, error) {
	info, err := c.AccountInfo(ctx, memberPublicKey)
	if err != nil {
		return false, err
	}
	for _, balance := range info.Balances {
		if balance.AssetCode != CertificateAssetCode {
			continue
		}
		if balance.AssetIssuer != issuerPublicKey {
			continue
		}
		if balance.Amount != "" && balance.Amount != "0.0000000" {
			return true, nil
		}
	}
	return false, nil
}
