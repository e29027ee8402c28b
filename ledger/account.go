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
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/stellar/go/clients/horizonclient"
)

// Balance is a single asset balance on an account
type Balance struct {
	AssetType   string
	AssetCode   string
	AssetIssuer string
	Amount      string
}

// Signer is a signing key attached to an account with its weight
type Signer struct {
	Key    string
	Type   string
	Weight int32
}

// Thresholds are the three signature-weight thresholds of an account
type Thresholds struct {
	Low    int
	Medium int
	High   int
}

// AccountInfo is the account-state snapshot read from Horizon
type AccountInfo struct {
	ID         string
	Sequence   int64
	Balances   []Balance
	Signers    []Signer
	Thresholds Thresholds
	Data       map[string]string
}

// FundAccount asks the friendbot faucet to fund a newly created account
// with test currency. It is strictly best-effort: any failure, including
// network unavailability, is reported as false rather than an error.
func (c *Client) FundAccount(ctx context.Context, publicKey string) bool {
	reqURL := fmt.Sprintf(
		"%s?addr=%s",
		c.friendbotURL,
		url.QueryEscape(publicKey),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug(
			"friendbot request failed",
			"component", "ledger",
			"error", err,
		)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Debug(
			"friendbot returned error",
			"component", "ledger",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return false
	}
	return true
}

// AccountInfo loads the current state of an account from Horizon. Data
// entry values are base64-encoded on the wire and returned decoded.
func (c *Client) AccountInfo(
	ctx context.Context,
	publicKey string,
) (*AccountInfo, error) {
	account, err := c.horizon.AccountDetail(
		horizonclient.AccountRequest{AccountID: publicKey},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	info := &AccountInfo{
		ID:       account.AccountID,
		Sequence: account.Sequence,
		Thresholds: Thresholds{
			Low:    int(account.Thresholds.LowThreshold),
			Medium: int(account.Thresholds.MedThreshold),
			High:   int(account.Thresholds.HighThreshold),
		},
		Data: make(map[string]string, len(account.Data)),
	}
	for _, balance := range account.Balances {
		info.Balances = append(info.Balances, Balance{
			AssetType:   balance.Type,
			AssetCode:   balance.Code,
			AssetIssuer: balance.Issuer,
			Amount:      balance.Balance,
		})
	}
	for _, signer := range account.Signers {
		info.Signers = append(info.Signers, Signer{
			Key:    signer.Key,
			Type:   signer.Type,
			Weight: signer.Weight,
		})
	}
	for key, value := range account.Data {
		decoded, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			// Leave undecodable entries as-is
			info.Data[key] = value
			continue
		}
		info.Data[key] = string(decoded)
	}
	return info, nil
}

// AccountExists returns true if the account is present on the ledger
func (c *Client) AccountExists(
	ctx context.Context,
	publicKey string,
) (bool, error) {
	_, err := c.horizon.AccountDetail(
		horizonclient.AccountRequest{AccountID: publicKey},
	)
	if err != nil {
		if horizonErr := horizonclient.GetError(err); horizonErr != nil &&
			horizonErr.Problem.Status == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to load account: %w", err)
	}
	return true, nil
}
