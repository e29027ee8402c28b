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

// Package ledger is the gateway to the Stellar network. Transaction
// construction and signing are delegated to the Stellar SDK; this package
// only decides which operations go into each transaction and normalizes
// every remote write to a uniform all-or-nothing result.
package ledger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
)

// Network selects the Stellar network to operate against
type Network string

const (
	NetworkTestnet Network = "testnet"
	NetworkPublic  Network = "public"
)

// Valid returns true if the network is one of the known values
func (n Network) Valid() bool {
	switch n {
	case NetworkTestnet, NetworkPublic:
		return true
	default:
		return false
	}
}

const (
	DefaultHorizonURL   = "https://horizon-testnet.stellar.org"
	DefaultFriendbotURL = "https://friendbot.stellar.org"

	// Transactions are built with a 30 second timebound; a submission that
	// has not made it into a ledger by then is considered to not have
	// happened
	transactionTimeout = 30

	// CertificateAssetCode is the asset code of the certification asset.
	// Holding a positive balance of it (from the community issuer)
	// signifies verified membership.
	CertificateAssetCode = "COMMCERT"
)

// Config holds the gateway configuration
type Config struct {
	Logger       *slog.Logger
	Network      Network
	HorizonURL   string
	FriendbotURL string
}

// Result is the uniform outcome of a successful remote write: the
// transaction hash and the ledger sequence it was recorded in. Failed
// writes return an error instead, with no partial-effect state to
// reconcile.
type Result struct {
	Hash   string
	Ledger int32
}

// Gateway is the remote-write surface consumed by the rest of the client.
// It exists so the offline queue drainer can be exercised against a fake
// ledger in tests.
type Gateway interface {
	FundAccount(ctx context.Context, publicKey string) bool
	AccountInfo(ctx context.Context, publicKey string) (*AccountInfo, error)
	AccountExists(ctx context.Context, publicKey string) (bool, error)
	SetIdentity(
		ctx context.Context,
		secretSeed string,
		entries map[string]string,
	) (*Result, error)
	RecordAction(
		ctx context.Context,
		secretSeed string,
		actionId string,
		category string,
		description string,
	) (*Result, error)
	SetupMultisig(ctx context.Context, params MultisigParams) (*Result, error)
	CreateTrustline(
		ctx context.Context,
		receiverSeed string,
		assetCode string,
		issuerPublicKey string,
	) (*Result, error)
	IssueCertificate(
		ctx context.Context,
		issuerSeeds []string,
		memberPublicKey string,
		issuerPublicKey string,
	) (*Result, error)
	HasCertificate(
		ctx context.Context,
		memberPublicKey string,
		issuerPublicKey string,
	) (bool, error)
}

// Client is the Horizon-backed Gateway implementation
type Client struct {
	logger       *slog.Logger
	horizon      *horizonclient.Client
	httpClient   *http.Client
	network      Network
	friendbotURL string
}

// NewClient creates a ledger gateway from the given config, applying
// testnet defaults for any unset values
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	net := cfg.Network
	if net == "" {
		net = NetworkTestnet
	}
	horizonURL := cfg.HorizonURL
	if horizonURL == "" {
		horizonURL = DefaultHorizonURL
	}
	friendbotURL := cfg.FriendbotURL
	if friendbotURL == "" {
		friendbotURL = DefaultFriendbotURL
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &Client{
		logger: logger,
		horizon: &horizonclient.Client{
			HorizonURL: horizonURL,
			HTTP:       httpClient,
		},
		httpClient:   httpClient,
		network:      net,
		friendbotURL: friendbotURL,
	}
}

// HorizonURL returns the configured Horizon endpoint
func (c *Client) HorizonURL() string {
	return c.horizon.HorizonURL
}

func (c *Client) networkPassphrase() string {
	if c.network == NetworkPublic {
		return network.PublicNetworkPassphrase
	}
	return network.TestNetworkPassphrase
}

func (c *Client) transactionParams(
	sourceAccount txnbuild.Account,
	operations []txnbuild.Operation,
) txnbuild.TransactionParams {
	return txnbuild.TransactionParams{
		SourceAccount:        sourceAccount,
		IncrementSequenceNum: true,
		Operations:           operations,
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(transactionTimeout),
		},
	}
}

var _ Gateway = (*Client)(nil)
