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

package amaru

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amaruid/amaru/database/models"
	"github.com/amaruid/amaru/ledger"
	"github.com/google/uuid"
)

// Default signature thresholds for a new community. Low operations need a
// single leader; medium and high need two.
const (
	DefaultThresholdLow  = 1
	DefaultThresholdMed  = 2
	DefaultThresholdHigh = 2
)

// CreateCommunity registers a new community: a fresh keypair, best-effort
// faucet funding, and a local record. The community's secret seed is held
// in the keystore, not the database. Identity data entries are written to
// the ledger immediately when online, otherwise queued.
func (c *Client) CreateCommunity(
	ctx context.Context,
	name string,
	description string,
) (*models.Community, error) {
	if name == "" {
		return nil, errors.New("community name is required")
	}
	pair, err := ledger.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	community := &models.Community{
		ID:            uuid.NewString(),
		PublicKey:     pair.PublicKey,
		Name:          name,
		Description:   description,
		ThresholdLow:  DefaultThresholdLow,
		ThresholdMed:  DefaultThresholdMed,
		ThresholdHigh: DefaultThresholdHigh,
		CreatedAt:     time.Now(),
	}
	if c.keyStore != nil {
		if err := c.keyStore.SaveSeed(
			communityKeyName(community.ID),
			fmt.Sprintf("community %s", name),
			pair.SecretSeed,
		); err != nil {
			return nil, fmt.Errorf("failed to store community seed: %w", err)
		}
	}
	community.Funded = c.fundIfOnline(ctx, pair.PublicKey)
	if err := c.db.SaveCommunity(community); err != nil {
		return nil, fmt.Errorf("failed to save community: %w", err)
	}
	entries := map[string]string{
		ledger.DataKeyName:    name,
		ledger.DataKeyType:    "community",
		ledger.DataKeyCreated: community.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := c.writeIdentityOrEnqueue(ctx, pair.SecretSeed, entries); err != nil {
		return nil, err
	}
	c.config.logger.Info(
		"community created",
		"component", "client",
		"community", community.ID,
		"public_key", ledger.TruncateKey(pair.PublicKey, 6),
	)
	return community, nil
}

// CreateLeader registers a new leader account for a community
func (c *Client) CreateLeader(
	ctx context.Context,
	communityId string,
	name string,
) (*models.Leader, error) {
	if name == "" {
		return nil, errors.New("leader name is required")
	}
	community, err := c.db.GetCommunity(communityId)
	if err != nil {
		return nil, err
	}
	pair, err := ledger.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	leader := &models.Leader{
		ID:          uuid.NewString(),
		PublicKey:   pair.PublicKey,
		SecretSeed:  pair.SecretSeed,
		Name:        name,
		CommunityID: community.ID,
		CreatedAt:   time.Now(),
	}
	leader.Funded = c.fundIfOnline(ctx, pair.PublicKey)
	if err := c.db.SaveLeader(leader); err != nil {
		return nil, fmt.Errorf("failed to save leader: %w", err)
	}
	entries := ledger.MemberIdentityEntries(
		name,
		community.PublicKey,
		string(models.RoleLeader),
	)
	if err := c.writeIdentityOrEnqueue(ctx, pair.SecretSeed, entries); err != nil {
		return nil, err
	}
	c.config.logger.Info(
		"leader created",
		"component", "client",
		"leader", leader.ID,
		"community", community.ID,
	)
	return leader, nil
}

// CreateMember registers a new member account for a community
func (c *Client) CreateMember(
	ctx context.Context,
	communityId string,
	name string,
) (*models.Member, error) {
	if name == "" {
		return nil, errors.New("member name is required")
	}
	community, err := c.db.GetCommunity(communityId)
	if err != nil {
		return nil, err
	}
	pair, err := ledger.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	member := &models.Member{
		ID:          uuid.NewString(),
		PublicKey:   pair.PublicKey,
		SecretSeed:  pair.SecretSeed,
		Name:        name,
		CommunityID: community.ID,
		CreatedAt:   time.Now(),
	}
	member.Funded = c.fundIfOnline(ctx, pair.PublicKey)
	if err := c.db.SaveMember(member); err != nil {
		return nil, fmt.Errorf("failed to save member: %w", err)
	}
	entries := ledger.MemberIdentityEntries(
		name,
		community.PublicKey,
		string(models.RoleMember),
	)
	if err := c.writeIdentityOrEnqueue(ctx, pair.SecretSeed, entries); err != nil {
		return nil, err
	}
	c.config.logger.Info(
		"member created",
		"component", "client",
		"member", member.ID,
		"community", community.ID,
	)
	return member, nil
}

// fundIfOnline asks the faucet to fund a new account when the network is
// reachable. Funding is best-effort; accounts created offline stay
// unfunded until a later explicit funding attempt.
func (c *Client) fundIfOnline(ctx context.Context, publicKey string) bool {
	if !c.online.Load() {
		return false
	}
	return c.gateway.FundAccount(ctx, publicKey)
}

// FundAccount retries faucet funding for an existing account and updates
// the local funded flag for whichever record owns the key
func (c *Client) FundAccount(ctx context.Context, publicKey string) (bool, error) {
	if !ledger.IsValidPublicKey(publicKey) {
		return false, errors.New("invalid public key")
	}
	funded := c.gateway.FundAccount(ctx, publicKey)
	if !funded {
		return false, nil
	}
	if member, err := c.db.GetMemberByPublicKey(publicKey); err == nil {
		member.Funded = true
		if err := c.db.SaveMember(member); err != nil {
			return true, err
		}
	}
	return true, nil
}

// writeIdentityOrEnqueue writes identity data entries to the ledger when
// online, falling back to the offline queue on failure or when offline
func (c *Client) writeIdentityOrEnqueue(
	ctx context.Context,
	secretSeed string,
	entries map[string]string,
) error {
	if c.online.Load() {
		_, err := c.gateway.SetIdentity(ctx, secretSeed, entries)
		if err == nil {
			return nil
		}
		c.config.logger.Warn(
			"identity write failed, queueing for later",
			"component", "client",
			"error", err,
		)
	}
	_, err := c.enqueue(
		models.QueueOpIdentity,
		identityPayload{SecretSeed: secretSeed, Entries: entries},
	)
	if err != nil {
		return fmt.Errorf("failed to queue identity write: %w", err)
	}
	return nil
}

func communityKeyName(communityId string) string {
	return "community-" + communityId
}

// communitySeed loads a community's secret seed from the keystore
func (c *Client) communitySeed(communityId string) (string, error) {
	if c.keyStore == nil {
		return "", errors.New("keystore unavailable without a data directory")
	}
	return c.keyStore.LoadSeed(communityKeyName(communityId))
}

// enqueue marshals a payload and stores it on the offline queue
func (c *Client) enqueue(opType models.QueueOpType, payload any) (string, error) {
	id, err := c.db.EnqueueOperation(opType, payload)
	if err != nil {
		return "", err
	}
	c.updateQueueMetrics()
	return id, nil
}
