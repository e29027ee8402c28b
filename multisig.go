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

	"github.com/amaruid/amaru/database/models"
	"github.com/amaruid/amaru/ledger"
)

// ConfigureMultisig converts a community account into a shared account
// governed by its leaders. Every registered leader becomes a signer with
// weight 1, the master key is disabled, and the community's stored
// thresholds take effect. After this the community can only act through
// leader co-signatures, so the community seed in the keystore becomes
// inert.
func (c *Client) ConfigureMultisig(
	ctx context.Context,
	communityId string,
) error {
	community, err := c.db.GetCommunity(communityId)
	if err != nil {
		return err
	}
	if len(community.Signers) > 0 {
		return errors.New("community multisig is already configured")
	}
	leaders, err := c.db.LeadersByCommunity(community.ID)
	if err != nil {
		return err
	}
	if len(leaders) == 0 {
		return errors.New("community has no leaders to act as signers")
	}
	leaderKeys := make([]string, 0, len(leaders))
	for _, leader := range leaders {
		leaderKeys = append(leaderKeys, leader.PublicKey)
	}
	seed, err := c.communitySeed(community.ID)
	if err != nil {
		return fmt.Errorf("failed to load community seed: %w", err)
	}
	params := ledger.MultisigParams{
		CommunitySecretSeed: seed,
		LeaderPublicKeys:    leaderKeys,
		ThresholdLow:        community.ThresholdLow,
		ThresholdMed:        community.ThresholdMed,
		ThresholdHigh:       community.ThresholdHigh,
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if c.online.Load() {
		result, err := c.gateway.SetupMultisig(ctx, params)
		if err == nil {
			if err := c.recordMultisigConfigured(community.ID, params); err != nil {
				return err
			}
			c.config.logger.Info(
				"multisig configured",
				"component", "client",
				"community", community.ID,
				"signers", len(leaderKeys),
				"tx_hash", result.Hash,
			)
			return nil
		}
		c.config.logger.Warn(
			"multisig setup failed, queueing for later",
			"component", "client",
			"community", community.ID,
			"error", err,
		)
	}
	if _, err := c.enqueue(models.QueueOpMultisig, multisigPayload{
		CommunityID: community.ID,
		Params:      params,
	}); err != nil {
		return fmt.Errorf("failed to queue multisig setup: %w", err)
	}
	return nil
}

// recordMultisigConfigured stores the signer set locally after a
// successful multisig transaction
func (c *Client) recordMultisigConfigured(
	communityId string,
	params ledger.MultisigParams,
) error {
	community, err := c.db.GetCommunity(communityId)
	if err != nil {
		return err
	}
	community.Signers = params.LeaderPublicKeys
	return c.db.SaveCommunity(community)
}
