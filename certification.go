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
	"github.com/amaruid/amaru/reputation"
	"github.com/google/uuid"
)

// CertifyMember certifies a member's identity: the member opens a
// trustline to the community's certification asset and the community
// issues one unit of it, co-signed by the given leaders. When offline the
// whole flow is queued as a single operation.
func (c *Client) CertifyMember(
	ctx context.Context,
	memberId string,
	leaderIds []string,
) error {
	if len(leaderIds) == 0 {
		return errors.New("at least one certifying leader is required")
	}
	member, err := c.db.GetMember(memberId)
	if err != nil {
		return err
	}
	if member.Certified {
		return fmt.Errorf("member %s is already certified", member.ID)
	}
	community, err := c.db.GetCommunity(member.CommunityID)
	if err != nil {
		return err
	}
	issuerSeeds := make([]string, 0, len(leaderIds))
	for _, leaderId := range leaderIds {
		leader, err := c.db.GetLeader(leaderId)
		if err != nil {
			return err
		}
		if leader.CommunityID != community.ID {
			return fmt.Errorf(
				"leader %s does not belong to community %s",
				leader.ID,
				community.ID,
			)
		}
		issuerSeeds = append(issuerSeeds, leader.SecretSeed)
	}
	payload := certificationPayload{
		MemberID:        member.ID,
		MemberSeed:      member.SecretSeed,
		MemberPublicKey: member.PublicKey,
		IssuerPublicKey: community.PublicKey,
		IssuerSeeds:     issuerSeeds,
	}
	if c.online.Load() {
		result, err := c.processCertification(ctx, &payload)
		if err == nil {
			c.config.logger.Info(
				"member certified",
				"component", "client",
				"member", member.ID,
				"tx_hash", result.Hash,
			)
			return nil
		}
		c.config.logger.Warn(
			"certification failed, queueing for later",
			"component", "client",
			"member", member.ID,
			"error", err,
		)
	}
	if _, err := c.enqueue(models.QueueOpCertification, payload); err != nil {
		return fmt.Errorf("failed to queue certification: %w", err)
	}
	return nil
}

// recordMemberCertified applies the local effects of a successful
// certificate issuance
func (c *Client) recordMemberCertified(memberId, txHash string) error {
	if err := c.db.SetMemberCertified(memberId, time.Now()); err != nil {
		return err
	}
	return c.db.AddReputationEvent(&models.ReputationEvent{
		ID:        uuid.NewString(),
		MemberID:  memberId,
		Type:      reputation.EventCertification,
		Points:    reputation.EventCertification.Points(),
		TxHash:    txHash,
		CreatedAt: time.Now(),
	})
}

// CheckCertificate reports whether a member holds the community's
// certification asset. Online it asks the ledger, which is authoritative;
// offline it falls back to the local record.
func (c *Client) CheckCertificate(
	ctx context.Context,
	memberId string,
) (bool, error) {
	member, err := c.db.GetMember(memberId)
	if err != nil {
		return false, err
	}
	if !c.online.Load() {
		return member.Certified, nil
	}
	community, err := c.db.GetCommunity(member.CommunityID)
	if err != nil {
		return false, err
	}
	certified, err := c.gateway.HasCertificate(
		ctx,
		member.PublicKey,
		community.PublicKey,
	)
	if err != nil {
		// Fall back to the local record on transient lookup failure
		c.config.logger.Warn(
			"certificate lookup failed, using local record",
			"component", "client",
			"member", member.ID,
			"error", err,
		)
		return member.Certified, nil
	}
	return certified, nil
}
