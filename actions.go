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
	"github.com/amaruid/amaru/event"
	"github.com/amaruid/amaru/reputation"
	"github.com/google/uuid"
)

// SubmitActionParams describes a conservation action being reported
type SubmitActionParams struct {
	MemberID    string
	Category    models.ActionCategory
	Title       string
	Description string
	// Evidence is the raw evidence payload (photo, document). It is
	// stored locally and referenced by hash; only the hash ever reaches
	// the ledger.
	Evidence    []byte
	EvidenceURL string
	Latitude    *float64
	Longitude   *float64
}

// SubmitAction records a conservation action. The local record is written
// first so the action exists regardless of connectivity; ledger anchoring
// happens immediately when online or is queued otherwise.
func (c *Client) SubmitAction(
	ctx context.Context,
	params SubmitActionParams,
) (*models.ConservationAction, error) {
	if params.Title == "" {
		return nil, errors.New("action title is required")
	}
	if !params.Category.Valid() {
		return nil, fmt.Errorf("invalid action category: %s", params.Category)
	}
	member, err := c.db.GetMember(params.MemberID)
	if err != nil {
		return nil, err
	}
	action := &models.ConservationAction{
		ID:              uuid.NewString(),
		MemberID:        member.ID,
		MemberPublicKey: member.PublicKey,
		Category:        params.Category,
		Title:           params.Title,
		Description:     params.Description,
		EvidenceURL:     params.EvidenceURL,
		Latitude:        params.Latitude,
		Longitude:       params.Longitude,
		Status:          models.ActionPending,
		CreatedAt:       time.Now(),
	}
	if len(params.Evidence) > 0 {
		hash, err := c.db.PutEvidence(params.Evidence)
		if err != nil {
			return nil, fmt.Errorf("failed to store evidence: %w", err)
		}
		action.EvidenceHash = hash
	}
	if err := c.db.AddAction(action); err != nil {
		return nil, fmt.Errorf("failed to save action: %w", err)
	}
	if err := c.anchorActionOrEnqueue(ctx, action, member.SecretSeed); err != nil {
		return nil, err
	}
	c.config.logger.Info(
		"action submitted",
		"component", "client",
		"action", action.ID,
		"member", member.ID,
		"category", string(action.Category),
	)
	return action, nil
}

func (c *Client) anchorActionOrEnqueue(
	ctx context.Context,
	action *models.ConservationAction,
	secretSeed string,
) error {
	if c.online.Load() {
		result, err := c.gateway.RecordAction(
			ctx,
			secretSeed,
			action.ID,
			string(action.Category),
			action.Description,
		)
		if err == nil {
			if err := c.db.SetActionSynced(action.ID, result.Hash); err != nil {
				return fmt.Errorf("failed to record anchor: %w", err)
			}
			action.TxHash = result.Hash
			return nil
		}
		c.config.logger.Warn(
			"action anchoring failed, queueing for later",
			"component", "client",
			"action", action.ID,
			"error", err,
		)
	}
	_, err := c.enqueue(models.QueueOpAction, actionPayload{
		ActionID:    action.ID,
		SecretSeed:  secretSeed,
		Category:    string(action.Category),
		Description: action.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to queue action anchor: %w", err)
	}
	return nil
}

// VerifyAction marks a pending action as verified by a leader. The
// verification appends an action_verified reputation event for the
// member; the score snapshot is only updated on the next recomputation.
func (c *Client) VerifyAction(
	ctx context.Context,
	actionId string,
	leaderId string,
) error {
	leader, err := c.db.GetLeader(leaderId)
	if err != nil {
		return err
	}
	action, err := c.db.GetAction(actionId)
	if err != nil {
		return err
	}
	if err := c.db.SetActionStatus(
		actionId,
		models.ActionVerified,
		leader.ID,
	); err != nil {
		return err
	}
	if err := c.db.AddReputationEvent(&models.ReputationEvent{
		ID:          uuid.NewString(),
		MemberID:    action.MemberID,
		Type:        reputation.EventActionVerified,
		Points:      reputation.EventActionVerified.Points(),
		Description: action.Title,
		TxHash:      action.TxHash,
		CreatedAt:   time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to record reputation event: %w", err)
	}
	c.eventBus.Publish(
		event.ActionVerifiedEventType,
		event.NewEvent(
			event.ActionVerifiedEventType,
			event.ActionVerifiedEvent{
				ActionId: action.ID,
				MemberId: action.MemberID,
			},
		),
	)
	c.config.logger.Info(
		"action verified",
		"component", "client",
		"action", action.ID,
		"leader", leader.ID,
	)
	return nil
}

// RejectAction marks a pending action as rejected by a leader. No
// reputation event is recorded.
func (c *Client) RejectAction(
	ctx context.Context,
	actionId string,
	leaderId string,
) error {
	leader, err := c.db.GetLeader(leaderId)
	if err != nil {
		return err
	}
	if err := c.db.SetActionStatus(
		actionId,
		models.ActionRejected,
		leader.ID,
	); err != nil {
		return err
	}
	c.config.logger.Info(
		"action rejected",
		"component", "client",
		"action", actionId,
		"leader", leader.ID,
	)
	return nil
}
