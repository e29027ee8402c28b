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
	"fmt"
	"time"

	"github.com/amaruid/amaru/database/models"
	"github.com/amaruid/amaru/reputation"
	"github.com/google/uuid"
)

// RecordEndorsement appends an endorsement event to a member's
// reputation log
func (c *Client) RecordEndorsement(
	ctx context.Context,
	memberId string,
	description string,
) error {
	member, err := c.db.GetMember(memberId)
	if err != nil {
		return err
	}
	return c.db.AddReputationEvent(&models.ReputationEvent{
		ID:          uuid.NewString(),
		MemberID:    member.ID,
		Type:        reputation.EventEndorsementReceived,
		Points:      reputation.EventEndorsementReceived.Points(),
		Description: description,
		CreatedAt:   time.Now(),
	})
}

// RecordDailyActive appends a daily-active event for a member. At most
// one event is recorded per calendar day (local time); repeat calls on
// the same day are no-ops.
func (c *Client) RecordDailyActive(
	ctx context.Context,
	memberId string,
) error {
	member, err := c.db.GetMember(memberId)
	if err != nil {
		return err
	}
	now := time.Now()
	startOfDay := time.Date(
		now.Year(), now.Month(), now.Day(),
		0, 0, 0, 0,
		now.Location(),
	)
	count, err := c.db.CountReputationEventsSince(
		member.ID,
		reputation.EventDailyActive,
		startOfDay,
	)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return c.db.AddReputationEvent(&models.ReputationEvent{
		ID:        uuid.NewString(),
		MemberID:  member.ID,
		Type:      reputation.EventDailyActive,
		Points:    reputation.EventDailyActive.Points(),
		CreatedAt: now,
	})
}

// CalculateScore recomputes a member's reputation from the local record
// and stores the snapshot. Scores are pull-based: nothing recomputes them
// automatically, so a snapshot is only as fresh as the last call.
func (c *Client) CalculateScore(
	ctx context.Context,
	memberId string,
) (*models.ReputationScore, error) {
	member, err := c.db.GetMember(memberId)
	if err != nil {
		return nil, err
	}
	verifiedActions, err := c.db.CountVerifiedActions(member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count verified actions: %w", err)
	}
	endorsements, err := c.db.CountReputationEvents(
		member.ID,
		reputation.EventEndorsementReceived,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count endorsements: %w", err)
	}
	activeDays, err := c.db.CountReputationEvents(
		member.ID,
		reputation.EventDailyActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count active days: %w", err)
	}
	breakdown := reputation.Calculate(
		int(verifiedActions),
		int(endorsements),
		int(activeDays),
		member.Certified,
	)
	score := &models.ReputationScore{
		MemberID:        member.ID,
		MemberPublicKey: member.PublicKey,
		TotalScore:      breakdown.Total(),
		VerifiedActions: int(verifiedActions),
		Endorsements:    int(endorsements),
		ActiveDays:      int(activeDays),
		Breakdown:       breakdown,
		LastCalculated:  time.Now(),
	}
	if err := c.db.UpsertReputationScore(score); err != nil {
		return nil, fmt.Errorf("failed to store score: %w", err)
	}
	c.config.logger.Debug(
		"reputation recalculated",
		"component", "client",
		"member", member.ID,
		"total", score.TotalScore,
	)
	return score, nil
}
