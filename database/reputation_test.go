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

package database_test

import (
	"testing"
	"time"

	"github.com/amaruid/amaru/database/models"
	"github.com/amaruid/amaru/reputation"
	"github.com/google/uuid"
)

func TestReputationEventAppendAndCount(t *testing.T) {
	db := newTestDatabase(t)
	member := newTestMember(t, db)
	for range 2 {
		event := &models.ReputationEvent{
			ID:          uuid.NewString(),
			MemberID:    member.ID,
			Type:        reputation.EventEndorsementReceived,
			Points:      reputation.EventEndorsementReceived.Points(),
			Description: "Endorsed by a neighbor",
			CreatedAt:   time.Now(),
		}
		if err := db.AddReputationEvent(event); err != nil {
			t.Fatalf("unexpected error adding event: %s", err)
		}
	}
	count, err := db.CountReputationEvents(
		member.ID,
		reputation.EventEndorsementReceived,
	)
	if err != nil {
		t.Fatalf("unexpected error counting events: %s", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 endorsement events, got %d", count)
	}
	count, err = db.CountReputationEvents(member.ID, reputation.EventDailyActive)
	if err != nil {
		t.Fatalf("unexpected error counting events: %s", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 daily active events, got %d", count)
	}
}

func TestAddReputationEventRejectsUnknownType(t *testing.T) {
	db := newTestDatabase(t)
	event := &models.ReputationEvent{
		ID:       uuid.NewString(),
		MemberID: "m1",
		Type:     reputation.EventType("bogus"),
	}
	if err := db.AddReputationEvent(event); err == nil {
		t.Fatalf("expected error for unknown event type")
	}
}

func TestUpsertReputationScoreSingleRowPerMember(t *testing.T) {
	db := newTestDatabase(t)
	member := newTestMember(t, db)
	first := &models.ReputationScore{
		MemberID:        member.ID,
		MemberPublicKey: member.PublicKey,
		TotalScore:      10,
		VerifiedActions: 1,
		Breakdown:       reputation.Calculate(1, 0, 0, false),
		LastCalculated:  time.Now(),
	}
	if err := db.UpsertReputationScore(first); err != nil {
		t.Fatalf("unexpected error upserting score: %s", err)
	}
	second := &models.ReputationScore{
		MemberID:        member.ID,
		MemberPublicKey: member.PublicKey,
		TotalScore:      65,
		VerifiedActions: 3,
		Endorsements:    2,
		ActiveDays:      5,
		Breakdown:       reputation.Calculate(3, 2, 5, true),
		LastCalculated:  time.Now(),
	}
	if err := db.UpsertReputationScore(second); err != nil {
		t.Fatalf("unexpected error upserting score: %s", err)
	}
	got, err := db.GetReputationScore(member.ID)
	if err != nil {
		t.Fatalf("unexpected error getting score: %s", err)
	}
	if got.TotalScore != 65 {
		t.Fatalf("expected total 65, got %d", got.TotalScore)
	}
	if got.Breakdown.Total() != got.TotalScore {
		t.Fatalf(
			"breakdown total %d does not match stored total %d",
			got.Breakdown.Total(),
			got.TotalScore,
		)
	}
	var count int64
	result := db.DB().Model(&models.ReputationScore{}).
		Where("member_id = ?", member.ID).
		Count(&count)
	if result.Error != nil {
		t.Fatalf("unexpected error counting scores: %s", result.Error)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 score row, got %d", count)
	}
}
