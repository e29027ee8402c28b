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

package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/amaruid/amaru/database/models"
	"github.com/amaruid/amaru/reputation"
	"gorm.io/gorm"
)

// AddReputationEvent appends an event to the reputation log. Events are
// append-only; nothing here touches any score snapshot.
func (d *Database) AddReputationEvent(event *models.ReputationEvent) error {
	if !event.Type.Valid() {
		return fmt.Errorf("invalid reputation event type: %s", event.Type)
	}
	result := d.db.Create(event)
	return result.Error
}

// ReputationEvents returns a member's reputation events, newest first
func (d *Database) ReputationEvents(
	memberId string,
) ([]models.ReputationEvent, error) {
	var events []models.ReputationEvent
	result := d.db.
		Where("member_id = ?", memberId).
		Order("created_at DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}
	return events, nil
}

// CountReputationEvents returns the number of events of a given kind for a member
func (d *Database) CountReputationEvents(
	memberId string,
	eventType reputation.EventType,
) (int64, error) {
	var count int64
	result := d.db.Model(&models.ReputationEvent{}).
		Where("member_id = ? AND type = ?", memberId, eventType).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// CountReputationEventsSince returns the number of events of a given kind
// for a member created at or after the given time
func (d *Database) CountReputationEventsSince(
	memberId string,
	eventType reputation.EventType,
	since time.Time,
) (int64, error) {
	var count int64
	result := d.db.Model(&models.ReputationEvent{}).
		Where(
			"member_id = ? AND type = ? AND created_at >= ?",
			memberId,
			eventType,
			since,
		).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// UpsertReputationScore stores a recomputed score snapshot, replacing any
// existing snapshot for the member. The member identifier is the primary
// key, so at most one row exists per member.
func (d *Database) UpsertReputationScore(score *models.ReputationScore) error {
	result := d.db.Save(score)
	return result.Error
}

// GetReputationScore returns the current score snapshot for a member
func (d *Database) GetReputationScore(
	memberId string,
) (*models.ReputationScore, error) {
	var score models.ReputationScore
	result := d.db.First(&score, "member_id = ?", memberId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrScoreNotFound
		}
		return nil, result.Error
	}
	return &score, nil
}
