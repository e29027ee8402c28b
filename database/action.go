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
	"gorm.io/gorm"
)

// ErrActionFinalized is returned when attempting to transition an action
// that has already reached a terminal status
var ErrActionFinalized = errors.New("action already verified or rejected")

// AddAction stores a new conservation action
func (d *Database) AddAction(action *models.ConservationAction) error {
	if !action.Category.Valid() {
		return fmt.Errorf("invalid action category: %s", action.Category)
	}
	result := d.db.Create(action)
	return result.Error
}

// GetAction returns a single conservation action by identifier
func (d *Database) GetAction(id string) (*models.ConservationAction, error) {
	var action models.ConservationAction
	result := d.db.First(&action, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrActionNotFound
		}
		return nil, result.Error
	}
	return &action, nil
}

// ActionsByMember returns all actions reported by a member, newest first
func (d *Database) ActionsByMember(
	memberId string,
) ([]models.ConservationAction, error) {
	var actions []models.ConservationAction
	result := d.db.
		Where("member_id = ?", memberId).
		Order("created_at DESC").
		Find(&actions)
	if result.Error != nil {
		return nil, result.Error
	}
	return actions, nil
}

// ActionsByStatus returns all actions with the given status in creation order
func (d *Database) ActionsByStatus(
	status models.ActionStatus,
) ([]models.ConservationAction, error) {
	var actions []models.ConservationAction
	result := d.db.
		Where("status = ?", status).
		Order("created_at").
		Find(&actions)
	if result.Error != nil {
		return nil, result.Error
	}
	return actions, nil
}

// SetActionStatus transitions an action from pending to verified or
// rejected, recording the verifier identity and timestamp. Transitions out
// of a terminal status are rejected with ErrActionFinalized.
func (d *Database) SetActionStatus(
	id string,
	status models.ActionStatus,
	verifiedBy string,
) error {
	if !status.Terminal() {
		return fmt.Errorf("invalid action status transition target: %s", status)
	}
	action, err := d.GetAction(id)
	if err != nil {
		return err
	}
	if action.Status.Terminal() {
		return ErrActionFinalized
	}
	now := time.Now()
	result := d.db.Model(&models.ConservationAction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"verified_by": verifiedBy,
			"verified_at": now,
		})
	return result.Error
}

// SetActionSynced records the remote transaction reference for an action.
// This is the only mutation allowed after an action reaches a terminal
// status.
func (d *Database) SetActionSynced(id string, txHash string) error {
	now := time.Now()
	result := d.db.Model(&models.ConservationAction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"tx_hash":   txHash,
			"synced_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrActionNotFound
	}
	return nil
}

// CountVerifiedActions returns the number of verified actions for a member
func (d *Database) CountVerifiedActions(memberId string) (int64, error) {
	var count int64
	result := d.db.Model(&models.ConservationAction{}).
		Where("member_id = ? AND status = ?", memberId, models.ActionVerified).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
