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

package models

import (
	"errors"
	"time"
)

var ErrActionNotFound = errors.New("conservation action not found")

// ActionCategory enumerates the kinds of conservation activity a member can report
type ActionCategory string

const (
	CategoryReforestation        ActionCategory = "reforestation"
	CategoryWaterMonitoring      ActionCategory = "water_monitoring"
	CategoryWildlifeProtection   ActionCategory = "wildlife_protection"
	CategoryEducation            ActionCategory = "education"
	CategoryCulturalPreservation ActionCategory = "cultural_preservation"
	CategoryWasteManagement      ActionCategory = "waste_management"
)

// ActionCategories lists all valid categories in a stable order
var ActionCategories = []ActionCategory{
	CategoryReforestation,
	CategoryWaterMonitoring,
	CategoryWildlifeProtection,
	CategoryEducation,
	CategoryCulturalPreservation,
	CategoryWasteManagement,
}

// Valid returns true if the category is one of the six enumerated values
func (c ActionCategory) Valid() bool {
	switch c {
	case CategoryReforestation,
		CategoryWaterMonitoring,
		CategoryWildlifeProtection,
		CategoryEducation,
		CategoryCulturalPreservation,
		CategoryWasteManagement:
		return true
	default:
		return false
	}
}

// ActionStatus tracks the verification state of a reported action.
// The only allowed transitions are pending -> verified and
// pending -> rejected; both are terminal.
type ActionStatus string

const (
	ActionPending  ActionStatus = "pending"
	ActionVerified ActionStatus = "verified"
	ActionRejected ActionStatus = "rejected"
)

// Terminal returns true once the status can no longer change
func (s ActionStatus) Terminal() bool {
	return s == ActionVerified || s == ActionRejected
}

// ConservationAction is a conservation activity reported by a member.
// Once verified or rejected the record is immutable except for the remote
// sync reference (TxHash/SyncedAt), which may be filled in later when the
// offline queue drains.
type ConservationAction struct {
	ID              string         `gorm:"primaryKey"`
	MemberID        string         `gorm:"index"`
	MemberPublicKey string         `gorm:"index;size:56"`
	Category        ActionCategory `gorm:"index;size:32"`
	Title           string
	Description     string
	EvidenceHash    string
	EvidenceURL     string
	Latitude        *float64
	Longitude       *float64
	Status          ActionStatus `gorm:"index;size:16"`
	VerifiedBy      string
	VerifiedAt      *time.Time
	TxHash          string
	CreatedAt       time.Time `gorm:"index"`
	SyncedAt        *time.Time
}

func (ConservationAction) TableName() string {
	return "conservation_action"
}
