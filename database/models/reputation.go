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

	"github.com/amaruid/amaru/reputation"
)

var ErrScoreNotFound = errors.New("reputation score not found")

// ReputationScore is the derived MVRS snapshot for a member. At most one
// row exists per member; recomputation overwrites it in place.
type ReputationScore struct {
	MemberID        string `gorm:"primaryKey"`
	MemberPublicKey string `gorm:"index;size:56"`
	TotalScore      int    `gorm:"index"`
	VerifiedActions int
	Endorsements    int
	ActiveDays      int
	Breakdown       reputation.Breakdown `gorm:"embedded;embeddedPrefix:breakdown_"`
	LastCalculated  time.Time
}

func (ReputationScore) TableName() string {
	return "reputation_score"
}

// ReputationEvent is an append-only log entry. Events are never updated or
// deleted, and appending one does not recompute any score.
type ReputationEvent struct {
	ID          string               `gorm:"primaryKey"`
	MemberID    string               `gorm:"index"`
	Type        reputation.EventType `gorm:"index;size:32"`
	Points      int
	Description string
	TxHash      string
	CreatedAt   time.Time `gorm:"index"`
}

func (ReputationEvent) TableName() string {
	return "reputation_event"
}
