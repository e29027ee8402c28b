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

var (
	ErrCommunityNotFound = errors.New("community not found")
	ErrLeaderNotFound    = errors.New("leader not found")
	ErrMemberNotFound    = errors.New("member not found")
)

// AccountRole discriminates the three account variants
type AccountRole string

const (
	RoleCommunity AccountRole = "community"
	RoleLeader    AccountRole = "leader"
	RoleMember    AccountRole = "member"
)

// Valid returns true if the role is one of the known variants
func (r AccountRole) Valid() bool {
	switch r {
	case RoleCommunity, RoleLeader, RoleMember:
		return true
	default:
		return false
	}
}

// Community is the shared account collectively controlled by the leader set
// once multisig is configured. It never holds secret key material: after
// setup the master key weight is zero and only the leader signers matter.
type Community struct {
	ID            string `gorm:"primaryKey"`
	PublicKey     string `gorm:"uniqueIndex;size:56"`
	Name          string `gorm:"index"`
	Description   string
	Signers       []string `gorm:"serializer:json"`
	ThresholdLow  int
	ThresholdMed  int
	ThresholdHigh int
	Funded        bool
	CreatedAt     time.Time
}

func (Community) TableName() string {
	return "community"
}

// Role returns the role discriminant for the community variant
func (Community) Role() AccountRole {
	return RoleCommunity
}

// Leader is a community leader account. The secret seed is held client-side
// only and never leaves the local store except through an explicit key
// backup export.
type Leader struct {
	ID          string `gorm:"primaryKey"`
	PublicKey   string `gorm:"uniqueIndex;size:56"`
	SecretSeed  string
	Name        string
	CommunityID string `gorm:"index"`
	Funded      bool
	CreatedAt   time.Time
}

func (Leader) TableName() string {
	return "leader"
}

// Role returns the role discriminant for the leader variant
func (Leader) Role() AccountRole {
	return RoleLeader
}

// Member is a community member account. Certified is flipped exactly once,
// when a certification asset payment for the member succeeds on the ledger.
type Member struct {
	ID          string `gorm:"primaryKey"`
	PublicKey   string `gorm:"uniqueIndex;size:56"`
	SecretSeed  string
	Name        string
	CommunityID string `gorm:"index"`
	Certified   bool   `gorm:"index"`
	CertifiedAt *time.Time
	Funded      bool
	CreatedAt   time.Time
}

func (Member) TableName() string {
	return "member"
}

// Role returns the role discriminant for the member variant
func (Member) Role() AccountRole {
	return RoleMember
}
