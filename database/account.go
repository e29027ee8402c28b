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
	"time"

	"github.com/amaruid/amaru/database/models"
	"gorm.io/gorm"
)

// SaveCommunity inserts or updates a community record
func (d *Database) SaveCommunity(community *models.Community) error {
	result := d.db.Save(community)
	return result.Error
}

// GetCommunity returns a community by identifier
func (d *Database) GetCommunity(id string) (*models.Community, error) {
	var community models.Community
	result := d.db.First(&community, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrCommunityNotFound
		}
		return nil, result.Error
	}
	return &community, nil
}

// Communities returns all community records
func (d *Database) Communities() ([]models.Community, error) {
	var communities []models.Community
	result := d.db.Order("created_at").Find(&communities)
	if result.Error != nil {
		return nil, result.Error
	}
	return communities, nil
}

// SaveLeader inserts or updates a leader record
func (d *Database) SaveLeader(leader *models.Leader) error {
	result := d.db.Save(leader)
	return result.Error
}

// GetLeader returns a leader by identifier
func (d *Database) GetLeader(id string) (*models.Leader, error) {
	var leader models.Leader
	result := d.db.First(&leader, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrLeaderNotFound
		}
		return nil, result.Error
	}
	return &leader, nil
}

// LeadersByCommunity returns all leaders belonging to a community
func (d *Database) LeadersByCommunity(
	communityId string,
) ([]models.Leader, error) {
	var leaders []models.Leader
	result := d.db.
		Where("community_id = ?", communityId).
		Order("created_at").
		Find(&leaders)
	if result.Error != nil {
		return nil, result.Error
	}
	return leaders, nil
}

// SaveMember inserts or updates a member record
func (d *Database) SaveMember(member *models.Member) error {
	result := d.db.Save(member)
	return result.Error
}

// GetMember returns a member by identifier
func (d *Database) GetMember(id string) (*models.Member, error) {
	var member models.Member
	result := d.db.First(&member, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrMemberNotFound
		}
		return nil, result.Error
	}
	return &member, nil
}

// GetMemberByPublicKey returns a member by public key
func (d *Database) GetMemberByPublicKey(
	publicKey string,
) (*models.Member, error) {
	var member models.Member
	result := d.db.First(&member, "public_key = ?", publicKey)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrMemberNotFound
		}
		return nil, result.Error
	}
	return &member, nil
}

// MembersByCommunity returns all members belonging to a community
func (d *Database) MembersByCommunity(
	communityId string,
) ([]models.Member, error) {
	var members []models.Member
	result := d.db.
		Where("community_id = ?", communityId).
		Order("created_at").
		Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return members, nil
}

// SetMemberCertified flips a member's certification flag and records the
// certification timestamp
func (d *Database) SetMemberCertified(id string, at time.Time) error {
	result := d.db.Model(&models.Member{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"certified":    true,
			"certified_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrMemberNotFound
	}
	return nil
}
