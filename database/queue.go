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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amaruid/amaru/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueueRetryLimit is the retry ceiling for failed queue items. Items that
// have failed this many times are excluded from automatic retry and remain
// visible as failed until manual intervention or a full reset.
const QueueRetryLimit = 3

// QueueStats holds the queue backlog counts. These feed the connectivity
// indicator and metrics gauges; they are never used for control flow.
type QueueStats struct {
	Pending    int64
	Processing int64
	Failed     int64
}

// EnqueueOperation stores a new offline queue item with status pending and
// zero retries and returns its identifier. The payload is serialized as
// JSON. Connectivity is not a precondition; only a local storage failure
// can make this fail.
func (d *Database) EnqueueOperation(
	opType models.QueueOpType,
	payload any,
) (string, error) {
	if !opType.Valid() {
		return "", fmt.Errorf("invalid queue operation type: %s", opType)
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize queue payload: %w", err)
	}
	item := models.OfflineQueueItem{
		ID:        uuid.NewString(),
		Type:      opType,
		Payload:   payloadJson,
		Status:    models.QueuePending,
		Retries:   0,
		CreatedAt: time.Now(),
	}
	if result := d.db.Create(&item); result.Error != nil {
		return "", result.Error
	}
	d.logger.Debug(
		"enqueued offline operation",
		"component", "database",
		"id", item.ID,
		"type", string(opType),
	)
	return item.ID, nil
}

// PendingQueueItems returns all pending items in creation order
func (d *Database) PendingQueueItems() ([]models.OfflineQueueItem, error) {
	var items []models.OfflineQueueItem
	result := d.db.
		Where("status = ?", models.QueuePending).
		Order("created_at").
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// GetQueueItem returns a single queue item by identifier
func (d *Database) GetQueueItem(id string) (*models.OfflineQueueItem, error) {
	var item models.OfflineQueueItem
	result := d.db.First(&item, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrQueueItemNotFound
		}
		return nil, result.Error
	}
	return &item, nil
}

// MarkQueueItemProcessing transitions an item to processing and records the
// attempt timestamp. A missing item is reported as ErrQueueItemNotFound so
// the caller can treat it as already completed elsewhere.
func (d *Database) MarkQueueItemProcessing(id string) error {
	now := time.Now()
	result := d.db.Model(&models.OfflineQueueItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       models.QueueProcessing,
			"last_attempt": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrQueueItemNotFound
	}
	return nil
}

// MarkQueueItemFailed transitions an item to failed, increments its retry
// counter, and records the error and attempt timestamp. A missing item is
// silently ignored, since it may have been completed and cleared
// concurrently.
func (d *Database) MarkQueueItemFailed(id string, errorMessage string) error {
	var item models.OfflineQueueItem
	if result := d.db.First(&item, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		return result.Error
	}
	now := time.Now()
	result := d.db.Model(&models.OfflineQueueItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       models.QueueFailed,
			"retries":      item.Retries + 1,
			"last_error":   errorMessage,
			"last_attempt": now,
		})
	return result.Error
}

// MarkQueueItemCompleted deletes an item; the operation it represents is
// considered durably applied on the ledger.
func (d *Database) MarkQueueItemCompleted(id string) error {
	result := d.db.Delete(&models.OfflineQueueItem{}, "id = ?", id)
	return result.Error
}

// RetryFailedQueueItems resets every failed item below the retry ceiling
// back to pending and returns how many were reset. Items at the ceiling are
// left untouched.
func (d *Database) RetryFailedQueueItems() (int64, error) {
	result := d.db.Model(&models.OfflineQueueItem{}).
		Where("status = ? AND retries < ?", models.QueueFailed, QueueRetryLimit).
		Update("status", models.QueuePending)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// QueueStats returns the current backlog counts by status
func (d *Database) QueueStats() (QueueStats, error) {
	var stats QueueStats
	counts := []struct {
		status models.QueueStatus
		dest   *int64
	}{
		{models.QueuePending, &stats.Pending},
		{models.QueueProcessing, &stats.Processing},
		{models.QueueFailed, &stats.Failed},
	}
	for _, count := range counts {
		result := d.db.Model(&models.OfflineQueueItem{}).
			Where("status = ?", count.status).
			Count(count.dest)
		if result.Error != nil {
			return QueueStats{}, result.Error
		}
	}
	return stats, nil
}
