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

var ErrQueueItemNotFound = errors.New("offline queue item not found")

// QueueOpType identifies which remote write an offline queue item represents
type QueueOpType string

const (
	QueueOpIdentity      QueueOpType = "identity"
	QueueOpAction        QueueOpType = "action"
	QueueOpCertification QueueOpType = "certification"
	QueueOpMultisig      QueueOpType = "multisig"
)

// Valid returns true if the operation type is one of the known kinds
func (t QueueOpType) Valid() bool {
	switch t {
	case QueueOpIdentity, QueueOpAction, QueueOpCertification, QueueOpMultisig:
		return true
	default:
		return false
	}
}

// QueueStatus tracks an offline queue item through its lifecycle. Completed
// items are deleted rather than given a status of their own.
type QueueStatus string

const (
	QueuePending    QueueStatus = "pending"
	QueueProcessing QueueStatus = "processing"
	QueueFailed     QueueStatus = "failed"
)

// OfflineQueueItem is a remote write that could not be completed at the
// time it was requested. Items are retried until the retry ceiling is hit,
// after which they remain visible as failed until manual intervention.
type OfflineQueueItem struct {
	ID          string      `gorm:"primaryKey"`
	Type        QueueOpType `gorm:"index;size:16"`
	Payload     []byte
	Status      QueueStatus `gorm:"index;size:16"`
	Retries     int
	CreatedAt   time.Time `gorm:"index"`
	LastAttempt *time.Time
	LastError   string
}

func (OfflineQueueItem) TableName() string {
	return "offline_queue"
}
