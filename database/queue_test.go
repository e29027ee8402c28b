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
	"fmt"
	"testing"

	"github.com/amaruid/amaru/database"
	"github.com/amaruid/amaru/database/models"
)

func TestEnqueueThenCompleteLeavesNoTrace(t *testing.T) {
	db := newTestDatabase(t)
	id, err := db.EnqueueOperation(
		models.QueueOpAction,
		map[string]string{"actionId": "abc"},
	)
	if err != nil {
		t.Fatalf("unexpected error enqueueing: %s", err)
	}
	if err := db.MarkQueueItemCompleted(id); err != nil {
		t.Fatalf("unexpected error completing item: %s", err)
	}
	stats, err := db.QueueStats()
	if err != nil {
		t.Fatalf("unexpected error getting queue stats: %s", err)
	}
	if stats.Pending != 0 || stats.Processing != 0 || stats.Failed != 0 {
		t.Fatalf("expected empty queue, got %+v", stats)
	}
	if _, err := db.GetQueueItem(id); err != models.ErrQueueItemNotFound {
		t.Fatalf("expected ErrQueueItemNotFound, got %v", err)
	}
}

func TestEnqueueRejectsUnknownType(t *testing.T) {
	db := newTestDatabase(t)
	if _, err := db.EnqueueOperation(models.QueueOpType("bogus"), nil); err == nil {
		t.Fatalf("expected error for unknown queue operation type")
	}
}

func TestPendingQueueItemsCreationOrder(t *testing.T) {
	db := newTestDatabase(t)
	var ids []string
	for i := range 5 {
		id, err := db.EnqueueOperation(
			models.QueueOpIdentity,
			map[string]int{"seq": i},
		)
		if err != nil {
			t.Fatalf("unexpected error enqueueing: %s", err)
		}
		ids = append(ids, id)
	}
	items, err := db.PendingQueueItems()
	if err != nil {
		t.Fatalf("unexpected error listing pending items: %s", err)
	}
	if len(items) != len(ids) {
		t.Fatalf("expected %d pending items, got %d", len(ids), len(items))
	}
	for i, item := range items {
		if item.ID != ids[i] {
			t.Fatalf(
				"expected item %d to be %s, got %s",
				i,
				ids[i],
				item.ID,
			)
		}
	}
}

func TestMarkProcessingMissingItem(t *testing.T) {
	db := newTestDatabase(t)
	err := db.MarkQueueItemProcessing("no-such-item")
	if err != models.ErrQueueItemNotFound {
		t.Fatalf("expected ErrQueueItemNotFound, got %v", err)
	}
}

func TestMarkFailedMissingItemIsSilent(t *testing.T) {
	db := newTestDatabase(t)
	if err := db.MarkQueueItemFailed("no-such-item", "boom"); err != nil {
		t.Fatalf("expected missing item to be ignored, got %v", err)
	}
}

func TestMarkFailedIncrementsRetries(t *testing.T) {
	db := newTestDatabase(t)
	id, err := db.EnqueueOperation(models.QueueOpCertification, nil)
	if err != nil {
		t.Fatalf("unexpected error enqueueing: %s", err)
	}
	for i := range 2 {
		if err := db.MarkQueueItemFailed(id, fmt.Sprintf("attempt %d", i)); err != nil {
			t.Fatalf("unexpected error marking failed: %s", err)
		}
	}
	item, err := db.GetQueueItem(id)
	if err != nil {
		t.Fatalf("unexpected error getting item: %s", err)
	}
	if item.Retries != 2 {
		t.Fatalf("expected 2 retries, got %d", item.Retries)
	}
	if item.Status != models.QueueFailed {
		t.Fatalf("expected status failed, got %s", item.Status)
	}
	if item.LastError != "attempt 1" {
		t.Fatalf("expected last error %q, got %q", "attempt 1", item.LastError)
	}
	if item.LastAttempt == nil {
		t.Fatalf("expected last attempt timestamp to be set")
	}
}

func TestRetryFailedHonorsRetryCeiling(t *testing.T) {
	db := newTestDatabase(t)
	// One item below the ceiling, one at it
	belowId, err := db.EnqueueOperation(models.QueueOpAction, nil)
	if err != nil {
		t.Fatalf("unexpected error enqueueing: %s", err)
	}
	atCeilingId, err := db.EnqueueOperation(models.QueueOpMultisig, nil)
	if err != nil {
		t.Fatalf("unexpected error enqueueing: %s", err)
	}
	for range database.QueueRetryLimit - 1 {
		if err := db.MarkQueueItemFailed(belowId, "transient"); err != nil {
			t.Fatalf("unexpected error marking failed: %s", err)
		}
	}
	for range database.QueueRetryLimit {
		if err := db.MarkQueueItemFailed(atCeilingId, "persistent"); err != nil {
			t.Fatalf("unexpected error marking failed: %s", err)
		}
	}
	reset, err := db.RetryFailedQueueItems()
	if err != nil {
		t.Fatalf("unexpected error retrying failed items: %s", err)
	}
	if reset != 1 {
		t.Fatalf("expected exactly 1 item reset, got %d", reset)
	}
	below, err := db.GetQueueItem(belowId)
	if err != nil {
		t.Fatalf("unexpected error getting item: %s", err)
	}
	if below.Status != models.QueuePending {
		t.Fatalf("expected below-ceiling item to be pending, got %s", below.Status)
	}
	stuck, err := db.GetQueueItem(atCeilingId)
	if err != nil {
		t.Fatalf("unexpected error getting item: %s", err)
	}
	if stuck.Status != models.QueueFailed {
		t.Fatalf("expected at-ceiling item to stay failed, got %s", stuck.Status)
	}
	if stuck.Retries != database.QueueRetryLimit {
		t.Fatalf(
			"expected %d retries, got %d",
			database.QueueRetryLimit,
			stuck.Retries,
		)
	}
}

func TestQueueStats(t *testing.T) {
	db := newTestDatabase(t)
	if _, err := db.EnqueueOperation(models.QueueOpIdentity, nil); err != nil {
		t.Fatalf("unexpected error enqueueing: %s", err)
	}
	processingId, err := db.EnqueueOperation(models.QueueOpAction, nil)
	if err != nil {
		t.Fatalf("unexpected error enqueueing: %s", err)
	}
	if err := db.MarkQueueItemProcessing(processingId); err != nil {
		t.Fatalf("unexpected error marking processing: %s", err)
	}
	failedId, err := db.EnqueueOperation(models.QueueOpCertification, nil)
	if err != nil {
		t.Fatalf("unexpected error enqueueing: %s", err)
	}
	if err := db.MarkQueueItemFailed(failedId, "offline"); err != nil {
		t.Fatalf("unexpected error marking failed: %s", err)
	}
	stats, err := db.QueueStats()
	if err != nil {
		t.Fatalf("unexpected error getting queue stats: %s", err)
	}
	expected := database.QueueStats{Pending: 1, Processing: 1, Failed: 1}
	if stats != expected {
		t.Fatalf("expected stats %+v, got %+v", expected, stats)
	}
}
