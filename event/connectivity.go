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

package event

// ConnectivityEventType is the event type for connectivity transitions.
// A single type is used for both directions; the payload carries the new
// state.
const ConnectivityEventType = EventType("connectivity.changed")

// ConnectivityEvent is emitted by the connectivity monitor whenever the
// reachability of the Horizon endpoint changes
type ConnectivityEvent struct {
	Online bool
}

// QueueItemCompletedEventType is the event type for queue items that were
// durably applied on the ledger
const QueueItemCompletedEventType = EventType("queue.item.completed")

// QueueItemCompletedEvent is emitted when the drainer completes an offline
// queue item
type QueueItemCompletedEvent struct {
	ItemId string
	TxHash string
}

// QueueItemFailedEventType is the event type for queue items whose remote
// submission failed
const QueueItemFailedEventType = EventType("queue.item.failed")

// QueueItemFailedEvent is emitted when the drainer fails to complete an
// offline queue item
type QueueItemFailedEvent struct {
	ItemId  string
	Retries int
	Error   string
}

// ActionVerifiedEventType is the event type for conservation actions that
// a leader has verified
const ActionVerifiedEventType = EventType("action.verified")

// ActionVerifiedEvent is emitted after an action transitions to verified
type ActionVerifiedEvent struct {
	ActionId string
	MemberId string
}
