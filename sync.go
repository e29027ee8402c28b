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

package amaru

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/amaruid/amaru/database"
	"github.com/amaruid/amaru/database/models"
	"github.com/amaruid/amaru/event"
	"github.com/amaruid/amaru/ledger"
)

// Queue item payloads. Each pending remote write carries everything needed
// to perform it later, so draining does not depend on other local state.
type identityPayload struct {
	SecretSeed string            `json:"secretSeed"`
	Entries    map[string]string `json:"entries"`
}

type actionPayload struct {
	ActionID    string `json:"actionId"`
	SecretSeed  string `json:"secretSeed"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type certificationPayload struct {
	MemberID        string   `json:"memberId"`
	MemberSeed      string   `json:"memberSeed"`
	MemberPublicKey string   `json:"memberPublicKey"`
	IssuerPublicKey string   `json:"issuerPublicKey"`
	IssuerSeeds     []string `json:"issuerSeeds"`
}

type multisigPayload struct {
	CommunityID string                `json:"communityId"`
	Params      ledger.MultisigParams `json:"params"`
}

func (c *Client) runConnectivityMonitor(ctx context.Context) {
	probe := c.config.probe
	if probe == nil {
		probe = c.defaultProbe()
	}
	ticker := time.NewTicker(c.config.connectivityInterval)
	defer ticker.Stop()
	for {
		c.observeConnectivity(ctx, probe)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// defaultProbe checks reachability of the configured Horizon endpoint
func (c *Client) defaultProbe() ConnectivityProbe {
	horizonURL := c.config.horizonURL
	if horizonURL == "" {
		horizonURL = ledger.DefaultHorizonURL
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	return func(ctx context.Context) bool {
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			horizonURL,
			nil,
		)
		if err != nil {
			return false
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode < http.StatusInternalServerError
	}
}

func (c *Client) observeConnectivity(
	ctx context.Context,
	probe ConnectivityProbe,
) {
	online := probe(ctx)
	previous := c.online.Swap(online)
	if c.metrics != nil {
		if online {
			c.metrics.online.Set(1)
		} else {
			c.metrics.online.Set(0)
		}
	}
	if online == previous {
		return
	}
	c.config.logger.Info(
		"connectivity changed",
		"component", "client",
		"online", online,
	)
	c.eventBus.Publish(
		event.ConnectivityEventType,
		event.NewEvent(
			event.ConnectivityEventType,
			event.ConnectivityEvent{Online: online},
		),
	)
}

// runSyncLoop periodically drains the queue while the network is
// reachable. Connectivity transitions trigger an immediate drain via the
// event bus; this loop catches items that were enqueued while online. The
// queue gauges are refreshed on every tick regardless of connectivity.
func (c *Client) runSyncLoop(ctx context.Context) {
	ticker := time.NewTicker(c.config.syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.online.Load() {
				c.drainQueue(ctx)
			}
			c.updateQueueMetrics()
		}
	}
}

// drainQueue attempts every pending queue item once, in creation order.
// Items that sync are removed; items that fail stay queued with their
// retry count incremented. The mutex serializes drains triggered by the
// ticker and by connectivity transitions.
func (c *Client) drainQueue(ctx context.Context) {
	c.drainMu.Lock()
	defer c.drainMu.Unlock()
	items, err := c.db.PendingQueueItems()
	if err != nil {
		c.config.logger.Error(
			"failed to list pending queue items",
			"component", "client",
			"error", err,
		)
		return
	}
	for _, item := range items {
		if ctx.Err() != nil {
			return
		}
		if err := c.db.MarkQueueItemProcessing(item.ID); err != nil {
			c.config.logger.Warn(
				"failed to mark queue item processing",
				"component", "client",
				"item", item.ID,
				"error", err,
			)
			continue
		}
		result, err := c.processQueueItem(ctx, &item)
		if err != nil {
			c.config.logger.Warn(
				"queued operation failed",
				"component", "client",
				"item", item.ID,
				"type", string(item.Type),
				"error", err,
			)
			if markErr := c.db.MarkQueueItemFailed(item.ID, err.Error()); markErr != nil {
				c.config.logger.Error(
					"failed to mark queue item failed",
					"component", "client",
					"item", item.ID,
					"error", markErr,
				)
			}
			if c.metrics != nil {
				c.metrics.failedOps.WithLabelValues(string(item.Type)).Inc()
			}
			c.eventBus.Publish(
				event.QueueItemFailedEventType,
				event.NewEvent(
					event.QueueItemFailedEventType,
					event.QueueItemFailedEvent{
						ItemId:  item.ID,
						Retries: item.Retries + 1,
						Error:   err.Error(),
					},
				),
			)
			continue
		}
		if err := c.db.MarkQueueItemCompleted(item.ID); err != nil {
			c.config.logger.Error(
				"failed to remove completed queue item",
				"component", "client",
				"item", item.ID,
				"error", err,
			)
			continue
		}
		c.config.logger.Info(
			"queued operation synced",
			"component", "client",
			"item", item.ID,
			"type", string(item.Type),
			"tx_hash", result.Hash,
		)
		if c.metrics != nil {
			c.metrics.syncedOps.WithLabelValues(string(item.Type)).Inc()
		}
		c.eventBus.Publish(
			event.QueueItemCompletedEventType,
			event.NewEvent(
				event.QueueItemCompletedEventType,
				event.QueueItemCompletedEvent{
					ItemId: item.ID,
					TxHash: result.Hash,
				},
			),
		)
	}
	c.updateQueueMetrics()
}

// processQueueItem performs the remote write a queue item represents and
// applies any local follow-up state
func (c *Client) processQueueItem(
	ctx context.Context,
	item *models.OfflineQueueItem,
) (*ledger.Result, error) {
	switch item.Type {
	case models.QueueOpIdentity:
		var payload identityPayload
		if err := json.Unmarshal(item.Payload, &payload); err != nil {
			return nil, fmt.Errorf("malformed identity payload: %w", err)
		}
		return c.gateway.SetIdentity(ctx, payload.SecretSeed, payload.Entries)
	case models.QueueOpAction:
		var payload actionPayload
		if err := json.Unmarshal(item.Payload, &payload); err != nil {
			return nil, fmt.Errorf("malformed action payload: %w", err)
		}
		result, err := c.gateway.RecordAction(
			ctx,
			payload.SecretSeed,
			payload.ActionID,
			payload.Category,
			payload.Description,
		)
		if err != nil {
			return nil, err
		}
		if err := c.db.SetActionSynced(payload.ActionID, result.Hash); err != nil {
			c.config.logger.Warn(
				"action synced but local record update failed",
				"component", "client",
				"action", payload.ActionID,
				"error", err,
			)
		}
		return result, nil
	case models.QueueOpCertification:
		var payload certificationPayload
		if err := json.Unmarshal(item.Payload, &payload); err != nil {
			return nil, fmt.Errorf("malformed certification payload: %w", err)
		}
		return c.processCertification(ctx, &payload)
	case models.QueueOpMultisig:
		var payload multisigPayload
		if err := json.Unmarshal(item.Payload, &payload); err != nil {
			return nil, fmt.Errorf("malformed multisig payload: %w", err)
		}
		result, err := c.gateway.SetupMultisig(ctx, payload.Params)
		if err != nil {
			return nil, err
		}
		if err := c.recordMultisigConfigured(payload.CommunityID, payload.Params); err != nil {
			c.config.logger.Warn(
				"multisig configured but local record update failed",
				"component", "client",
				"community", payload.CommunityID,
				"error", err,
			)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unknown queue item type: %s", item.Type)
	}
}

// processCertification runs the two-transaction certification flow:
// trustline from the member, then issuance from the community
func (c *Client) processCertification(
	ctx context.Context,
	payload *certificationPayload,
) (*ledger.Result, error) {
	if _, err := c.gateway.CreateTrustline(
		ctx,
		payload.MemberSeed,
		ledger.CertificateAssetCode,
		payload.IssuerPublicKey,
	); err != nil {
		return nil, fmt.Errorf("failed to create trustline: %w", err)
	}
	result, err := c.gateway.IssueCertificate(
		ctx,
		payload.IssuerSeeds,
		payload.MemberPublicKey,
		payload.IssuerPublicKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to issue certificate: %w", err)
	}
	if err := c.recordMemberCertified(payload.MemberID, result.Hash); err != nil {
		c.config.logger.Warn(
			"certificate issued but local record update failed",
			"component", "client",
			"member", payload.MemberID,
			"error", err,
		)
	}
	return result, nil
}

// ProbeConnectivity checks network reachability once and updates the
// client's online state, publishing a connectivity event on transition
func (c *Client) ProbeConnectivity(ctx context.Context) bool {
	probe := c.config.probe
	if probe == nil {
		probe = c.defaultProbe()
	}
	c.observeConnectivity(ctx, probe)
	return c.online.Load()
}

// SyncNow probes connectivity once and, if the network is reachable,
// drains the offline queue immediately. Returns the queue stats after the
// attempt.
func (c *Client) SyncNow(ctx context.Context) (database.QueueStats, error) {
	if c.ProbeConnectivity(ctx) {
		c.drainQueue(ctx)
	}
	return c.db.QueueStats()
}

// RetryFailedOperations resets failed queue items below the retry ceiling
// back to pending so the next drain attempts them again
func (c *Client) RetryFailedOperations() (int64, error) {
	return c.db.RetryFailedQueueItems()
}

// QueueStats returns counts of queued operations by status
func (c *Client) QueueStats() (database.QueueStats, error) {
	return c.db.QueueStats()
}
