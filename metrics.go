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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type clientMetrics struct {
	queuePending    prometheus.Gauge
	queueProcessing prometheus.Gauge
	queueFailed     prometheus.Gauge
	syncedOps       *prometheus.CounterVec
	failedOps       *prometheus.CounterVec
	online          prometheus.Gauge
}

func newClientMetrics(promRegistry prometheus.Registerer) *clientMetrics {
	if promRegistry == nil {
		return nil
	}
	promautoFactory := promauto.With(promRegistry)
	return &clientMetrics{
		queuePending: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: "amaru_queue_pending",
			Help: "number of queued operations waiting to sync",
		}),
		queueProcessing: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: "amaru_queue_processing",
			Help: "number of queued operations currently being synced",
		}),
		queueFailed: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: "amaru_queue_failed",
			Help: "number of queued operations that failed to sync",
		}),
		syncedOps: promautoFactory.NewCounterVec(prometheus.CounterOpts{
			Name: "amaru_synced_operations_total",
			Help: "total queued operations successfully synced to the ledger",
		}, []string{"type"}),
		failedOps: promautoFactory.NewCounterVec(prometheus.CounterOpts{
			Name: "amaru_failed_operations_total",
			Help: "total queued operation sync attempts that failed",
		}, []string{"type"}),
		online: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: "amaru_network_online",
			Help: "whether the Stellar network is currently reachable",
		}),
	}
}

func (c *Client) updateQueueMetrics() {
	if c.metrics == nil {
		return
	}
	stats, err := c.db.QueueStats()
	if err != nil {
		c.config.logger.Warn(
			"failed to read queue stats",
			"component", "client",
			"error", err,
		)
		return
	}
	c.metrics.queuePending.Set(float64(stats.Pending))
	c.metrics.queueProcessing.Set(float64(stats.Processing))
	c.metrics.queueFailed.Set(float64(stats.Failed))
}
