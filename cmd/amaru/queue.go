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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func queueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and drain the offline operation queue",
	}
	cmd.AddCommand(queueStatusCommand())
	cmd.AddCommand(queueSyncCommand())
	cmd.AddCommand(queueRetryCommand())
	return cmd
}

func queueStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queued operation counts",
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			stats, err := client.QueueStats()
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("pending:    %d\n", stats.Pending)
			fmt.Printf("processing: %d\n", stats.Processing)
			fmt.Printf("failed:     %d\n", stats.Failed)
			fmt.Printf("online:     %t\n", client.Online())
		},
	}
}

func queueSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Drain the queue now if the network is reachable",
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			stats, err := client.SyncNow(cmd.Context())
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			if !client.Online() {
				fmt.Println("network unreachable; queue left untouched")
			}
			fmt.Printf(
				"pending=%d processing=%d failed=%d\n",
				stats.Pending,
				stats.Processing,
				stats.Failed,
			)
		},
	}
}

func queueRetryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Reset retryable failed operations back to pending",
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			count, err := client.RetryFailedOperations()
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("%d operation(s) queued for retry\n", count)
		},
	}
}
