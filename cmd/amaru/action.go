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

	"github.com/amaruid/amaru"
	"github.com/amaruid/amaru/database/models"
	"github.com/spf13/cobra"
)

func actionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Report and review conservation actions",
	}
	cmd.AddCommand(actionSubmitCommand())
	cmd.AddCommand(actionVerifyCommand())
	cmd.AddCommand(actionRejectCommand())
	cmd.AddCommand(actionListCommand())
	return cmd
}

func actionSubmitCommand() *cobra.Command {
	var (
		category     string
		description  string
		evidencePath string
		evidenceURL  string
	)
	cmd := &cobra.Command{
		Use:   "submit <member-id> <title>",
		Short: "Report a conservation action",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			params := amaru.SubmitActionParams{
				MemberID:    args[0],
				Title:       args[1],
				Category:    models.ActionCategory(category),
				Description: description,
				EvidenceURL: evidenceURL,
			}
			if evidencePath != "" {
				evidence, err := os.ReadFile(evidencePath)
				if err != nil {
					logger.Error(err.Error())
					os.Exit(1)
				}
				params.Evidence = evidence
			}
			action, err := client.SubmitAction(cmd.Context(), params)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("action %s submitted\n", action.ID)
			if action.TxHash != "" {
				fmt.Printf("anchored in tx %s\n", action.TxHash)
			} else {
				fmt.Println("anchoring queued until the network is reachable")
			}
		},
	}
	cmd.Flags().
		StringVar(&category, "category", "", "action category")
	cmd.Flags().
		StringVar(&description, "description", "", "action description")
	cmd.Flags().
		StringVar(&evidencePath, "evidence", "", "path to an evidence file")
	cmd.Flags().
		StringVar(&evidenceURL, "evidence-url", "", "URL of external evidence")
	return cmd
}

func actionVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <action-id> <leader-id>",
		Short: "Verify a pending action as a leader",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			if err := client.VerifyAction(cmd.Context(), args[0], args[1]); err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Println("action verified")
		},
	}
}

func actionRejectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <action-id> <leader-id>",
		Short: "Reject a pending action as a leader",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			if err := client.RejectAction(cmd.Context(), args[0], args[1]); err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Println("action rejected")
		},
	}
}

func actionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <member-id>",
		Short: "List a member's actions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			actions, err := client.Database().ActionsByMember(args[0])
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			for _, action := range actions {
				anchored := "unanchored"
				if action.TxHash != "" {
					anchored = action.TxHash
				}
				fmt.Printf(
					"%s  %-10s  %-20s  %s  %s\n",
					action.ID,
					action.Status,
					action.Category,
					anchored,
					action.Title,
				)
			}
		},
	}
}
