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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func leaderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leader",
		Short: "Manage community leaders",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <community-id> <name>",
		Short: "Create a new leader account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			leader, err := client.CreateLeader(cmd.Context(), args[0], args[1])
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("leader %s created\n", leader.ID)
			fmt.Printf("public key: %s\n", leader.PublicKey)
		},
	})
	return cmd
}

func memberCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage community members",
	}
	cmd.AddCommand(memberCreateCommand())
	cmd.AddCommand(memberCertifyCommand())
	cmd.AddCommand(memberScoreCommand())
	cmd.AddCommand(memberEndorseCommand())
	cmd.AddCommand(memberCheckinCommand())
	return cmd
}

func memberCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <community-id> <name>",
		Short: "Create a new member account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			member, err := client.CreateMember(cmd.Context(), args[0], args[1])
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("member %s created\n", member.ID)
			fmt.Printf("public key: %s\n", member.PublicKey)
		},
	}
}

func memberCertifyCommand() *cobra.Command {
	var leaderIds []string
	cmd := &cobra.Command{
		Use:   "certify <member-id>",
		Short: "Issue a certification asset to a member",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			if err := client.CertifyMember(cmd.Context(), args[0], leaderIds); err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Println("certification submitted")
		},
	}
	cmd.Flags().
		StringSliceVar(&leaderIds, "leader", nil, "certifying leader id (repeatable)")
	return cmd
}

func memberScoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "score <member-id>",
		Short: "Recompute and show a member's reputation score",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			score, err := client.CalculateScore(cmd.Context(), args[0])
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			out, err := json.MarshalIndent(score, "", "  ")
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Println(string(out))
		},
	}
}

func memberEndorseCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "endorse <member-id>",
		Short: "Record an endorsement for a member",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			if err := client.RecordEndorsement(cmd.Context(), args[0], description); err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Println("endorsement recorded")
		},
	}
	cmd.Flags().
		StringVar(&description, "description", "", "endorsement description")
	return cmd
}

func memberCheckinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <member-id>",
		Short: "Record daily activity for a member",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			if err := client.RecordDailyActive(cmd.Context(), args[0]); err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Println("daily activity recorded")
		},
	}
}
