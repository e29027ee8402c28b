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

func communityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "community",
		Short: "Manage communities",
	}
	cmd.AddCommand(communityCreateCommand())
	cmd.AddCommand(communityListCommand())
	cmd.AddCommand(communityMultisigCommand())
	return cmd
}

func communityCreateCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new community account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			community, err := client.CreateCommunity(
				cmd.Context(),
				args[0],
				description,
			)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("community %s created\n", community.ID)
			fmt.Printf("public key: %s\n", community.PublicKey)
			if !community.Funded {
				fmt.Println("account not yet funded; retry with 'amaru fund' once online")
			}
		},
	}
	cmd.Flags().
		StringVar(&description, "description", "", "community description")
	return cmd
}

func communityListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known communities",
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			communities, err := client.Database().Communities()
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			for _, community := range communities {
				fmt.Printf(
					"%s  %s  signers=%d  %s\n",
					community.ID,
					community.PublicKey,
					len(community.Signers),
					community.Name,
				)
			}
		},
	}
}

func fundCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fund <public-key>",
		Short: "Request faucet funding for an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			funded, err := client.FundAccount(cmd.Context(), args[0])
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			if !funded {
				fmt.Println("funding request failed; the faucet may be unreachable")
				os.Exit(1)
			}
			fmt.Println("account funded")
		},
	}
}

func communityMultisigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "multisig <community-id>",
		Short: "Convert a community account to leader-governed multisig",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			if err := client.ConfigureMultisig(cmd.Context(), args[0]); err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Println("multisig configuration submitted")
		},
	}
}
