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

func keysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage stored secret seeds",
	}
	cmd.AddCommand(keysListCommand())
	cmd.AddCommand(keysBackupCommand())
	cmd.AddCommand(keysRestoreCommand())
	return cmd
}

func keysListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			if client.KeyStore() == nil {
				logger.Error("keystore requires a configured data directory")
				os.Exit(1)
			}
			keys, err := client.KeyStore().ListKeys()
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			for _, key := range keys {
				fmt.Printf("%-30s  %s\n", key.Name, key.Description)
			}
		},
	}
}

func keysBackupCommand() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "backup <name>",
		Short: "Export a SOPS-encrypted backup of a stored seed",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			if client.KeyStore() == nil {
				logger.Error("keystore requires a configured data directory")
				os.Exit(1)
			}
			encrypted, err := client.KeyStore().ExportBackup(args[0])
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			if outPath == "" {
				outPath = args[0] + ".enc.json"
			}
			if err := os.WriteFile(outPath, encrypted, 0o600); err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("encrypted backup written to %s\n", outPath)
		},
	}
	cmd.Flags().
		StringVarP(&outPath, "output", "o", "", "output path for the encrypted backup")
	return cmd
}

func keysRestoreCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "restore <name> <backup-file>",
		Short: "Restore a seed from a SOPS-encrypted backup",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			logger := commonRun()
			client, err := newClient(cmd, logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			defer client.Stop()
			if client.KeyStore() == nil {
				logger.Error("keystore requires a configured data directory")
				os.Exit(1)
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			if err := client.KeyStore().ImportBackup(args[0], description, data); err != nil {
				logger.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("seed restored as %s\n", args[0])
		},
	}
	cmd.Flags().
		StringVar(&description, "description", "", "key description")
	return cmd
}
