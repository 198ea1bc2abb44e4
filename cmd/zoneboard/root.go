// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Zoneboard CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zoneboard",
		Short: "Zoneboard - a municipal zoning portal",
		Long: `Zoneboard serves a municipal zoning portal: resident signup with
per-user PostgreSQL role provisioning, session login, and read-only
zoning listings.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
