// Package cmd provides the CLI commands for motivad.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/motiva/pkg/version"
)

var configPath string

// NewRootCmd creates the root command for the motivad server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "motivad",
		Short:   "Entity-resolution matching server",
		Long:    `motivad serves sanctions/PEP/watchlist screening over the FollowTheMoney ontology.`,
		Version: version.Version,
	}
	cmd.SetVersionTemplate("motivad version {{.Version}}\n")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: MOTIVA_CONFIG or ~/.config/motiva/config.yaml)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
