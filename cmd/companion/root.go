package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/companion/version"
)

// configFile is the --config flag shared by every subcommand.
var configFile string

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "companion",
		Short:         "Companion account service",
		Long:          `Companion serves account signup, login and profile endpoints behind bearer-token authentication.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: ./cmd/companion/config.yml or ./config.yml)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	return cmd
}
