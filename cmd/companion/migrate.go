package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/companion/app"
)

// NewMigrateCmd creates the migrate subcommand and its up, down and version children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the account database schema",
	}
	cmd.AddCommand(
		newMigrateActionCmd(app.MigrateUp, "Apply all pending migrations"),
		newMigrateActionCmd(app.MigrateDown, "Roll back every applied migration"),
		newMigrateActionCmd(app.MigrateVersion, "Print the applied schema version"),
	)
	return cmd
}

func newMigrateActionCmd(action app.MigrateAction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(configFile)
			if err != nil {
				return err
			}
			return app.Migrate(cmd.Context(), cfg, action)
		},
	}
}
