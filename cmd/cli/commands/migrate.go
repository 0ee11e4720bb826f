package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := app.Database.RunMigrations(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			for _, filename := range applied {
				app.Logger.Info("Applied migration", zap.String("file", filename))
				fmt.Fprintf(cmd.OutOrStdout(), "  applied %s\n", filename)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s database is up to date\n", app.Cfg.Backend)
			return nil
		},
	}
}
