package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/pkg/core/services"
)

// ImportCmd creates the import command
func ImportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <roster.yaml>",
		Short: "Load registrars, shifts, leave and statuses from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("import command", zap.String("file", args[0]))

			fixture, err := services.LoadRosterFixture(args[0])
			if err != nil {
				return err
			}

			result, err := services.ImportRoster(app.Ctx, app.Database, app.Logger, fixture)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Import completed\n\n")
			fmt.Fprintf(out, "Registrars: %d\n", result.Registrars)
			fmt.Fprintf(out, "Shifts:     %d\n", result.Shifts)
			fmt.Fprintf(out, "Leaves:     %d\n", result.Leaves)
			fmt.Fprintf(out, "Statuses:   %d\n", result.Statuses)
			return nil
		},
	}
}
