package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/pkg/core/services"
	"github.com/jakechorley/rostergrid/pkg/export"
)

// ExportTableCmd creates the exportTable command
func ExportTableCmd(app *AppContext) *cobra.Command {
	var window windowFlags
	var sheet string

	cmd := &cobra.Command{
		Use:   "exportTable <file.xlsx>",
		Short: "Export the roster grid, colors included, to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := window.resolve(app)
			if err != nil {
				return err
			}

			result, err := services.ViewTable(app.Ctx, app.Database, app.Holidays, app.Logger, w, app.Now())
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			defer f.Close()

			if err := export.WriteGrid(f, result.Grid, sheet); err != nil {
				return err
			}

			app.Logger.Info("Exported table",
				zap.String("file", args[0]),
				zap.Int("rows", len(result.Grid.Rows)),
				zap.Int("columns", len(result.Grid.Columns)))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d dates x %d registrars to %s\n",
				len(result.Grid.Rows), len(result.Grid.Columns), args[0])
			return nil
		},
	}

	window.register(cmd)
	cmd.Flags().StringVar(&sheet, "sheet", export.DefaultSheet, "Worksheet name")
	return cmd
}
