package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/rostergrid/pkg/core/services"
)

// PublishTableCmd creates the publishTable command
func PublishTableCmd(app *AppContext) *cobra.Command {
	var window windowFlags
	var sheetID string

	cmd := &cobra.Command{
		Use:   "publishTable",
		Short: "Publish the roster grid to a Google Sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := window.resolve(app)
			if err != nil {
				return err
			}

			if sheetID == "" {
				sheetID = app.Cfg.PublishSheetID
			}
			if sheetID == "" {
				return fmt.Errorf("no spreadsheet to publish to: set publishSheetID or pass --sheet-id")
			}

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			published, err := services.PublishTable(app.Ctx, app.Database, client, app.Holidays, app.Logger, sheetID, w, app.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Published %q (%d rows)\n", published.Title, len(published.Rows))
			return nil
		},
	}

	window.register(cmd)
	cmd.Flags().StringVar(&sheetID, "sheet-id", "", "Spreadsheet ID (defaults to publishSheetID from config)")
	return cmd
}
