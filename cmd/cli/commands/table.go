package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/core/services"
	"github.com/jakechorley/rostergrid/pkg/tui"
)

// TableCmd creates the table command
func TableCmd(app *AppContext) *cobra.Command {
	var window windowFlags

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the roster grid for a date window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := window.resolve(app)
			if err != nil {
				return err
			}

			app.Logger.Debug("table command",
				zap.String("from", model.FormatDate(w.Start)),
				zap.String("to", model.FormatDate(w.End)))

			result, err := services.ViewTable(app.Ctx, app.Database, app.Holidays, app.Logger, w, app.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderStatic(result.Grid))
			return nil
		},
	}

	window.register(cmd)
	return cmd
}
