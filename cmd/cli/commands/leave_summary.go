package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/rostergrid/pkg/core/grid"
	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/core/services"
)

// LeaveSummaryCmd creates the leaveSummary command
func LeaveSummaryCmd(app *AppContext) *cobra.Command {
	var window windowFlags
	var all bool

	cmd := &cobra.Command{
		Use:   "leaveSummary",
		Short: "Show leave, approved and pending counts per date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := window.resolve(app)
			if err != nil {
				return err
			}

			result, err := services.ViewTable(app.Ctx, app.Database, app.Holidays, app.Logger, w, app.Now())
			if err != nil {
				return err
			}

			printLeaveSummary(cmd.OutOrStdout(), result.Grid, all)
			return nil
		},
	}

	window.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "Include dates with no leave")
	return cmd
}

func printLeaveSummary(out io.Writer, rendered *grid.RenderedGrid, all bool) {
	fmt.Fprintf(out, "%-16s %6s %9s %8s\n", "Date", "Leave", "Approved", "Pending")
	shown := 0
	for _, row := range rendered.Rows {
		summary, ok := rendered.Footer[model.FormatDate(row.Date)]
		if !ok && !all {
			continue
		}
		fmt.Fprintf(out, "%-16s %6d %9d %8d\n", row.Date.Format("02/01/06 Mon"), summary.Total, summary.Approved, summary.Pending)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(out, "No leave booked in this window.")
	}
}
