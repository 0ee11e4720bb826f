package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jakechorley/rostergrid/pkg/core/calendar"
	"github.com/jakechorley/rostergrid/pkg/core/services"
)

// ICalCmd creates the ical command
func ICalCmd(app *AppContext) *cobra.Command {
	var window windowFlags
	var outPath string

	cmd := &cobra.Command{
		Use:   "ical",
		Short: "Write shifts and leave as an iCalendar feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := window.resolve(app)
			if err != nil {
				return err
			}

			feed, err := services.ICalFeed(app.Ctx, app.Database, app.Logger, w, app.Now())
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}
			return calendar.WriteICal(out, feed)
		},
	}

	window.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}
