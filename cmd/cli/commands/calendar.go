package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/rostergrid/pkg/core/calendar"
	"github.com/jakechorley/rostergrid/pkg/core/highlight"
	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/core/services"
)

// CalendarCmd creates the calendar command
func CalendarCmd(app *AppContext) *cobra.Command {
	var window windowFlags
	var asJSON bool
	var hover string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List shift, leave and holiday events in calendar order",
		Long: `List shift, leave and holiday events in calendar order.

--highlight <event-id> marks every event that would be highlighted together when
pointing at that event.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := window.resolve(app)
			if err != nil {
				return err
			}

			events, err := services.CalendarEvents(app.Ctx, app.Database, app.Holidays, app.Logger, w, app.Now())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(events)
			}

			highlighted := map[string]bool{}
			if hover != "" {
				coord := highlight.NewCoordinator(highlight.WithColor(app.Cfg.HighlightColor))
				coord.Mount(calendar.HighlightItems(events))
				ids, err := coord.Enter(hover)
				if err != nil {
					return fmt.Errorf("failed to highlight %s: %w", hover, err)
				}
				for _, id := range ids {
					highlighted[id] = true
				}
			}

			printEvents(cmd.OutOrStdout(), events, highlighted)
			return nil
		},
	}

	window.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print events as JSON")
	cmd.Flags().StringVar(&hover, "highlight", "", "Event ID to highlight matches for")
	return cmd
}

func printEvents(out io.Writer, events []calendar.Event, highlighted map[string]bool) {
	for _, e := range events {
		mark := " "
		if highlighted[e.ID] {
			mark = "*"
		}
		title := e.Title
		if e.Category == calendar.CategoryHoliday {
			title = "🎉 " + title
		}
		fmt.Fprintf(out, "%s %s  %-8s %-14s %s\n", mark, model.FormatDate(e.Start), e.Category, e.ID, title)
	}
}
