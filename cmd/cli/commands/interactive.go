package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jakechorley/rostergrid/internal/config"
	"github.com/jakechorley/rostergrid/pkg/core/highlight"
	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/core/services"
	"github.com/jakechorley/rostergrid/pkg/tui"
)

// InteractiveCmd creates the interactive command: a full-screen grid with hover highlighting
func InteractiveCmd(app *AppContext) *cobra.Command {
	var window windowFlags

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Browse the roster grid with cursor highlighting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := window.resolve(app)
			if err != nil {
				return err
			}

			holder := services.NewSnapshotHolder(func(ctx context.Context, win model.Window) (*model.Table, error) {
				return services.FetchTable(ctx, app.Database, app.Holidays, app.Logger, win, app.Now())
			}, app.Logger)

			keyFn := highlight.KeyByLabel
			if app.Cfg.HighlightKey == config.HighlightByEntity {
				keyFn = highlight.KeyByEntity
			}

			m := tui.NewModel(app.Ctx, tui.Config{
				Holder:         holder,
				Deleter:        app.Database,
				Window:         w,
				Logger:         app.Logger,
				Now:            app.Now,
				HighlightColor: app.Cfg.HighlightColor,
				HighlightKey:   keyFn,
			})

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(app.Ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("interactive grid failed: %w", err)
			}
			return nil
		},
	}

	window.register(cmd)
	return cmd
}
