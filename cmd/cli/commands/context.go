package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/internal/config"
	"github.com/jakechorley/rostergrid/pkg/clients/sheetsclient"
	"github.com/jakechorley/rostergrid/pkg/core/holidays"
	"github.com/jakechorley/rostergrid/pkg/core/model"
	"github.com/jakechorley/rostergrid/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Holidays *holidays.Calendar
	Logger   *zap.Logger
	Ctx      context.Context
	Now      func() time.Time

	sheetsClient *sheetsclient.Client
}

// SheetsClient connects to Google Sheets on first use, running the OAuth flow if needed
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.sheetsClient = client
	return client, nil
}

// windowFlags adds --from/--to to a command; both default to the configured window
type windowFlags struct {
	from string
	to   string
}

func (w *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.from, "from", "", "First date shown (YYYY-MM-DD, default today minus configured days)")
	cmd.Flags().StringVar(&w.to, "to", "", "Last date shown (YYYY-MM-DD, default today plus configured months)")
}

func (w *windowFlags) resolve(app *AppContext) (model.Window, error) {
	window := model.DefaultWindow(app.Now(), app.Cfg.DaysBefore(), app.Cfg.MonthsAfter())

	start, end := window.Start, window.End
	if w.from != "" {
		d, err := model.ParseDate(w.from)
		if err != nil {
			return model.Window{}, fmt.Errorf("invalid --from date: %w", err)
		}
		start = d
	}
	if w.to != "" {
		d, err := model.ParseDate(w.to)
		if err != nil {
			return model.Window{}, fmt.Errorf("invalid --to date: %w", err)
		}
		end = d
	}
	return model.NewWindow(start, end)
}
