package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/cmd/cli/commands"
	"github.com/jakechorley/rostergrid/internal/config"
	"github.com/jakechorley/rostergrid/pkg/core/holidays"
	"github.com/jakechorley/rostergrid/pkg/postgres"
	"github.com/jakechorley/rostergrid/pkg/sqlite"
	"github.com/jakechorley/rostergrid/pkg/utils/logging"
)

var env string

func main() {
	app := &commands.AppContext{
		Ctx: context.Background(),
		Now: time.Now,
	}

	rootCmd := &cobra.Command{
		Use:   "rostergrid",
		Short: "Roster grid - view shifts, leave and statuses by date",
		Long:  `A CLI for viewing the registrar roster as a date x person grid, with leave summaries, calendar feeds and exports.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app, cmd.Name())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.TableCmd(app))
	rootCmd.AddCommand(commands.LeaveSummaryCmd(app))
	rootCmd.AddCommand(commands.CalendarCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))
	rootCmd.AddCommand(commands.ExportTableCmd(app))
	rootCmd.AddCommand(commands.PublishTableCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ImportCmd(app))
	rootCmd.AddCommand(commands.ICalCmd(app))
	rootCmd.AddCommand(commands.ShellCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, holidays and database
func initApp(app *commands.AppContext, command string) error {
	var err error
	app.Env = env

	var logOpts []logging.Option
	if command == "interactive" {
		logOpts = append(logOpts, logging.WithoutConsole())
	}
	app.Logger, err = logging.InitLogger(env, logOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env), zap.String("command", command))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("backend", app.Cfg.Backend),
		zap.Int("holidays", len(app.Cfg.Holidays)))

	app.Holidays, err = holidays.NewCalendar(app.Cfg.HolidayRules())
	if err != nil {
		return fmt.Errorf("failed to load holidays: %w", err)
	}

	switch app.Cfg.Backend {
	case config.BackendPostgres:
		app.Logger.Debug("Connecting to postgres")
		database, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		app.Database = database
	case config.BackendSQLite:
		app.Logger.Debug("Opening sqlite database", zap.String("path", app.Cfg.SQLitePath))
		database, err := sqlite.NewDB(app.Ctx, app.Cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		app.Database = database
	default:
		return fmt.Errorf("unknown backend %q", app.Cfg.Backend)
	}
	app.Logger.Debug("Database initialized successfully")

	return nil
}
