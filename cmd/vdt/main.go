// Package main is the entry point for the vehicle registration dashboard.
// Without a subcommand it runs the terminal dashboard; export, serve and
// generate cover scripting, the HTTP API and demo data.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/vahan-dashboard-tui/internal/app"
	"github.com/j-veylop/vahan-dashboard-tui/internal/config"
	"github.com/j-veylop/vahan-dashboard-tui/internal/logger"
	"github.com/j-veylop/vahan-dashboard-tui/internal/services"
	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/vahan-dashboard-tui/internal/ui/tabs/manufacturers"
	"github.com/j-veylop/vahan-dashboard-tui/internal/version"
)

// logFileName receives logs while the dashboard owns the terminal.
const logFileName = "vdt.log"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:   "vdt",
		Short: "Vehicle registration dashboard",
		Long: `vdt aggregates vehicle registration records into monthly series per
vehicle type and manufacturer, with year-over-year and quarter-over-quarter
growth, and shows them in a terminal dashboard or over HTTP.

Keyboard shortcuts:
  1-3             Switch tabs (Dashboard, Manufacturers, Info)
  Tab/Shift+Tab   Next/previous tab
  t               Cycle date range
  v               Cycle vehicle type (Dashboard)
  m/M             Next/previous manufacturer (Manufacturers)
  r               Reload dataset
  ?               Toggle help
  q, Ctrl+C       Quit`,
		Version:       version.Info(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.LoadWithFlags(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return logger.Configure(cfg.LogLevel, cfg.LogFormat)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(cfg)
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.String("database", "", "SQLite database path (env DATABASE_PATH)")
	flags.String("dataset", "", "registrations dataset, .csv or .json (env DATASET_PATH)")
	flags.String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	flags.String("log-format", "", "log format: text or json (env LOG_FORMAT)")

	loaded := func() *config.Config { return cfg }
	root.AddCommand(
		newExportCmd(loaded),
		newServeCmd(loaded),
		newGenerateCmd(),
	)
	return root
}

// runTUI contains the dashboard logic, separated for cleaner error handling.
func runTUI(cfg *config.Config) error {
	logFile, err := os.OpenFile(filepath.Join(cfg.ConfigDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	if err := logger.ConfigureWriter(logFile, cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	// Tabs share the root model's state.
	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state),
		manufacturers.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
