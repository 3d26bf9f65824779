package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/study-dashboard-tui/internal/app"
	"github.com/j-veylop/study-dashboard-tui/internal/config"
	"github.com/j-veylop/study-dashboard-tui/internal/logger"
	"github.com/j-veylop/study-dashboard-tui/internal/services"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/tabs/streak"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/tabs/today"
	"github.com/j-veylop/study-dashboard-tui/internal/ui/tabs/week"
	"github.com/j-veylop/study-dashboard-tui/internal/version"
)

// rootCmd runs the dashboard when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "sdt",
	Short: "Study Dashboard TUI - study time tracker with streaks and levels",
	Long: `sdt tracks how long the dashboard is open each day, keeps a seven day
history and rewards daily logins with a streak, points and levels.

Keyboard shortcuts:
  1-4             Switch between tabs (Today, Week, Streak, Info)
  Tab/Shift+Tab   Navigate between tabs
  s               Pause or resume tracking
  ?               Toggle help
  q, Ctrl+C       Quit

Configuration is read from the environment and from .env files in the current
directory, ~/.config/study-dashboard/.env or ~/.study-dashboard/.env.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.Version = version.GetVersion()
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration, points the logger at LOG_PATH and starts the
// services. The returned cleanup closes both.
func setup() (*config.Config, *services.Manager, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := openLog(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		_ = logFile.Close()
		return nil, nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	cleanup := func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
		_ = logFile.Close()
	}
	return cfg, svcManager, cleanup, nil
}

func openLog(cfg *config.Config) (io.WriteCloser, error) {
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if err := logger.Setup(f, cfg.LogLevel, "text"); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return f, nil
}

func runTUI() error {
	cfg, svcManager, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		today.New(state),
		week.New(state),
		streak.New(state),
		info.New(state, cfg, svcManager),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.Quit())
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
