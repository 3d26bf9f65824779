package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
	"github.com/j-veylop/study-dashboard-tui/internal/services"
	"github.com/j-veylop/study-dashboard-tui/internal/services/progress"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print today's study time, this week and the streak",
	Long: `Print the stored totals without starting a session. Running status does
not count as a login for the streak.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, svcManager, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		snap := svcManager.InitialState(commandContext(cmd.Context()))
		writeStatus(cmd.OutOrStdout(), snap, time.Now())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func writeStatus(w io.Writer, snap services.Snapshot, now time.Time) {
	fmt.Fprintf(w, "Today (%s): %s\n", snap.Today.Date, snap.Today.Format())

	fmt.Fprintln(w, "This week:")
	for _, day := range snap.Weekly.Week(now) {
		marker := " "
		if day.IsToday {
			marker = "•"
		}
		fmt.Fprintf(w, "  %s %s %s  %s\n", marker, day.Day, day.Date, models.FormatMinutes(day.Minutes))
	}
	fmt.Fprintf(w, "  Total: %s\n", models.FormatMinutes(snap.Weekly.TotalMinutes()))

	s := snap.Streak
	fmt.Fprintf(w, "Streak: %d (longest %d, last login %s)\n",
		s.CurrentStreak, s.LongestStreak, progress.FormatStreakDate(s.LastLoginDate))
	fmt.Fprintf(w, "Level %d: %d points, %d to next level\n",
		s.Level, s.TotalPoints, progress.PointsRemaining(s))
}

// commandContext returns ctx, or Background when cobra was run without one.
func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
