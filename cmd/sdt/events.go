package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/j-veylop/study-dashboard-tui/internal/models"
)

var eventsLimit int

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the session audit log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, svcManager, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := commandContext(cmd.Context())
		events, err := svcManager.RecentSessionEvents(ctx, eventsLimit)
		if err != nil {
			return fmt.Errorf("failed to read session events: %w", err)
		}
		counts, err := svcManager.SessionEventCounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to count session events: %w", err)
		}

		today := models.FormatDate(time.Now())
		audited, err := svcManager.AuditedMinutes(ctx, today)
		if err != nil {
			return fmt.Errorf("failed to sum session events: %w", err)
		}

		out := cmd.OutOrStdout()
		writeEvents(out, events, counts)
		fmt.Fprintf(out, "\nCredited today: %s\n", models.FormatMinutes(audited))
		return nil
	},
}

func init() {
	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "n", 20, "Number of events to show")
	rootCmd.AddCommand(eventsCmd)
}

func writeEvents(w io.Writer, events []models.SessionEvent, counts []models.SessionEventCount) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet.")
		return
	}

	for _, e := range events {
		fmt.Fprintf(w, "%s  %-8s %s  %4dm  %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Type, e.Date, e.Minutes, shortID(e.SessionID))
	}

	fmt.Fprintln(w)
	for _, c := range counts {
		fmt.Fprintf(w, "%-8s %d\n", c.Type, c.Count)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
