package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetStreak bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all tracked study time",
	Long: `Discard all tracked study time, leaving a zero record for today.

A dashboard open on the file store picks the reset up and drops its own totals.
The sqlite and redis stores do not report external writes, so close the
dashboard first or its next flush writes its totals back.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, svcManager, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svcManager.ResetAll(commandContext(cmd.Context()), resetStreak); err != nil {
			return err
		}

		if resetStreak {
			fmt.Fprintln(cmd.OutOrStdout(), "Study time and streak reset.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Study time reset.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetStreak, "streak", false, "Also reset the streak, points and level")
	rootCmd.AddCommand(resetCmd)
}
