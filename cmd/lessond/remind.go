package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run a single reminder pass and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, _, logger, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer a.Close()

		report, err := a.RunReminders(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d sent=%d skipped=%d failed=%d\n",
			report.Scanned, report.Sent, report.Skipped, report.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
}
