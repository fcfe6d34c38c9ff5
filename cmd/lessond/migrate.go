package main

import (
	"fmt"

	"github.com/Freeeeeet/lesson_scheduler/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|version]",
	Short:     "Manage database migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, cfg, logger, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer a.Close()

		migrator, err := app.NewMigrator(a.Pool(), cfg.MigrationsPath, logger)
		if err != nil {
			return err
		}
		defer migrator.Close()

		direction := "up"
		if len(args) == 1 {
			direction = args[0]
		}

		switch direction {
		case "down":
			return migrator.Down(ctx)
		case "version":
			version, err := migrator.Version(ctx)
			if err != nil {
				return err
			}
			logger.Info("Current migration version", zap.Int64("version", version))
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		default:
			return migrator.Up(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
