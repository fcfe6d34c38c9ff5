package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/lesson_scheduler/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, Telegram bot and reminder scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, cfg, logger, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer a.Close()

		logger.Info("Starting lesson scheduler",
			zap.String("environment", cfg.Environment),
			zap.Bool("telegram_enabled", cfg.TelegramEnabled()))

		if !skipMigrations {
			migrator, err := app.NewMigrator(a.Pool(), cfg.MigrationsPath, logger)
			if err != nil {
				return err
			}
			defer migrator.Close()

			if err := migrator.Up(ctx); err != nil {
				return err
			}
		}

		return a.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	rootCmd.AddCommand(serveCmd)
}
