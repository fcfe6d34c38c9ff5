package main

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lesson_scheduler/internal/app"
	"github.com/Freeeeeet/lesson_scheduler/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:          "lessond",
	Short:        "Lesson scheduling service: calendar sync, booking and Telegram reminders",
	SilenceUsage: true,
}

// bootstrap читает конфиг, создаёт логгер и собирает приложение
func bootstrap(ctx context.Context) (*app.App, *config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg.Environment)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Sync()
		return nil, nil, nil, err
	}

	return a, cfg, logger, nil
}
