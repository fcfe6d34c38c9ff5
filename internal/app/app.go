package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/lesson_scheduler/internal/api"
	"github.com/Freeeeeet/lesson_scheduler/internal/calendar"
	"github.com/Freeeeeet/lesson_scheduler/internal/config"
	"github.com/Freeeeeet/lesson_scheduler/internal/controller"
	"github.com/Freeeeeet/lesson_scheduler/internal/messaging"
	"github.com/Freeeeeet/lesson_scheduler/internal/repository"
	"github.com/Freeeeeet/lesson_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// App - собранное приложение: пул БД, сервисы и (опционально) Telegram-бот
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	bot    *bot.Bot

	Lessons   *service.LessonService
	Reminders *service.ReminderService
}

// New подключается к БД и собирает зависимости
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("✅ Connected to database")

	a := &App{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
	}

	lessonRepo := repository.NewLessonRepository(pool)

	calendarClient := calendar.NewGoogleClient(calendar.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		TimeZone:     cfg.DisplayLocation.String(),
		Timeout:      cfg.Google.Timeout,
	}, logger.Named("calendar"))

	a.Lessons = service.NewLessonService(
		lessonRepo,
		repository.NewHistoryRepository(pool),
		repository.NewTeacherRepository(pool),
		repository.NewStudentRepository(pool),
		repository.NewTxManager(pool),
		calendarClient,
		logger.Named("lessons"),
	)

	if cfg.TelegramEnabled() {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("create telegram bot: %w", err)
		}
		a.bot = b

		a.Reminders = service.NewReminderService(lessonRepo, messaging.NewTelegramSender(b), service.ReminderConfig{
			EarlyMargin: cfg.Reminder.EarlyMargin,
			LateMargin:  cfg.Reminder.LateMargin,
			Location:    cfg.DisplayLocation,
			Dedup:       cfg.Reminder.Dedup,
		}, logger.Named("reminders"))
	} else {
		logger.Warn("TELEGRAM_TOKEN is not set: bot and reminders are disabled")
	}

	return a, nil
}

// Pool нужен мигратору
func (a *App) Pool() *pgxpool.Pool {
	return a.pool
}

// Close освобождает пул соединений
func (a *App) Close() {
	a.pool.Close()
}

// Serve запускает HTTP-сервер, бота и планировщик напоминаний.
// Возвращается после отмены ctx или при первой ошибке любого компонента.
func (a *App) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddress,
		Handler:           api.NewRouter(a.Lessons, a.pool, a.logger.Named("http")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		a.logger.Info("HTTP server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if a.bot != nil {
		botController := controller.NewBotController(a.bot, a.Lessons, a.cfg.DisplayLocation, a.logger.Named("bot"))
		if err := botController.RegisterHandlers(ctx); err != nil {
			// Меню команд не критично, бот работает и без него
			a.logger.Warn("Bot commands menu not set", zap.Error(err))
		}

		g.Go(func() error {
			return botController.Start(ctx)
		})

		scheduler := NewScheduler(a.Reminders, a.cfg.Reminder.Interval, a.logger.Named("scheduler"))
		if err := scheduler.Start(ctx); err != nil {
			return err
		}

		g.Go(func() error {
			<-ctx.Done()
			scheduler.Stop()
			return nil
		})
	}

	return g.Wait()
}

// RunReminders выполняет один проход напоминаний (для запуска из внешнего cron)
func (a *App) RunReminders(ctx context.Context) (service.ReminderReport, error) {
	if a.Reminders == nil {
		return service.ReminderReport{}, errors.New("reminders require TELEGRAM_TOKEN")
	}
	return a.Reminders.RunOnce(ctx)
}
