package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/lesson_scheduler/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderRunner - один проход рассылки напоминаний
type ReminderRunner interface {
	RunOnce(ctx context.Context) (service.ReminderReport, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cron      *cron.Cron
	reminders ReminderRunner
	interval  time.Duration
	logger    *zap.Logger

	// первый проход при старте, Stop ждёт и его
	initial sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(reminders ReminderRunner, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Scheduler{
		// Следующий запуск пропускается, если предыдущий ещё не закончился
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		reminders: reminders,
		interval:  interval,
		logger:    logger,
	}
}

// Start регистрирует задачу напоминаний и запускает cron.
// Первый проход выполняется сразу при старте.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting background scheduler", zap.Duration("reminder_interval", s.interval))

	spec := fmt.Sprintf("@every %s", s.interval)
	id, err := s.cron.AddFunc(spec, func() { s.runReminders(ctx) })
	if err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}

	// Через обёрнутую задачу первый проход тоже попадает под SkipIfStillRunning
	job := s.cron.Entry(id).WrappedJob

	s.cron.Start()

	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		job.Run()
	}()

	return nil
}

// Stop останавливает cron и ждёт завершения текущих задач, включая первый проход
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
	s.initial.Wait()
	s.logger.Info("Background scheduler stopped")
}

func (s *Scheduler) runReminders(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	report, err := s.reminders.RunOnce(ctx)
	if err != nil {
		s.logger.Error("Reminder job failed", zap.Error(err))
		return
	}

	if report.Failed > 0 {
		s.logger.Warn("Some reminders were not delivered",
			zap.Int("failed", report.Failed),
			zap.Int("sent", report.Sent))
	}
}
