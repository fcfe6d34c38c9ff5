package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lesson_scheduler/internal/formatting"
	"github.com/Freeeeeet/lesson_scheduler/internal/model"
	"go.uber.org/zap"
)

const (
	diagnosticHorizon = 2 * time.Hour
	diagnosticLimit   = 3
)

// ReminderConfig задаёт окно выборки [now-EarlyMargin, now+LateMargin]
type ReminderConfig struct {
	EarlyMargin time.Duration
	LateMargin  time.Duration
	Location    *time.Location
	// Dedup включает отметку reminded_at: урок напоминается не более одного раза.
	// По умолчанию выключено, и урок в окне двух запусков подряд получит два напоминания.
	Dedup bool
}

// ReminderReport - итог одного прохода
type ReminderReport struct {
	Scanned int
	Sent    int
	Skipped int
	Failed  int
}

type ReminderService struct {
	lessons   ReminderStore
	messenger Messenger
	cfg       ReminderConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewReminderService(lessons ReminderStore, messenger Messenger, cfg ReminderConfig, logger *zap.Logger) *ReminderService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &ReminderService{
		lessons:   lessons,
		messenger: messenger,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock подменяет источник времени (для тестов)
func (s *ReminderService) WithClock(now func() time.Time) {
	s.now = now
}

// Window возвращает границы окна выборки относительно now
func (s *ReminderService) Window(now time.Time) (time.Time, time.Time) {
	return now.Add(-s.cfg.EarlyMargin), now.Add(s.cfg.LateMargin)
}

// RunOnce выбирает уроки со студентом, начинающиеся в окне, и отправляет по
// одному напоминанию каждому студенту с Telegram. Ошибки отправки только логируются.
func (s *ReminderService) RunOnce(ctx context.Context) (ReminderReport, error) {
	var report ReminderReport

	now := s.now()
	from, to := s.Window(now)

	s.logger.Info("Checking lesson reminders",
		zap.Time("now", now),
		zap.Time("window_from", from),
		zap.Time("window_to", to),
		zap.Bool("dedup", s.cfg.Dedup))

	lessons, err := s.lessons.ListStartingBetween(ctx, from, to, s.cfg.Dedup)
	if err != nil {
		return report, fmt.Errorf("list lessons for reminders: %w", err)
	}

	report.Scanned = len(lessons)

	if len(lessons) == 0 {
		s.logUpcoming(ctx, now)
		return report, nil
	}

	for _, lesson := range lessons {
		student := lesson.Student
		if student == nil || !student.HasTelegram() {
			report.Skipped++
			s.logger.Debug("Student has no Telegram, reminder skipped",
				zap.String("lesson_id", lesson.ID.String()))
			continue
		}

		text := ReminderText(lesson, s.cfg.Location)
		if err := s.messenger.Send(ctx, *student.TelegramID, text); err != nil {
			report.Failed++
			s.logger.Error("Failed to send lesson reminder",
				zap.String("lesson_id", lesson.ID.String()),
				zap.String("student_id", student.ID.String()),
				zap.Int64("telegram_id", *student.TelegramID),
				zap.Error(err))
			continue
		}

		report.Sent++
		s.logger.Info("Lesson reminder sent",
			zap.String("lesson_id", lesson.ID.String()),
			zap.String("student_id", student.ID.String()),
			zap.Int64("telegram_id", *student.TelegramID))

		if s.cfg.Dedup {
			if err := s.lessons.MarkReminded(ctx, lesson.ID, now); err != nil {
				s.logger.Warn("Failed to mark lesson reminded",
					zap.String("lesson_id", lesson.ID.String()),
					zap.Error(err))
			}
		}
	}

	s.logger.Info("Lesson reminders processed",
		zap.Int("scanned", report.Scanned),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))

	return report, nil
}

// logUpcoming выводит ближайшие уроки, когда окно пустое: помогает заметить
// расхождение часовых поясов между БД и сервером
func (s *ReminderService) logUpcoming(ctx context.Context, now time.Time) {
	upcoming, err := s.lessons.ListUpcoming(ctx, now, now.Add(diagnosticHorizon), diagnosticLimit)
	if err != nil {
		s.logger.Warn("Failed to list upcoming lessons", zap.Error(err))
		return
	}

	if len(upcoming) == 0 {
		s.logger.Debug("No lessons in the next two hours")
		return
	}

	for _, lesson := range upcoming {
		s.logger.Debug("Upcoming lesson outside reminder window",
			zap.String("lesson_id", lesson.ID.String()),
			zap.String("name", lesson.Name),
			zap.Time("start_time", lesson.StartTime))
	}
}

// ReminderText собирает текст напоминания (ParseModeMarkdown)
func ReminderText(lesson *model.Lesson, loc *time.Location) string {
	name := lesson.Name
	if name == "" {
		name = "Занятие"
	}

	link := "Онлайн"
	if lesson.MeetURL != nil && *lesson.MeetURL != "" {
		link = *lesson.MeetURL
	}

	teacherLine := ""
	if lesson.Teacher != nil && lesson.Teacher.FullName != "" {
		teacherLine = fmt.Sprintf("👨‍🏫 *Учитель:* %s\n", formatting.EscapeMarkdown(lesson.Teacher.FullName))
	}

	return fmt.Sprintf(
		"🔔 *Напоминание о занятии!*\n\n"+
			"📚 *Предмет:* %s\n"+
			"%s"+
			"⏰ *Время:* %s\n"+
			"📍 *Ссылка:* %s\n\n"+
			"Пожалуйста, не опаздывайте!",
		formatting.EscapeMarkdown(name),
		teacherLine,
		formatting.FormatTime(lesson.StartTime, loc),
		formatting.EscapeMarkdown(link),
	)
}
