package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/lesson_scheduler/internal/model"
	"go.uber.org/zap"
)

// LessonReader - выборки, которые бот показывает пользователю
type LessonReader interface {
	ListAvailable(ctx context.Context) ([]*model.Lesson, error)
	ListForTelegramUser(ctx context.Context, telegramID int64) (*model.Student, []*model.Lesson, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	lessons  LessonReader
	location *time.Location
	logger   *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(lessons LessonReader, location *time.Location, logger *zap.Logger) *Handlers {
	if location == nil {
		location = time.UTC
	}

	return &Handlers{
		lessons:  lessons,
		location: location,
		logger:   logger,
	}
}
