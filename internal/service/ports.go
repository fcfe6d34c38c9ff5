package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/lesson_scheduler/internal/model"
	"github.com/google/uuid"
)

// LessonStore реализуется repository.LessonRepository
type LessonStore interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Lesson, error)
	TeacherHasLessonAt(ctx context.Context, teacherID uuid.UUID, start time.Time, exclude *uuid.UUID) (bool, error)
	StudentHasLessonAt(ctx context.Context, studentID uuid.UUID, start time.Time, exclude *uuid.UUID) (bool, error)
	ListByStatus(ctx context.Context, status model.LessonStatus) ([]*model.Lesson, error)
	ListByTeacherID(ctx context.Context, teacherID uuid.UUID) ([]*model.Lesson, error)
	ListByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Lesson, error)
	Book(ctx context.Context, lessonID, studentID uuid.UUID, bookedAt time.Time) error
	// Update пишет lesson, только если статус и студент не изменились с момента чтения read
	Update(ctx context.Context, lesson *model.Lesson, read *model.Lesson) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReminderStore - выборки для задачи напоминаний
type ReminderStore interface {
	ListStartingBetween(ctx context.Context, from, to time.Time, skipReminded bool) ([]*model.Lesson, error)
	ListUpcoming(ctx context.Context, from, to time.Time, limit int) ([]*model.Lesson, error)
	MarkReminded(ctx context.Context, lessonID uuid.UUID, at time.Time) error
}

type HistoryStore interface {
	Create(ctx context.Context, history *model.LessonHistory) error
}

type TeacherReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error)
}

type StudentReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error)
}

// Transactor выполняет fn атомарно: все записи внутри коммитятся вместе или не коммитятся вовсе
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Messenger доставляет текст в чат студента
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string) error
}
