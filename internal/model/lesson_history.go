package model

import (
	"time"

	"github.com/google/uuid"
)

// Значения по умолчанию для архивной записи
const (
	DefaultStar     = 5
	DefaultFeedback = "feedback mavjud emas"
)

// LessonHistory is the immutable archive record written when a lesson is completed.
type LessonHistory struct {
	ID        uuid.UUID  `json:"id"`
	LessonID  uuid.UUID  `json:"lesson_id"`
	Star      int        `json:"star"`
	Feedback  string     `json:"feedback"`
	TeacherID uuid.UUID  `json:"teacher_id"`
	StudentID *uuid.UUID `json:"student_id"`
	CreatedAt time.Time  `json:"created_at"`
}
