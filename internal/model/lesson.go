package model

import (
	"time"

	"github.com/google/uuid"
)

type LessonStatus string

const (
	LessonStatusAvailable LessonStatus = "available" // Опубликован учителем, свободен
	LessonStatusBooked    LessonStatus = "booked"    // Занят студентом
	LessonStatusCompleted LessonStatus = "completed" // Завершён (строка уходит в историю)
)

// Valid проверяет что статус входит в перечисление
func (s LessonStatus) Valid() bool {
	switch s {
	case LessonStatusAvailable, LessonStatusBooked, LessonStatusCompleted:
		return true
	}
	return false
}

type Lesson struct {
	ID              uuid.UUID    `json:"id"`
	Name            string       `json:"name"`
	StartTime       time.Time    `json:"start_time"`
	EndTime         time.Time    `json:"end_time"`
	Price           int64        `json:"price"` // в минимальных единицах валюты
	IsPaid          bool         `json:"is_paid"`
	Status          LessonStatus `json:"status"`
	TeacherID       uuid.UUID    `json:"teacher_id"`
	StudentID       *uuid.UUID   `json:"student_id"` // nil пока урок не забронирован
	BookedAt        *time.Time   `json:"booked_at"`
	MeetURL         *string      `json:"meet_url"`
	CalendarEventID *string      `json:"calendar_event_id"`
	RemindedAt      *time.Time   `json:"reminded_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Teacher *Teacher `json:"teacher,omitempty"`
	Student *Student `json:"student,omitempty"`
}

// IsBooked проверяет занят ли урок студентом
func (l *Lesson) IsBooked() bool {
	return l.StudentID != nil
}

// HasCalendarEvent проверяет привязан ли урок к событию календаря
func (l *Lesson) HasCalendarEvent() bool {
	return l.CalendarEventID != nil && *l.CalendarEventID != ""
}
