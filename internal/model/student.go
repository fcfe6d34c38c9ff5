package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	TelegramID *int64    `json:"telegram_id"` // nil - напоминания не отправляются
	CreatedAt  time.Time `json:"created_at"`
}

// FullName возвращает имя и фамилию через пробел
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// HasTelegram проверяет есть ли у студента Telegram для напоминаний
func (s *Student) HasTelegram() bool {
	return s.TelegramID != nil && *s.TelegramID != 0
}
