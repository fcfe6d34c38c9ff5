package model

import (
	"time"

	"github.com/google/uuid"
)

// Teacher is owned by the account subsystem; this service only reads it.
type Teacher struct {
	ID                 uuid.UUID `json:"id"`
	FullName           string    `json:"full_name"`
	GoogleAccessToken  *string   `json:"-"`
	GoogleRefreshToken *string   `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}

// HasCalendar reports whether the teacher has linked Google Calendar.
func (t *Teacher) HasCalendar() bool {
	return t.GoogleAccessToken != nil && *t.GoogleAccessToken != "" &&
		t.GoogleRefreshToken != nil && *t.GoogleRefreshToken != ""
}
