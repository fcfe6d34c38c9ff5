// Package calendar keeps lessons mirrored as Google Calendar events.
package calendar

import (
	"context"
	"time"
)

// Credentials is the teacher's stored OAuth token pair.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// EventPatch changes only the non-nil fields. Start and End are sent together.
type EventPatch struct {
	Start       *time.Time
	End         *time.Time
	Description *string
}

type Event struct {
	ID      string
	MeetURL string
}

// Client is the contract the lesson service needs from a calendar provider.
type Client interface {
	CreateEvent(ctx context.Context, creds Credentials, in EventInput) (*Event, error)
	PatchEvent(ctx context.Context, creds Credentials, eventID string, patch EventPatch) error
	DeleteEvent(ctx context.Context, creds Credentials, eventID string) error
}
