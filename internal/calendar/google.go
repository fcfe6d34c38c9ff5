package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const primaryCalendar = "primary"

// GoogleConfig описывает OAuth-клиент приложения и параметры событий
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TimeZone     string
	Timeout      time.Duration
}

// GoogleClient создаётся один раз при старте и передаётся в сервис.
// Токен-сорс строится на каждый вызов из токенов конкретного учителя.
type GoogleClient struct {
	oauth    *oauth2.Config
	timeZone string
	timeout  time.Duration
	opts     []option.ClientOption
	logger   *zap.Logger
}

// NewGoogleClient создаёт клиент Google Calendar.
// Дополнительные option.ClientOption добавляются к каждому сервису (например, WithEndpoint в тестах).
func NewGoogleClient(cfg GoogleConfig, logger *zap.Logger, opts ...option.ClientOption) *GoogleClient {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		logger.Warn("Google OAuth client is not configured, expired calendar tokens will not be refreshed")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GoogleClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcal.CalendarEventsScope},
		},
		timeZone: cfg.TimeZone,
		timeout:  timeout,
		opts:     opts,
		logger:   logger,
	}
}

// CreateEvent создаёт событие с Google Meet конференцией
func (c *GoogleClient) CreateEvent(ctx context.Context, creds Credentials, in EventInput) (*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	srv, err := c.service(ctx, creds)
	if err != nil {
		return nil, classify("create event", err)
	}

	event := &gcal.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       c.eventTime(in.Start),
		End:         c.eventTime(in.End),
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 24 * 60}, // за сутки
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := srv.Events.Insert(primaryCalendar, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("create event", err)
	}

	c.logger.Debug("Calendar event created",
		zap.String("event_id", created.Id),
		zap.String("meet_url", created.HangoutLink),
	)

	return &Event{ID: created.Id, MeetURL: created.HangoutLink}, nil
}

// PatchEvent изменяет время и/или описание события
func (c *GoogleClient) PatchEvent(ctx context.Context, creds Credentials, eventID string, patch EventPatch) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	srv, err := c.service(ctx, creds)
	if err != nil {
		return classify("patch event", err)
	}

	event := &gcal.Event{}
	if patch.Start != nil {
		event.Start = c.eventTime(*patch.Start)
	}
	if patch.End != nil {
		event.End = c.eventTime(*patch.End)
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}

	if _, err := srv.Events.Patch(primaryCalendar, eventID, event).Context(ctx).Do(); err != nil {
		return classify("patch event", err)
	}

	return nil
}

// DeleteEvent удаляет событие
func (c *GoogleClient) DeleteEvent(ctx context.Context, creds Credentials, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	srv, err := c.service(ctx, creds)
	if err != nil {
		return classify("delete event", err)
	}

	if err := srv.Events.Delete(primaryCalendar, eventID).Context(ctx).Do(); err != nil {
		return classify("delete event", err)
	}

	return nil
}

func (c *GoogleClient) service(ctx context.Context, creds Credentials) (*gcal.Service, error) {
	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
	}

	opts := append([]option.ClientOption{option.WithTokenSource(c.oauth.TokenSource(ctx, token))}, c.opts...)

	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("new calendar service: %w", err)
	}

	return srv, nil
}

func (c *GoogleClient) eventTime(t time.Time) *gcal.EventDateTime {
	return &gcal.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: c.timeZone,
	}
}
