package calendar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// Kind categorises a calendar provider failure.
type Kind int

const (
	KindUnknown     Kind = iota
	KindAuthExpired      // credential expired or revoked
	KindForbidden        // insufficient scope
	KindTransient        // network or rate limit, safe to retry
)

func (k Kind) String() string {
	switch k {
	case KindAuthExpired:
		return "auth_expired"
	case KindForbidden:
		return "forbidden"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("calendar %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the category of err, KindUnknown if err is not a calendar error.
func KindOf(err error) Kind {
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Kind
	}
	return KindUnknown
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var cErr *Error
	if errors.As(err, &cErr) {
		return err
	}

	return &Error{Op: op, Kind: kindFor(err), Err: err}
}

func kindFor(err error) Kind {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch {
		case gErr.Code == http.StatusUnauthorized:
			return KindAuthExpired
		case gErr.Code == http.StatusForbidden:
			// Google отдаёт 403 и для превышения квоты
			for _, item := range gErr.Errors {
				if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
					return KindTransient
				}
			}
			return KindForbidden
		case gErr.Code == http.StatusTooManyRequests, gErr.Code >= http.StatusInternalServerError:
			return KindTransient
		}
		return KindUnknown
	}

	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		return KindAuthExpired
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransient
	}

	return KindUnknown
}
