// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// ErrorResponse - единый формат ошибки API
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// WriteError пишет JSON-ошибку с указанным статусом
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteErrorWithDetails(w, status, errCode, message, nil)
}

// WriteErrorWithDetails добавляет детали (например, ошибки полей)
func WriteErrorWithDetails(w http.ResponseWriter, status int, errCode, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
		Details: details,
	})
}

// Recovery перехватывает панику в обработчике и отвечает 500
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("Panic recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()))
					WriteError(w, http.StatusInternalServerError, ErrInternalError, "An unexpected error occurred")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Коды ошибок
const (
	ErrNotFound            = "not_found"
	ErrBadRequest          = "bad_request"
	ErrConflict            = "conflict"
	ErrInternalError       = "internal_error"
	ErrValidation          = "validation_error"
	ErrForbidden           = "forbidden"
	ErrCalendarAuthExpired = "calendar_auth_expired"
	ErrCalendarForbidden   = "calendar_forbidden"
	ErrCalendarNotLinked   = "calendar_not_linked"
	ErrCalendarSync        = "calendar_sync_failed"
)
