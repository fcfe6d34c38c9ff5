package handlers

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/lesson_scheduler/internal/api/middleware"
	"github.com/Freeeeeet/lesson_scheduler/internal/service"
	"go.uber.org/zap"
)

// errorMapping - сопоставление ошибки сервиса со статусом и кодом ответа.
// Порядок важен: первое совпадение по errors.Is выигрывает.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrCalendarAuthExpired, http.StatusUnauthorized, middleware.ErrCalendarAuthExpired},
	{service.ErrCalendarForbidden, http.StatusForbidden, middleware.ErrCalendarForbidden},
	{service.ErrCalendarNotLinked, http.StatusBadRequest, middleware.ErrCalendarNotLinked},
	{service.ErrCalendarSyncFailed, http.StatusBadGateway, middleware.ErrCalendarSync},
	{service.ErrInvalidWindow, http.StatusBadRequest, middleware.ErrValidation},
	{service.ErrValidation, http.StatusBadRequest, middleware.ErrValidation},
	{service.ErrNotBookable, http.StatusBadRequest, middleware.ErrBadRequest},
	{service.ErrAlreadyCompleted, http.StatusBadRequest, middleware.ErrBadRequest},
	{service.ErrNotFound, http.StatusNotFound, middleware.ErrNotFound},
	{service.ErrForbidden, http.StatusForbidden, middleware.ErrForbidden},
	{service.ErrSchedulingConflict, http.StatusConflict, middleware.ErrConflict},
	{service.ErrAlreadyBooked, http.StatusConflict, middleware.ErrConflict},
}

// writeServiceError переводит ошибку сервиса в HTTP-ответ.
// Неизвестные ошибки логируются, клиенту уходит только общий текст.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			middleware.WriteError(w, m.status, m.code, err.Error())
			return
		}
	}

	logger.Error("Request failed", zap.Error(err))
	middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "An unexpected error occurred")
}
