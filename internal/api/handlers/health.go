package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger проверяет доступность БД (pgxpool.Pool)
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse - ответ health check
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck возвращает 503, если БД недоступна
func HealthCheck(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbConnected := db.Ping(ctx) == nil

		status := "healthy"
		code := http.StatusOK
		if !dbConnected {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		})
	}
}
