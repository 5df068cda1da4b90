package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
)

// Livez: процесс жив.
func Livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Healthz проверяет доступность базы. checker может быть nil.
func Healthz(checker ports.HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				logger.Error("health check failed", "error", err)
				respondWithError(w, http.StatusServiceUnavailable, "database unavailable", logger)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
