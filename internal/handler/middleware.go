package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/TravelAlbum/internal/usecase"
)

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// RequireAuth — middleware, пропускающее только запросы с валидным
// bearer-токеном администратора.
func RequireAuth(authUC usecase.AuthUseCase, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respondWithError(w, http.StatusUnauthorized, "unauthenticated", logger)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if err := authUC.VerifyToken(token); err != nil {
				logger.Warn("invalid or expired token", "error", err)
				respondWithError(w, http.StatusUnauthorized, "invalid or expired token", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
