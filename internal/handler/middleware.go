package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/go-chi/chi/v5/middleware"
)

type loggerKey struct{}

// loggerFrom возвращает логгер запроса, положенный RequestLogger, или fallback.
func loggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return fallback
}

func withLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// RequestLogger: middleware для логирования HTTP-запросов.
// Кладёт в контекст логгер с request_id, его используют хендлеры.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.With(
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), reqLogger)))

			level := slog.LevelInfo
			if ww.statusCode >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			reqLogger.Log(r.Context(), level, "http request",
				"status", ww.statusCode,
				"bytes", ww.bytes,
				"remote_ip", clientIP(r),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа и размер тела
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	bytes       int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// TokenVerifier проверяет bearer-токен.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// bearerToken достаёт токен из заголовка Authorization: Bearer <token>.
func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

// Authenticate: шлюз для защищённых маршрутов: без валидного токена запрос
// не доходит до хендлера и получает 401.
func Authenticate(verifier TokenVerifier, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := loggerFrom(r.Context(), logger)

			tok, ok := bearerToken(r)
			if !ok {
				reqLogger.Warn("missing bearer token")
				unauthorized(w, "invalid_request", "Authorization header with Bearer token is required", reqLogger)
				return
			}

			claims, err := verifier.Verify(tok)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = "expired"
				}
				reqLogger.Warn("token rejected", "reason", reason, "error", err)
				unauthorized(w, "invalid_token", "Invalid or expired token", reqLogger)
				return
			}

			ctx := auth.WithClaims(r.Context(), claims)
			ctx = withLogger(ctx, reqLogger.With("user_id", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, code, message string, logger *slog.Logger) {
	w.Header().Set("WWW-Authenticate", `Bearer error="`+code+`"`)
	respondWithError(w, http.StatusUnauthorized, message, logger)
}
