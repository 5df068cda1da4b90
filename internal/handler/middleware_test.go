package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func newTokens(t *testing.T, now func() time.Time) *auth.TokenManager {
	t.Helper()
	m, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:   "test-secret",
		Issuer:   "library-api",
		Audience: "library-client",
		TTL:      time.Hour,
	}, auth.WithClock(now))
	require.NoError(t, err)
	return m
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Message
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	tokens := newTokens(t, time.Now)
	valid, err := tokens.Issue(&domain.User{ID: 7, Name: "Ann", Email: "ann@x.com"})
	require.NoError(t, err)

	var gotSubject string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = auth.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	h := Authenticate(tokens, logger.Discard())(next)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusTeapot},
		{"valid lower-case scheme", "bearer " + valid, http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSubject = ""
			req := httptest.NewRequest(http.MethodGet, "/book/getAllBooks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			require.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusUnauthorized {
				require.Contains(t, rr.Header().Get("WWW-Authenticate"), "Bearer")
				require.NotEmpty(t, decodeMessage(t, rr))
				require.Empty(t, gotSubject)
			} else {
				require.Equal(t, "7", gotSubject)
			}
		})
	}
}

func TestAuthenticate_Expired(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens := newTokens(t, func() time.Time { return now })

	tok, err := tokens.Issue(&domain.User{ID: 1})
	require.NoError(t, err)

	called := false
	h := Authenticate(tokens, logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	now = now.Add(2 * time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.False(t, called)
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logger.NewSlog(logger.SlogConfig{Level: "debug", Format: "json", Output: &buf})

	h := middleware.RequestID(RequestLogger(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotNil(t, loggerFrom(r.Context(), nil))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("abc"))
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/book/addBook", nil))
	require.Equal(t, http.StatusCreated, rr.Code)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "http request", rec["msg"])
	require.EqualValues(t, 201, rec["status"])
	require.EqualValues(t, 3, rec["bytes"])
	require.Equal(t, "/book/addBook", rec["path"])
	require.NotEmpty(t, rec["request_id"])
	require.Contains(t, rec, "duration_ms")
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	l := NewIPRateLimiter(1, 2, time.Minute)
	h := RateLimit(l, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
	require.Equal(t, http.StatusOK, do("10.0.0.1:1001"))
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1002"))
	// у другого IP своя корзина
	require.Equal(t, http.StatusOK, do("10.0.0.2:1000"))
}

func TestIPRateLimiter_Disabled(t *testing.T) {
	t.Parallel()
	l := NewIPRateLimiter(0, 0, time.Minute)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("k"))
	}
}

func TestIPRateLimiter_EvictsStale(t *testing.T) {
	t.Parallel()
	now := time.Now()
	l := NewIPRateLimiter(1, 1, time.Minute)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("a"))
	now = now.Add(2 * time.Minute)
	require.True(t, l.Allow("b"))

	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotContains(t, l.entries, "a")
	require.Contains(t, l.entries, "b")
}

func TestBearerToken(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := bearerToken(req)
	require.False(t, ok)

	req.Header.Set("Authorization", "  Bearer   tok  ")
	tok, ok := bearerToken(req)
	require.True(t, ok)
	require.Equal(t, "tok", tok)
}
