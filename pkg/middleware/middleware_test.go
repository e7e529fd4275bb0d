package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 2)
	limiter.now = func() time.Time { return now }
	handler := limiter.Middleware(okHandler())

	send := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sessions/s1/bids", nil)
		req.Header.Set(UserIDHeader, user)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Burst Then Limited", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send("alice").Code)
		assert.Equal(t, http.StatusOK, send("alice").Code)

		rr := send("alice")
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	})

	t.Run("Keys Are Independent", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send("bob").Code)
	})

	t.Run("Refills Over Time", func(t *testing.T) {
		now = now.Add(time.Second)
		assert.Equal(t, http.StatusOK, send("alice").Code)
	})
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	NewStructuredLogger(logger)(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions", nil))
	NewStructuredLogger(logger)(failing).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ledger", nil))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))

	assert.Equal(t, "request completed", first["msg"])
	assert.Equal(t, "server error", second["msg"])
	assert.Equal(t, "/ledger", second["request"].(map[string]any)["path"])
}
