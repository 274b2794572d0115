package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func post(h http.Handler, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_LimitsPerClient(t *testing.T) {
	l := New(Config{RequestsPerMin: 60, BurstSize: 2, Exempt: []string{"/healthz"}})
	defer l.Stop()
	h := l.Handler(http.HandlerFunc(ok))

	assert.Equal(t, http.StatusOK, post(h, "/api/frame", "1.1.1.1:1").Code)
	assert.Equal(t, http.StatusOK, post(h, "/api/frame", "1.1.1.1:2").Code)

	rec := post(h, "/api/frame", "1.1.1.1:3")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, post(h, "/api/frame", "2.2.2.2:1").Code)
	// exempt paths always pass
	assert.Equal(t, http.StatusOK, post(h, "/healthz", "1.1.1.1:4").Code)
}

func TestPrune(t *testing.T) {
	l := New(Config{RequestsPerMin: 60, BurstSize: 1, CleanupMinutes: 5})
	defer l.Stop()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(4 * time.Minute)
	l.Allow("new")
	now = now.Add(2 * time.Minute)
	l.prune()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.visitors, "old")
	assert.Contains(t, l.visitors, "new")
}

func TestMiddleware_Disabled(t *testing.T) {
	mw, stop := Middleware(Config{Enabled: false, RequestsPerMin: 1, BurstSize: 1})
	defer stop()
	h := mw(http.HandlerFunc(ok))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, post(h, "/api/frame", "1.1.1.1:1").Code)
	}
}

func TestStop_Idempotent(t *testing.T) {
	l := New(Config{RequestsPerMin: 60, BurstSize: 1})
	l.Stop()
	assert.NotPanics(t, l.Stop)
}
