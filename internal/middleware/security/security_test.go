package security

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuspicious(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"/api/frame?action=reload", false},
		{"/nft.jpg", false},
		{"/", false},
		{"/healthz", false},
		{"/.env", true},
		{"/.git/config", true},
		{"/WP-LOGIN.php", true},
		{"/static/../../etc/passwd", true},
		{"/static/..%2f..%2fetc/passwd", true},
		{"/static/%2e%2e/secret", true},
		{"/nft.jpg%00.php", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Suspicious(u))
		})
	}
}

func TestFilter(t *testing.T) {
	h := Filter(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/frame", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wp-admin/install.php", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/frame", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD, POST, OPTIONS", rec.Header().Get("Allow"))
}

func TestFilter_Disabled(t *testing.T) {
	h := Filter(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/.env", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLimitBody(t *testing.T) {
	var readErr error
	h := LimitBody(1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/frame", strings.NewReader(strings.Repeat("a", 512))))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, readErr)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/frame", strings.NewReader(strings.Repeat("a", 2048))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	// unknown length is caught while reading
	req := httptest.NewRequest(http.MethodPost, "/api/frame", io.NopCloser(strings.NewReader(strings.Repeat("a", 2048))))
	req.ContentLength = -1
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Error(t, readErr)
}
