//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pendergraft/framemint/internal/config"
	"github.com/pendergraft/framemint/internal/server"
)

// fakeCrossmint is an in-memory stand-in for the Crossmint minting API.
type fakeCrossmint struct {
	mu       sync.Mutex
	mints    []recordedMint
	statuses map[string]map[string]any
	mintResp map[string]any
}

type recordedMint struct {
	Path   string
	APIKey string
	Body   map[string]any
}

func (f *fakeCrossmint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/nfts"):
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.mints = append(f.mints, recordedMint{Path: r.URL.Path, APIKey: r.Header.Get("X-API-Key"), Body: body})
		json.NewEncoder(w).Encode(f.mintResp)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/2022-06-09/actions/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/2022-06-09/actions/")
		status, ok := f.statuses[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"error": true, "message": "not found"})
			return
		}
		json.NewEncoder(w).Encode(status)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// fakeNeynar validates only the messages registered through signed.
type fakeNeynar struct {
	mu      sync.Mutex
	actions map[string]map[string]any
	seen    []string
}

func (f *fakeNeynar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var req struct {
		MessageBytesInHex string `json:"message_bytes_in_hex"`
	}
	json.NewDecoder(r.Body).Decode(&req)
	f.seen = append(f.seen, r.Header.Get("api_key")+"/"+req.MessageBytesInHex)

	action, ok := f.actions[req.MessageBytesInHex]
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"valid": ok, "action": action})
}

type testEnv struct {
	Server    *httptest.Server
	Crossmint *fakeCrossmint
	Neynar    *fakeNeynar
}

// setup starts fake upstreams and a framemint server wired through the
// production configuration path.
func setup(t *testing.T) *testEnv {
	t.Helper()

	cm := &fakeCrossmint{
		statuses: map[string]map[string]any{},
		mintResp: map[string]any{"actionId": actionID, "data": map[string]any{"chain": "base-sepolia"}},
	}
	ny := &fakeNeynar{actions: map[string]map[string]any{}}
	cmServer := httptest.NewServer(cm)
	nyServer := httptest.NewServer(ny)
	t.Cleanup(cmServer.Close)
	t.Cleanup(nyServer.Close)

	t.Setenv("PUBLIC_URL", publicURL)
	t.Setenv("CROSSMINT_API_KEY", "sk_e2e")
	t.Setenv("CROSSMINT_BASE_URL", cmServer.URL+"/api/2022-06-09")
	t.Setenv("CROSSMINT_COLLECTION_BASE", "col-base")
	t.Setenv("CROSSMINT_TEMPLATE_BASE", "tpl-base")
	t.Setenv("CROSSMINT_COLLECTION_SOLANA", "col-sol")
	t.Setenv("CROSSMINT_TEMPLATE_SOLANA", "tpl-sol")
	t.Setenv("NEYNAR_API_KEY", "ny_e2e")
	t.Setenv("NEYNAR_BASE_URL", nyServer.URL)
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collab, err := server.NewCollaborators(context.Background(), cfg, logger)
	require.NoError(t, err)
	srv, err := server.New(cfg, collab, logger)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{Server: ts, Crossmint: cm, Neynar: ny}
}

// signed registers a validated action for a message and returns the body
// a Farcaster client would post for it.
func (e *testEnv) signed(messageHex string, button int, input string) string {
	e.Neynar.mu.Lock()
	e.Neynar.actions[messageHex] = map[string]any{
		"interactor":    map[string]any{"fid": 3},
		"tapped_button": map[string]any{"index": button},
		"input":         map[string]any{"text": input},
	}
	e.Neynar.mu.Unlock()

	body, _ := json.Marshal(map[string]any{
		"untrustedData": map[string]any{"fid": 3, "buttonIndex": button, "inputText": input},
		"trustedData":   map[string]any{"messageBytes": messageHex},
	})
	return string(body)
}

func (e *testEnv) post(t *testing.T, query, body string) string {
	t.Helper()
	resp, err := http.Post(e.Server.URL+"/api/frame"+query, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(out)
}
