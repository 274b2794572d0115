package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pendergraft/framemint/internal/frame/domain"
	"github.com/pendergraft/framemint/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://frames.example.com"

// mockService implements Service for testing
type mockService struct {
	catalog   *views.Catalog
	refreshed string
	submitted *domain.Packet
}

func (m *mockService) Reload(ctx context.Context) domain.Result {
	return domain.Result{View: m.catalog.Initial()}
}

func (m *mockService) Refresh(ctx context.Context, actionID string) domain.Result {
	m.refreshed = actionID
	return domain.Result{View: m.catalog.Pending(actionID)}
}

func (m *mockService) Submit(ctx context.Context, p domain.Packet) domain.Result {
	m.submitted = &p
	return domain.Result{View: m.catalog.InitialSuccess(true, "8a3f1c2e-4b5d-4e6f-8a9b-0c1d2e3f4a5b")}
}

func setupRouter() (*chi.Mux, *mockService) {
	catalog := views.NewCatalog(testURL, "staging", nil)
	svc := &mockService{catalog: catalog}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	NewHandler(svc, catalog, logger).RegisterRoutes(r)
	return r, svc
}

func TestHandleFrame_Reload(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/frame?action=reload", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `content="`+testURL+`/nft.jpg"`)
}

func TestHandleFrame_Refresh(t *testing.T) {
	r, svc := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/frame?action=refresh&actionId=X", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "X", svc.refreshed)
	assert.Contains(t, rec.Body.String(), "action=refresh&amp;actionId=X")
}

func TestHandleFrame_Submit(t *testing.T) {
	r, svc := setupRouter()

	body := `{
		"untrustedData": {"fid": 42, "buttonIndex": 1, "inputText": "alice@example.com", "castId": {"fid": 1, "hash": "0x01"}},
		"trustedData": {"messageBytes": "0a4f0801"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/frame", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.submitted)
	assert.Equal(t, domain.Packet{
		FID:          42,
		ButtonIndex:  1,
		InputText:    "alice@example.com",
		MessageBytes: "0a4f0801",
	}, *svc.submitted)
	assert.Contains(t, rec.Body.String(), "View your NFT on Crossmint")
}

func TestHandleFrame_InvalidBody(t *testing.T) {
	tests := map[string]string{
		"not json":        "{",
		"non-hex message": `{"trustedData": {"messageBytes": "zz"}}`,
		"negative button": `{"untrustedData": {"buttonIndex": -1}}`,
		"oversized input": `{"untrustedData": {"inputText": "` + strings.Repeat("a", 300) + `"}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			r, svc := setupRouter()

			req := httptest.NewRequest(http.MethodPost, "/api/frame", strings.NewReader(body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Nil(t, svc.submitted)
			assert.Contains(t, rec.Body.String(), testURL+"/error.jpg")
		})
	}
}

func TestHandleIndex(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `<meta property="og:title" content="Mint this NFT" />`)
	assert.Contains(t, out, `<meta property="fc:frame:post_url" content="`+testURL+`/api/frame" />`)
	assert.Contains(t, out, "<h1>Mint this NFT</h1>")
}

func TestFrameRequest_ToDomain(t *testing.T) {
	req := FrameRequest{
		UntrustedData: UntrustedData{FID: 7, ButtonIndex: 4, InputText: "bonfida.sol"},
		TrustedData:   TrustedData{MessageBytes: "abcd"},
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, domain.Packet{FID: 7, ButtonIndex: 4, InputText: "bonfida.sol", MessageBytes: "abcd"}, req.ToDomain())
}
