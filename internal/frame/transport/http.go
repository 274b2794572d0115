package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pendergraft/framemint/internal/frame/domain"
	"github.com/pendergraft/framemint/internal/observability/metrics"
	"github.com/pendergraft/framemint/internal/views"
)

// Service defines the frame controller interface for HTTP transport.
type Service interface {
	Reload(ctx context.Context) domain.Result
	Refresh(ctx context.Context, actionID string) domain.Result
	Submit(ctx context.Context, p domain.Packet) domain.Result
}

// Handler handles HTTP requests for frames.
type Handler struct {
	svc     Service
	catalog *views.Catalog
	logger  *slog.Logger
}

// NewHandler creates a new frame HTTP handler.
func NewHandler(svc Service, catalog *views.Catalog, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, catalog: catalog, logger: logger}
}

// RegisterRoutes registers the frame endpoint and the landing page.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Post(views.FramePath, h.handleFrame)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.write(w, func(buf *bytes.Buffer) error {
		return views.RenderPage(buf, views.Page{
			Frame:       h.catalog.Initial(),
			Description: "Mint an NFT to an email or wallet on Base, Optimism, Polygon or Solana",
			Heading:     "Mint this NFT",
		})
	})
}

func (h *Handler) handleFrame(w http.ResponseWriter, r *http.Request) {
	action := domain.ParseAction(r.URL.Query().Get("action"))

	var res domain.Result
	switch action {
	case domain.ActionReload:
		res = h.svc.Reload(r.Context())
	case domain.ActionRefresh:
		res = h.svc.Refresh(r.Context(), r.URL.Query().Get("actionId"))
	default:
		var req FrameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("invalid frame body", "error", err)
			res = domain.Result{View: h.catalog.UnknownError(), Err: err}
			break
		}
		if err := req.Validate(); err != nil {
			h.logger.Warn("invalid frame body", "error", err)
			res = domain.Result{View: h.catalog.UnknownError(), Err: err}
			break
		}
		res = h.svc.Submit(r.Context(), req.ToDomain())
	}

	metrics.FrameAction(action.String(), string(res.View.Name))
	h.write(w, func(buf *bytes.Buffer) error {
		return views.Render(buf, res.View)
	})
}

// write buffers the rendered document before writing headers.
func (h *Handler) write(w http.ResponseWriter, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.logger.Error("rendering frame", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
