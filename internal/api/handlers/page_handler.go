package handlers

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
	"github.com/zatekoja/premier-landing/backend/internal/web"
	apperrors "github.com/zatekoja/premier-landing/backend/pkg/errors"
)

// PageRenderer renders the landing page
type PageRenderer interface {
	RenderPage(w io.Writer, view web.PageView) error
}

// PageHandler serves the landing page for the caller's session
type PageHandler struct {
	renderer PageRenderer
	content  *entities.PageContent
	now      func() time.Time
}

// NewPageHandler creates a page handler. now supplies the date the date
// inputs start from.
func NewPageHandler(renderer PageRenderer, content *entities.PageContent, now func() time.Time) *PageHandler {
	if now == nil {
		now = time.Now
	}
	return &PageHandler{
		renderer: renderer,
		content:  content,
		now:      now,
	}
}

// Index handles GET /{$}. The tab query parameter picks the initial tab.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := session.Load(r.URL.RequestURI()); err != nil {
		respondWithAppError(w, r, apperrors.NewInternalError("failed to initialize tabs", err))
		return
	}

	view := web.NewPageView(h.content, web.PageInput{
		Tabs:       session.Tabs.State(),
		Snapshots:  sessionSnapshots(session),
		CTA:        session.CTA.Options(),
		CTAVisible: session.CTA.Visible(),
		Now:        h.now(),
	})

	var buf bytes.Buffer
	if err := h.renderer.RenderPage(&buf, view); err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
