package handlers

import (
	"net/http"

	"github.com/zatekoja/premier-landing/backend/internal/application/visibility"
	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

// CTAHandler reports and drives the floating call-to-action
type CTAHandler struct{}

// NewCTAHandler creates a CTA handler
func NewCTAHandler() *CTAHandler {
	return &CTAHandler{}
}

// visibilityRequest carries either the browser's own intersection result or
// the raw geometry to compute it from
type visibilityRequest struct {
	IsIntersecting *bool                `json:"isIntersecting"`
	Geometry       *visibility.Geometry `json:"geometry"`
}

type ctaStateResponse struct {
	Visible bool               `json:"visible"`
	Options visibility.Options `json:"options"`
}

type jumpResponse struct {
	Scroll    visibility.ScrollTarget `json:"scroll"`
	ActiveTab entities.TabID          `json:"active_tab"`
	URL       string                  `json:"url"`
}

// GetCTA handles GET /api/cta
func (h *CTAHandler) GetCTA(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, ctaStateResponse{
		Visible: session.CTA.Visible(),
		Options: session.CTA.Options(),
	})
}

// ReportVisibility handles POST /api/cta/visibility
func (h *CTAHandler) ReportVisibility(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req visibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var visible bool
	switch {
	case req.IsIntersecting != nil:
		visible = session.CTA.Observe(*req.IsIntersecting)
	case req.Geometry != nil:
		v, err := session.CTA.Evaluate(*req.Geometry)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		visible = v
	default:
		respondWithError(w, http.StatusBadRequest, "isIntersecting or geometry is required")
		return
	}

	respondWithJSON(w, http.StatusOK, ctaStateResponse{
		Visible: visible,
		Options: session.CTA.Options(),
	})
}

// Jump handles POST /api/cta/jump: it selects the CTA's tab and tells the page
// where to scroll.
func (h *CTAHandler) Jump(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	target, err := session.CTA.JumpToAnchor()
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, jumpResponse{
		Scroll:    target,
		ActiveTab: session.Tabs.Active(),
		URL:       session.Tabs.URL(),
	})
}
