package handlers

import (
	"net/http"

	"github.com/zatekoja/premier-landing/backend/internal/application/tabs"
	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

// TabHandler drives the caller's tab coordinator
type TabHandler struct{}

// NewTabHandler creates a tab handler
func NewTabHandler() *TabHandler {
	return &TabHandler{}
}

type tabStateResponse struct {
	entities.TabState
	URL string `json:"url"`
}

type selectTabRequest struct {
	ID entities.TabID `json:"id"`
}

type moveFocusRequest struct {
	Current   entities.TabID `json:"current"`
	Direction tabs.Direction `json:"direction"`
	Key       string         `json:"key"`
}

// GetTabs handles GET /api/tabs
func (h *TabHandler) GetTabs(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, tabStateResponse{
		TabState: session.Tabs.State(),
		URL:      session.Tabs.URL(),
	})
}

// SelectTab handles PUT /api/tabs/active
func (h *TabHandler) SelectTab(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req selectTabRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := session.Tabs.Select(req.ID); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tabStateResponse{
		TabState: session.Tabs.State(),
		URL:      session.Tabs.URL(),
	})
}

// MoveFocus handles POST /api/tabs/move. The movement is given either as a
// direction or as the name of the pressed key. The neighbour is selected and
// the response names the control to focus.
func (h *TabHandler) MoveFocus(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req moveFocusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	direction := req.Direction
	if direction == "" {
		d, known := tabs.DirectionForKey(req.Key)
		if !known {
			respondWithError(w, http.StatusBadRequest, "direction or a navigation key is required")
			return
		}
		direction = d
	}

	focus, err := session.Tabs.MoveFocus(req.Current, direction)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, focus)
}
