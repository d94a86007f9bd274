package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/zatekoja/premier-landing/backend/internal/application/forms"
	"github.com/zatekoja/premier-landing/backend/internal/application/services"
	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/domain/providers"
	"github.com/zatekoja/premier-landing/backend/internal/domain/validation"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/premier-landing/backend/pkg/errors"
)

// maxFormBytes bounds a form-encoded fallback body
const maxFormBytes = 64 << 10

// RateLimitRecorder counts refused submissions
type RateLimitRecorder interface {
	RecordRateLimited(ctx context.Context, form entities.FormKind)
}

// FormHandler exposes the three action-panel forms of the caller's session
type FormHandler struct {
	limiter  *submitLimiter
	recorder RateLimitRecorder
}

// NewFormHandler creates a form handler. cache and recorder may be nil; a
// non-positive limit disables rate limiting.
func NewFormHandler(cache providers.CacheProvider, limit int, window time.Duration, recorder RateLimitRecorder) *FormHandler {
	return &FormHandler{
		limiter:  newSubmitLimiter(cache, limit, window),
		recorder: recorder,
	}
}

type changeFieldRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type submitRequest struct {
	Values entities.FormValues `json:"values"`
}

type submitResponse struct {
	Status       string                `json:"status"`
	SubmissionID string                `json:"submission_id"`
	Form         entities.FormSnapshot `json:"form"`
}

type invalidResponse struct {
	Error   string               `json:"error"`
	IsValid bool                 `json:"isValid"`
	Errors  entities.FieldErrors `json:"errors"`
}

// GetForm handles GET /api/forms/{kind}
func (h *FormHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, ctrl.Snapshot())
}

// ChangeField handles PATCH /api/forms/{kind}/fields
func (h *FormHandler) ChangeField(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req changeFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "field name is required")
		return
	}

	snapshot, err := ctrl.Change(req.Name, req.Value)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}

// SubmitForm handles POST /api/forms/{kind}/submit. Values in the body are
// applied before validation, in the same step, so a rejected submit writes
// nothing.
func (h *FormHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondWithAppError(w, r, err)
			return
		}
	}

	result, err := h.submit(w, r, ctrl, req.Values)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !result.Valid {
		respondWithJSON(w, http.StatusUnprocessableEntity, invalidResponse{
			Error:   "validation failed",
			IsValid: false,
			Errors:  result.Errors,
		})
		return
	}

	snapshot := ctrl.Snapshot()
	respondWithJSON(w, http.StatusAccepted, submitResponse{
		Status:       string(snapshot.State),
		SubmissionID: snapshot.SubmissionID,
		Form:         snapshot,
	})
}

// SubmitFallback handles POST /forms/{kind} from a browser without scripts.
// It applies the posted fields, submits, and redirects back to the form's tab
// where the page renders the outcome.
func (h *FormHandler) SubmitFallback(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	kind, ok := entities.ParseFormKind(r.PathValue("kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	ctrl, err := session.Form(kind)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	schema, _ := validation.SchemaFor(kind)
	values := make(entities.FormValues, len(schema.Fields))
	for _, field := range schema.Fields {
		if _, posted := r.PostForm[field.Name]; posted {
			values[field.Name] = r.PostForm.Get(field.Name)
		}
	}

	if _, err := h.submit(w, r, ctrl, values); err != nil {
		observability.LoggerFromContext(r.Context()).Debug().
			Err(err).
			Str("form", string(kind)).
			Msg("fallback submit rejected")
	}

	if err := session.Tabs.Select(kind.Tab()); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	http.Redirect(w, r, session.Tabs.URL()+"#"+kind.Tab().PanelID(), http.StatusSeeOther)
}

// submit applies values and submits once the caller is within the rate limit
func (h *FormHandler) submit(w http.ResponseWriter, r *http.Request, ctrl *forms.Controller, values entities.FormValues) (entities.ValidationResult, error) {
	key := fmt.Sprintf("forms:rate:%s", clientIP(r))
	allowed, retryAfter := h.limiter.allow(r.Context(), key)
	if !allowed {
		if h.recorder != nil {
			h.recorder.RecordRateLimited(r.Context(), ctrl.Kind())
		}
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		return entities.ValidationResult{}, apperrors.NewRateLimitedError("rate limit exceeded")
	}
	return ctrl.SubmitValues(r.Context(), values)
}

func (h *FormHandler) controller(w http.ResponseWriter, r *http.Request) (*forms.Controller, bool) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return nil, false
	}
	kind, ok := entities.ParseFormKind(r.PathValue("kind"))
	if !ok {
		respondWithAppError(w, r, apperrors.NewNotFoundError(fmt.Sprintf("form %q not found", r.PathValue("kind"))))
		return nil, false
	}
	ctrl, err := session.Form(kind)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = apperrors.NewInternalError("failed to load form", err)
		}
		respondWithAppError(w, r, err)
		return nil, false
	}
	return ctrl, true
}

// sessionSnapshots lists the caller's forms; used by the page and stream handlers
func sessionSnapshots(session *services.Session) map[entities.FormKind]entities.FormSnapshot {
	out := make(map[entities.FormKind]entities.FormSnapshot, len(entities.FormKinds))
	for _, snapshot := range session.Snapshots() {
		out[snapshot.Form] = snapshot
	}
	return out
}
