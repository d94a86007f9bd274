package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zatekoja/premier-landing/backend/internal/application/services"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/premier-landing/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// statusForError maps an AppError type to its HTTP status
func statusForError(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeValidation:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondWithAppError writes err with the status of its type. Internal errors
// are logged and their detail withheld from the client.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("request failed")
		respondWithError(w, status, "internal server error")
		return
	}

	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	respondWithError(w, status, message)
}

// sessionFrom returns the request's session or answers 500 when the session
// middleware did not run
func sessionFrom(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	session, ok := services.SessionFromContext(r.Context())
	if !ok {
		respondWithAppError(w, r, apperrors.NewInternalError("no session on request", nil))
		return nil, false
	}
	return session, true
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid request payload")
	}
	return nil
}
