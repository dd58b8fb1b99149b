// Package api exposes the application over a JSON REST surface.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/okialbert/wanderlust/internal/auth"
	"github.com/okialbert/wanderlust/internal/service"
	"github.com/okialbert/wanderlust/internal/settlement"
	"github.com/okialbert/wanderlust/internal/storage"
)

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps domain errors onto HTTP statuses. Anything
// unclassified becomes a 500 with the detail kept in the server log.
func respondServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	var refErr *settlement.ReferentialIntegrityError
	var invErr *settlement.InvariantViolationError

	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Reason)
	case errors.As(err, &refErr), errors.As(err, &invErr),
		errors.Is(err, service.ErrTravelerReferenced):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrEmailExists):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// respondAIError is used on endpoints whose failure mode is the
// upstream model rather than our own state.
func respondAIError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Reason)
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	default:
		slog.Error("AI request failed", "error", err)
		respondError(w, http.StatusBadGateway, "generation failed")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}
