// ABOUTME: JSON response helpers shared by the API handlers
// ABOUTME: Maps service errors onto HTTP status codes

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wfconnect/marketplace/internal/auth"
	"github.com/wfconnect/marketplace/internal/chat"
	"github.com/wfconnect/marketplace/internal/jobs"
	"github.com/wfconnect/marketplace/internal/store"
)

// writeJSON encodes v as the response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// writeError sends {"error": msg} with the given status.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError translates known service errors into status codes.
// Anything unrecognized becomes a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated),
		errors.Is(err, chat.ErrNotAuthenticated),
		errors.Is(err, jobs.ErrNotAuthenticated),
		errors.Is(err, auth.ErrInvalidCredentials):
		s.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, jobs.ErrNotOwner):
		s.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, chat.ErrChatNotFound),
		errors.Is(err, jobs.ErrJobNotFound),
		errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicateEmail):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrEmptyField),
		errors.Is(err, chat.ErrInvalidPinDuration),
		errors.Is(err, chat.ErrUnsupportedFileType),
		errors.Is(err, jobs.ErrMissingFields):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody decodes the JSON request body into v.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
