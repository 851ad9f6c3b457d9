package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"bloodaid/pkg/types"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an upstream failure and is surfaced as one
// without its internals.
func (s *Service) respondError(w http.ResponseWriter, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, types.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, types.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, types.ErrBlockedAccount):
		status, code = http.StatusForbidden, "blocked_account"
	case errors.Is(err, types.ErrAccountNotFound),
		errors.Is(err, types.ErrRequestNotFound),
		errors.Is(err, types.ErrFundNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, types.ErrInvalidInput):
		status, code = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, types.ErrInvalidTransition):
		status, code = http.StatusConflict, "invalid_transition"
	default:
		s.logger.WithError(err).Error("upstream failure")
		s.respondJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream_failure"})
		return
	}

	s.respondJSON(w, status, errorResponse{Error: code, Message: err.Error()})
}
