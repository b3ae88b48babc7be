package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"pitchflow/agent"
	"pitchflow/auth"
	"pitchflow/brokerage"
	"pitchflow/offer"
	"pitchflow/payment"
	"pitchflow/pitch"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorBody{Error: message, Code: code})
}

// respondDomainError maps typed domain errors onto stable status/code pairs
// so clients can render specific messaging. Anything unrecognized is a
// storage or programming failure and becomes an opaque 500.
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, offer.ErrValidation),
		errors.Is(err, auth.ErrWeakPassword):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, pitch.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden", "you do not own this resource")
	case errors.Is(err, pitch.ErrNotFound),
		errors.Is(err, agent.ErrNotFound),
		errors.Is(err, brokerage.ErrNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, pitch.ErrDuplicatePitch):
		respondError(w, http.StatusConflict, "duplicate_pitch", "you have already pitched this agent")
	case errors.Is(err, agent.ErrProfileExists),
		errors.Is(err, brokerage.ErrProfileExists):
		respondError(w, http.StatusConflict, "profile_exists", "profile already exists")
	case errors.Is(err, auth.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, "email_exists", "email already registered")
	case errors.Is(err, pitch.ErrAlreadyPaid):
		respondError(w, http.StatusConflict, "already_paid", "this pitch has already been paid for")
	case errors.Is(err, pitch.ErrInvalidState):
		respondError(w, http.StatusConflict, "invalid_state", "the pitch is not in a state that allows this action")
	case errors.Is(err, payment.ErrInvalidSignature):
		respondError(w, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed")
	default:
		s.logger.Error("internal error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return false
	}
	return true
}
