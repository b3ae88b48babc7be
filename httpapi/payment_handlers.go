package httpapi

import (
	"io"
	"net/http"

	"go.uber.org/zap"
)

type checkoutRequest struct {
	PitchID string `json:"pitchId"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PitchID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "pitchId is required")
		return
	}

	caller, err := s.brokerages.GetByUserID(r.Context(), callerID(r))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	checkoutURL, err := s.payments.Initiate(r.Context(), req.PitchID, caller.ID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"checkoutUrl": checkoutURL})
}

// handleWebhook receives payment provider events. The raw body is needed for
// signature verification, so it is read before any decoding.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "unreadable body")
		return
	}

	if err := s.payments.HandleEvent(r.Context(), body, r.Header.Get("X-Webhook-Signature")); err != nil {
		s.logger.Warn("webhook rejected", zap.Error(err))
		s.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"received": true})
}
