package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// Webhook event types the provider emits for checkout sessions.
const (
	EventSessionCompleted = "session.completed"
	EventSessionExpired   = "session.expired"
)

// ErrInvalidSignature signals the webhook payload failed authenticity checks.
// Handlers must take no action on such payloads.
var ErrInvalidSignature = errors.New("payment: invalid webhook signature")

// Event is one asynchronous payment-provider callback. Metadata echoes what
// was attached at session creation, including the pitch id.
type Event struct {
	Type      string            `json:"type"`
	SessionID string            `json:"session_id"`
	Metadata  map[string]string `json:"metadata"`
}

// Metadata keys attached to checkout sessions.
const (
	MetaPitchID     = "pitch_id"
	MetaAgentID     = "agent_id"
	MetaBrokerageID = "brokerage_id"
)

// VerifySignature checks the hex-encoded HMAC-SHA256 of body against secret.
func VerifySignature(body []byte, signature, secret string) error {
	if signature == "" {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// ParseEvent decodes a verified webhook payload.
func ParseEvent(body []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, fmt.Errorf("payment: decode event: %w", err)
	}
	if event.Type == "" || event.SessionID == "" {
		return Event{}, fmt.Errorf("payment: event missing type or session id")
	}
	return event, nil
}
