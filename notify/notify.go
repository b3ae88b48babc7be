// Package notify hands notifications off to a transactional outbox so domain
// operations never wait on, or fail because of, e-mail delivery.
package notify

import "context"

// Kind identifies a notification template.
type Kind string

const (
	KindPitchReceived   Kind = "pitch.received"
	KindPitchDeclined   Kind = "pitch.declined"
	KindPaymentComplete Kind = "payment.complete"
)

// Template data keys.
const (
	DataBrokerageName    = "brokerage_name"
	DataAgentAnonymousID = "agent_anonymous_id"
	DataAgentName        = "agent_name"
	DataPitchID          = "pitch_id"
)

// Notifier enqueues a notification for asynchronous delivery. Implementations
// must return quickly; callers log a failure and move on.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, recipient string, data map[string]string) error
}
