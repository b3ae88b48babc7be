package payment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pitchflow/agent"
	"pitchflow/auth"
	"pitchflow/brokerage"
	"pitchflow/notify"
	"pitchflow/pitch"
)

// AgentStore is the agent access the payment service needs: profile reads
// plus the identity-reveal write performed on first paid pitch.
type AgentStore interface {
	GetByID(ctx context.Context, id string) (agent.Profile, error)
	RevealIdentity(ctx context.Context, agentID string) error
}

// BrokerageDirectory is the read access to brokerage profiles.
type BrokerageDirectory interface {
	GetByID(ctx context.Context, id string) (brokerage.Profile, error)
}

// UserDirectory resolves account emails for notifications.
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID string) (*auth.User, error)
}

// Config carries the payment settings the service needs.
type Config struct {
	ContactFeeCents int64
	BaseURL         string
	WebhookSecret   string
}

// Service owns checkout initiation and the webhook-driven payment half of the
// pitch state machine.
type Service struct {
	pitches    pitch.Repository
	agents     AgentStore
	brokerages BrokerageDirectory
	users      UserDirectory
	client     CheckoutClient
	notifier   notify.Notifier
	logger     *zap.Logger
	cfg        Config
}

// NewService wires the payment service.
func NewService(pitches pitch.Repository, agents AgentStore, brokerages BrokerageDirectory, users UserDirectory, client CheckoutClient, notifier notify.Notifier, logger *zap.Logger, cfg Config) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		pitches:    pitches,
		agents:     agents,
		brokerages: brokerages,
		users:      users,
		client:     client,
		notifier:   notifier,
		logger:     logger,
		cfg:        cfg,
	}
}

// Initiate opens a checkout session for the contact fee on an accepted pitch
// and returns the provider redirect URL. It records the session reference but
// never changes payment status; only webhook events do that.
func (s *Service) Initiate(ctx context.Context, pitchID, actingBrokerageID string) (string, error) {
	p, err := s.pitches.GetByID(ctx, pitchID)
	if err != nil {
		return "", err
	}
	if p.BrokerageID != actingBrokerageID {
		return "", pitch.ErrForbidden
	}
	if p.PaymentStatus == pitch.PaymentPaid {
		return "", pitch.ErrAlreadyPaid
	}
	if p.Status != pitch.StatusAccepted {
		return "", pitch.ErrInvalidState
	}

	target, err := s.agents.GetByID(ctx, p.AgentID)
	if err != nil {
		return "", err
	}

	session, err := s.client.CreateCheckoutSession(ctx, CreateSessionParams{
		AmountCents: s.cfg.ContactFeeCents,
		Currency:    "usd",
		Description: fmt.Sprintf("Contact information for Anonymous Agent #%s", shortHandle(target.AnonymousID)),
		SuccessURL:  fmt.Sprintf("%s/dashboard/brokerage?payment=success&pitch=%s", s.cfg.BaseURL, p.ID),
		CancelURL:   fmt.Sprintf("%s/dashboard/brokerage?payment=cancelled", s.cfg.BaseURL),
		Metadata: map[string]string{
			MetaPitchID:     p.ID,
			MetaBrokerageID: p.BrokerageID,
			MetaAgentID:     p.AgentID,
		},
	})
	if err != nil {
		return "", err
	}

	if err := s.pitches.SetPaymentSession(ctx, p.ID, session.ID); err != nil {
		return "", err
	}
	return session.RedirectURL, nil
}

// HandleEvent processes one webhook delivery. The raw body and its signature
// header come straight from the transport; nothing happens unless the
// signature verifies. Redeliveries are safe: every transition below is a
// conditional update.
func (s *Service) HandleEvent(ctx context.Context, body []byte, signature string) error {
	if err := VerifySignature(body, signature, s.cfg.WebhookSecret); err != nil {
		return err
	}

	event, err := ParseEvent(body)
	if err != nil {
		return err
	}

	pitchID := event.Metadata[MetaPitchID]
	if pitchID == "" {
		s.logger.Error("webhook event missing pitch id",
			zap.String("type", event.Type), zap.String("session_id", event.SessionID))
		return nil
	}

	switch event.Type {
	case EventSessionCompleted:
		return s.completeSession(ctx, pitchID, event.SessionID)
	case EventSessionExpired:
		return s.expireSession(ctx, pitchID, event.SessionID)
	default:
		s.logger.Info("unhandled webhook event type", zap.String("type", event.Type))
		return nil
	}
}

// completeSession settles payment for a pitch. The transition requires
// status ACCEPTED and payment PENDING; a completed event for any other state
// is acknowledged without effect. In particular a FAILED pitch never becomes
// PAID, and a declined-then-paid race is a reconciliation case, not a reveal.
func (s *Service) completeSession(ctx context.Context, pitchID, sessionID string) error {
	updated, applied, err := s.pitches.MarkPaid(ctx, pitchID, sessionID)
	if err != nil {
		return err
	}

	if !applied {
		if updated.PaymentStatus == pitch.PaymentPaid {
			// Redelivery of an already-settled session.
			s.logger.Info("payment completion replayed",
				zap.String("pitch_id", pitchID), zap.String("session_id", sessionID))
			return nil
		}
		s.logger.Error("payment completed for pitch not awaiting payment; manual reconciliation required",
			zap.String("pitch_id", pitchID),
			zap.String("session_id", sessionID),
			zap.String("status", string(updated.Status)),
			zap.String("payment_status", string(updated.PaymentStatus)))
		return nil
	}

	if err := s.agents.RevealIdentity(ctx, updated.AgentID); err != nil {
		s.logger.Error("identity reveal flag update failed",
			zap.String("agent_id", updated.AgentID), zap.Error(err))
	}

	s.notifyPaymentComplete(ctx, updated)
	return nil
}

func (s *Service) expireSession(ctx context.Context, pitchID, sessionID string) error {
	applied, err := s.pitches.MarkPaymentFailed(ctx, pitchID)
	if err != nil {
		return err
	}
	if applied {
		s.logger.Info("payment session expired",
			zap.String("pitch_id", pitchID), zap.String("session_id", sessionID))
	}
	return nil
}

func (s *Service) notifyPaymentComplete(ctx context.Context, p pitch.Pitch) {
	target, err := s.agents.GetByID(ctx, p.AgentID)
	if err != nil {
		s.logger.Warn("payment notification skipped: agent lookup failed",
			zap.String("pitch_id", p.ID), zap.Error(err))
		return
	}
	sender, err := s.brokerages.GetByID(ctx, p.BrokerageID)
	if err != nil {
		s.logger.Warn("payment notification skipped: brokerage lookup failed",
			zap.String("pitch_id", p.ID), zap.Error(err))
		return
	}
	user, err := s.users.GetUserByID(ctx, target.UserID)
	if err != nil {
		s.logger.Warn("payment notification skipped: agent account lookup failed",
			zap.String("pitch_id", p.ID), zap.Error(err))
		return
	}

	data := map[string]string{
		notify.DataBrokerageName: sender.CompanyName,
		notify.DataPitchID:       p.ID,
	}
	if target.Name != nil {
		data[notify.DataAgentName] = *target.Name
	}
	if err := s.notifier.Notify(ctx, notify.KindPaymentComplete, user.Email, data); err != nil {
		s.logger.Warn("payment notification enqueue failed",
			zap.String("pitch_id", p.ID), zap.Error(err))
	}
}

func shortHandle(anonymousID string) string {
	trimmed := strings.TrimPrefix(anonymousID, "AGT-")
	if len(trimmed) > 6 {
		trimmed = trimmed[len(trimmed)-6:]
	}
	return strings.ToUpper(trimmed)
}
