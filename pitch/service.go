package pitch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pitchflow/agent"
	"pitchflow/auth"
	"pitchflow/brokerage"
	"pitchflow/notify"
	"pitchflow/offer"
)

// AgentDirectory is the read access to agent profiles the service needs.
type AgentDirectory interface {
	GetByID(ctx context.Context, id string) (agent.Profile, error)
}

// BrokerageDirectory is the read access to brokerage profiles the service needs.
type BrokerageDirectory interface {
	GetByID(ctx context.Context, id string) (brokerage.Profile, error)
}

// UserDirectory resolves account emails for notifications.
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID string) (*auth.User, error)
}

// Service owns the pitch lifecycle: creation, accept/decline, and the two
// payment-gated read models.
type Service struct {
	repo       Repository
	agents     AgentDirectory
	brokerages BrokerageDirectory
	users      UserDirectory
	notifier   notify.Notifier
	logger     *zap.Logger
}

// NewService wires the pitch service.
func NewService(repo Repository, agents AgentDirectory, brokerages BrokerageDirectory, users UserDirectory, notifier notify.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		agents:     agents,
		brokerages: brokerages,
		users:      users,
		notifier:   notifier,
		logger:     logger,
	}
}

// CreateParams are the inputs for sending a pitch.
type CreateParams struct {
	BrokerageID string
	AgentID     string
	Message     string
	// OfferOverride replaces the brokerage's standard offer in the snapshot
	// when non-nil.
	OfferOverride *offer.Offer
}

// Create sends a pitch from a brokerage to an agent, snapshotting the offer.
// At most one pitch may exist per (agent, brokerage) pair.
func (s *Service) Create(ctx context.Context, params CreateParams) (Pitch, error) {
	if strings.TrimSpace(params.Message) == "" {
		return Pitch{}, fmt.Errorf("%w: message is required", offer.ErrValidation)
	}

	target, err := s.agents.GetByID(ctx, params.AgentID)
	if err != nil {
		if errors.Is(err, agent.ErrNotFound) {
			return Pitch{}, ErrNotFound
		}
		return Pitch{}, err
	}

	sender, err := s.brokerages.GetByID(ctx, params.BrokerageID)
	if err != nil {
		if errors.Is(err, brokerage.ErrNotFound) {
			return Pitch{}, ErrNotFound
		}
		return Pitch{}, err
	}

	snapshot := sender.StandardOffer.Clone()
	if params.OfferOverride != nil {
		snapshot = params.OfferOverride.Clone()
	}
	if err := snapshot.Validate(); err != nil {
		return Pitch{}, err
	}

	created, err := s.repo.Create(ctx, Pitch{
		AgentID:      target.ID,
		BrokerageID:  sender.ID,
		Message:      params.Message,
		OfferDetails: snapshot,
	})
	if err != nil {
		return Pitch{}, err
	}

	s.notifyAgent(ctx, target, notify.KindPitchReceived, map[string]string{
		notify.DataBrokerageName: sender.CompanyName,
		notify.DataPitchID:       created.ID,
	})

	return created, nil
}

// Accept moves a PENDING pitch to ACCEPTED on behalf of the agent it targets.
// No payment or identity change happens here; acceptance is a low-commitment
// signal and the reveal stays payment-gated.
func (s *Service) Accept(ctx context.Context, pitchID, actingAgentID string) (Pitch, error) {
	p, err := s.repo.GetByID(ctx, pitchID)
	if err != nil {
		return Pitch{}, err
	}
	if p.AgentID != actingAgentID {
		return Pitch{}, ErrForbidden
	}

	return s.repo.MarkResponded(ctx, pitchID, StatusAccepted)
}

// Decline moves a PENDING pitch to DECLINED and tells the brokerage.
func (s *Service) Decline(ctx context.Context, pitchID, actingAgentID string) (Pitch, error) {
	p, err := s.repo.GetByID(ctx, pitchID)
	if err != nil {
		return Pitch{}, err
	}
	if p.AgentID != actingAgentID {
		return Pitch{}, ErrForbidden
	}

	declined, err := s.repo.MarkResponded(ctx, pitchID, StatusDeclined)
	if err != nil {
		return Pitch{}, err
	}

	target, err := s.agents.GetByID(ctx, declined.AgentID)
	if err != nil {
		s.logger.Warn("decline notification skipped: agent lookup failed",
			zap.String("pitch_id", declined.ID), zap.Error(err))
		return declined, nil
	}
	s.notifyBrokerage(ctx, declined.BrokerageID, notify.KindPitchDeclined, map[string]string{
		notify.DataAgentAnonymousID: target.AnonymousID,
		notify.DataPitchID:          declined.ID,
	})

	return declined, nil
}

// GetByID returns a pitch if the acting profile is one of its two parties.
func (s *Service) GetByID(ctx context.Context, pitchID, actingAgentID, actingBrokerageID string) (Pitch, error) {
	p, err := s.repo.GetByID(ctx, pitchID)
	if err != nil {
		return Pitch{}, err
	}
	if p.AgentID != actingAgentID && p.BrokerageID != actingBrokerageID {
		return Pitch{}, ErrForbidden
	}
	return p, nil
}

// InboxItem is one received pitch plus the agent-side view of its sender.
type InboxItem struct {
	Pitch     Pitch         `json:"pitch"`
	Brokerage BrokerageView `json:"brokerage"`
}

// Inbox lists pitches received by an agent, newest first, with the
// payment-gated brokerage projection applied per pitch.
func (s *Service) Inbox(ctx context.Context, agentID string) ([]InboxItem, error) {
	pitches, err := s.repo.ListForAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	items := make([]InboxItem, 0, len(pitches))
	for _, p := range pitches {
		sender, err := s.brokerages.GetByID(ctx, p.BrokerageID)
		if err != nil {
			return nil, err
		}
		var email string
		if user, err := s.users.GetUserByID(ctx, sender.UserID); err != nil {
			s.logger.Warn("contact email unavailable: brokerage account lookup failed",
				zap.String("pitch_id", p.ID), zap.String("brokerage_id", sender.ID), zap.Error(err))
		} else {
			email = user.Email
		}
		items = append(items, InboxItem{
			Pitch:     p,
			Brokerage: ProjectBrokerage(p, sender, email),
		})
	}
	return items, nil
}

// SentItem is one sent pitch plus the brokerage-side view of its target.
type SentItem struct {
	Pitch Pitch     `json:"pitch"`
	Agent AgentView `json:"agent"`
}

// Sent lists pitches a brokerage has sent, newest first, with the
// payment-gated agent projection applied per pitch.
func (s *Service) Sent(ctx context.Context, brokerageID string) ([]SentItem, error) {
	pitches, err := s.repo.ListForBrokerage(ctx, brokerageID)
	if err != nil {
		return nil, err
	}

	items := make([]SentItem, 0, len(pitches))
	for _, p := range pitches {
		target, err := s.agents.GetByID(ctx, p.AgentID)
		if err != nil {
			return nil, err
		}
		items = append(items, SentItem{
			Pitch: p,
			Agent: ProjectAgent(p, target),
		})
	}
	return items, nil
}

func (s *Service) notifyAgent(ctx context.Context, target agent.Profile, kind notify.Kind, data map[string]string) {
	user, err := s.users.GetUserByID(ctx, target.UserID)
	if err != nil {
		s.logger.Warn("notification skipped: agent account lookup failed",
			zap.String("agent_id", target.ID), zap.Error(err))
		return
	}
	if err := s.notifier.Notify(ctx, kind, user.Email, data); err != nil {
		s.logger.Warn("notification enqueue failed",
			zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (s *Service) notifyBrokerage(ctx context.Context, brokerageID string, kind notify.Kind, data map[string]string) {
	sender, err := s.brokerages.GetByID(ctx, brokerageID)
	if err != nil {
		s.logger.Warn("notification skipped: brokerage lookup failed",
			zap.String("brokerage_id", brokerageID), zap.Error(err))
		return
	}
	user, err := s.users.GetUserByID(ctx, sender.UserID)
	if err != nil {
		s.logger.Warn("notification skipped: brokerage account lookup failed",
			zap.String("brokerage_id", brokerageID), zap.Error(err))
		return
	}
	if err := s.notifier.Notify(ctx, kind, user.Email, data); err != nil {
		s.logger.Warn("notification enqueue failed",
			zap.String("kind", string(kind)), zap.Error(err))
	}
}
