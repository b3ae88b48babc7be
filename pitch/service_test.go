package pitch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"pitchflow/agent"
	"pitchflow/auth"
	"pitchflow/brokerage"
	"pitchflow/notify"
	"pitchflow/offer"
)

type fakeRepo struct {
	pitches map[string]Pitch
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{pitches: make(map[string]Pitch)}
}

func (f *fakeRepo) Create(ctx context.Context, p Pitch) (Pitch, error) {
	for _, existing := range f.pitches {
		if existing.AgentID == p.AgentID && existing.BrokerageID == p.BrokerageID {
			return Pitch{}, ErrDuplicatePitch
		}
	}
	f.nextID++
	p.ID = fmt.Sprintf("pitch-%d", f.nextID)
	p.Status = StatusPending
	p.PaymentStatus = PaymentPending
	p.CreatedAt = time.Now()
	f.pitches[p.ID] = p
	return p, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Pitch, error) {
	p, ok := f.pitches[id]
	if !ok {
		return Pitch{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) ListForAgent(ctx context.Context, agentID string) ([]Pitch, error) {
	var out []Pitch
	for _, p := range f.pitches {
		if p.AgentID == agentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListForBrokerage(ctx context.Context, brokerageID string) ([]Pitch, error) {
	var out []Pitch
	for _, p := range f.pitches {
		if p.BrokerageID == brokerageID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkResponded(ctx context.Context, id string, next Status) (Pitch, error) {
	p, ok := f.pitches[id]
	if !ok {
		return Pitch{}, ErrNotFound
	}
	if p.Status != StatusPending {
		return Pitch{}, ErrInvalidState
	}
	now := time.Now()
	p.Status = next
	p.RespondedAt = &now
	f.pitches[id] = p
	return p, nil
}

func (f *fakeRepo) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	p, ok := f.pitches[id]
	if !ok {
		return ErrNotFound
	}
	p.PaymentSessionID = &sessionID
	f.pitches[id] = p
	return nil
}

func (f *fakeRepo) MarkPaid(ctx context.Context, id, sessionID string) (Pitch, bool, error) {
	p, ok := f.pitches[id]
	if !ok {
		return Pitch{}, false, ErrNotFound
	}
	if p.Status != StatusAccepted || p.PaymentStatus != PaymentPending {
		return p, false, nil
	}
	now := time.Now()
	p.PaymentStatus = PaymentPaid
	p.PaymentSessionID = &sessionID
	p.PaidAt = &now
	f.pitches[id] = p
	return p, true, nil
}

func (f *fakeRepo) MarkPaymentFailed(ctx context.Context, id string) (bool, error) {
	p, ok := f.pitches[id]
	if !ok {
		return false, ErrNotFound
	}
	if p.PaymentStatus != PaymentPending {
		return false, nil
	}
	p.PaymentStatus = PaymentFailed
	f.pitches[id] = p
	return true, nil
}

type fakeAgents struct {
	profiles map[string]agent.Profile
}

func (f *fakeAgents) GetByID(ctx context.Context, id string) (agent.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return agent.Profile{}, agent.ErrNotFound
	}
	return p, nil
}

type fakeBrokerages struct {
	profiles map[string]brokerage.Profile
}

func (f *fakeBrokerages) GetByID(ctx context.Context, id string) (brokerage.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return brokerage.Profile{}, brokerage.ErrNotFound
	}
	return p, nil
}

type fakeUsers struct {
	users map[string]*auth.User
}

func (f *fakeUsers) GetUserByID(ctx context.Context, userID string) (*auth.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

type sentNotification struct {
	kind      notify.Kind
	recipient string
	data      map[string]string
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, kind notify.Kind, recipient string, data map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentNotification{kind: kind, recipient: recipient, data: data})
	return nil
}

func strPtr(s string) *string { return &s }

func fixture() (*Service, *fakeRepo, *fakeNotifier) {
	repo := newFakeRepo()
	agents := &fakeAgents{profiles: map[string]agent.Profile{
		"agent-1": {
			ID:          "agent-1",
			UserID:      "user-agent-1",
			AnonymousID: "AGT-A1B2C3",
			Name:        strPtr("Jordan Reyes"),
			SalesVolume: decimal.NewFromInt(4_000_000),
			WishList:    []string{offer.Wish9010Split},
		},
	}}
	brokerages := &fakeBrokerages{profiles: map[string]brokerage.Profile{
		"brokerage-1": {
			ID:          "brokerage-1",
			UserID:      "user-brok-1",
			CompanyName: "Summit Realty",
			Location:    "Austin, TX",
			StandardOffer: offer.Offer{
				SplitPercent: 90,
				MonthlyFee:   decimal.Zero,
			},
		},
	}}
	users := &fakeUsers{users: map[string]*auth.User{
		"user-agent-1": {ID: "user-agent-1", Email: "agent@example.com"},
		"user-brok-1":  {ID: "user-brok-1", Email: "broker@example.com"},
	}}
	notifier := &fakeNotifier{}
	svc := NewService(repo, agents, brokerages, users, notifier, nil)
	return svc, repo, notifier
}

func TestCreateSnapshotsStandardOffer(t *testing.T) {
	svc, _, notifier := fixture()

	p, err := svc.Create(context.Background(), CreateParams{
		BrokerageID: "brokerage-1",
		AgentID:     "agent-1",
		Message:     "Come join us",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != StatusPending || p.PaymentStatus != PaymentPending {
		t.Errorf("new pitch should be PENDING/PENDING, got %s/%s", p.Status, p.PaymentStatus)
	}
	if p.OfferDetails.SplitPercent != 90 {
		t.Errorf("offer snapshot split: got %d, want 90", p.OfferDetails.SplitPercent)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.sent))
	}
	n := notifier.sent[0]
	if n.kind != notify.KindPitchReceived {
		t.Errorf("notification kind: got %s", n.kind)
	}
	if n.recipient != "agent@example.com" {
		t.Errorf("notification recipient: got %s", n.recipient)
	}
	if n.data[notify.DataBrokerageName] != "Summit Realty" {
		t.Errorf("notification brokerage name: got %q", n.data[notify.DataBrokerageName])
	}
}

func TestCreateOfferOverride(t *testing.T) {
	svc, _, _ := fixture()

	override := &offer.Offer{SplitPercent: 100, MonthlyFee: decimal.NewFromInt(250)}
	p, err := svc.Create(context.Background(), CreateParams{
		BrokerageID:   "brokerage-1",
		AgentID:       "agent-1",
		Message:       "Special terms for you",
		OfferOverride: override,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.OfferDetails.SplitPercent != 100 {
		t.Errorf("override split: got %d, want 100", p.OfferDetails.SplitPercent)
	}
}

func TestCreateRejectsInvalidOverride(t *testing.T) {
	svc, _, _ := fixture()

	_, err := svc.Create(context.Background(), CreateParams{
		BrokerageID:   "brokerage-1",
		AgentID:       "agent-1",
		Message:       "bad",
		OfferOverride: &offer.Offer{SplitPercent: 150},
	})
	if !errors.Is(err, offer.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateUnknownAgent(t *testing.T) {
	svc, _, _ := fixture()

	_, err := svc.Create(context.Background(), CreateParams{
		BrokerageID: "brokerage-1",
		AgentID:     "agent-missing",
		Message:     "hello",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateDuplicatePair(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()

	params := CreateParams{BrokerageID: "brokerage-1", AgentID: "agent-1", Message: "first"}
	if _, err := svc.Create(ctx, params); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, CreateParams{BrokerageID: "brokerage-1", AgentID: "agent-1", Message: "second"})
	if !errors.Is(err, ErrDuplicatePitch) {
		t.Fatalf("expected ErrDuplicatePitch, got %v", err)
	}
}

func TestCreateSurvivesNotifierFailure(t *testing.T) {
	svc, _, notifier := fixture()
	notifier.err = errors.New("outbox down")

	if _, err := svc.Create(context.Background(), CreateParams{
		BrokerageID: "brokerage-1",
		AgentID:     "agent-1",
		Message:     "hello",
	}); err != nil {
		t.Fatalf("create should not fail on notification error, got %v", err)
	}
}

func TestAcceptTransitions(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{BrokerageID: "brokerage-1", AgentID: "agent-1", Message: "hi"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	accepted, err := svc.Accept(ctx, created.ID, "agent-1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != StatusAccepted {
		t.Errorf("status: got %s, want ACCEPTED", accepted.Status)
	}
	if accepted.RespondedAt == nil {
		t.Errorf("responded_at not stamped")
	}
	if accepted.PaymentStatus != PaymentPending {
		t.Errorf("accept must not touch payment status, got %s", accepted.PaymentStatus)
	}
}

func TestAcceptTwiceIsInvalidState(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateParams{BrokerageID: "brokerage-1", AgentID: "agent-1", Message: "hi"})
	if _, err := svc.Accept(ctx, created.ID, "agent-1"); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := svc.Accept(ctx, created.ID, "agent-1"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second accept: expected ErrInvalidState, got %v", err)
	}
}

func TestAcceptAfterDeclineIsInvalidState(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateParams{BrokerageID: "brokerage-1", AgentID: "agent-1", Message: "hi"})
	if _, err := svc.Decline(ctx, created.ID, "agent-1"); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if _, err := svc.Accept(ctx, created.ID, "agent-1"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("accept after decline: expected ErrInvalidState, got %v", err)
	}
}

func TestAcceptWrongAgentForbidden(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateParams{BrokerageID: "brokerage-1", AgentID: "agent-1", Message: "hi"})
	if _, err := svc.Accept(ctx, created.ID, "agent-other"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAcceptUnknownPitch(t *testing.T) {
	svc, _, _ := fixture()

	if _, err := svc.Accept(context.Background(), "pitch-missing", "agent-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeclineNotifiesBrokerageWithAnonymousID(t *testing.T) {
	svc, _, notifier := fixture()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateParams{BrokerageID: "brokerage-1", AgentID: "agent-1", Message: "hi"})
	notifier.sent = nil

	declined, err := svc.Decline(ctx, created.ID, "agent-1")
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if declined.Status != StatusDeclined {
		t.Errorf("status: got %s, want DECLINED", declined.Status)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.sent))
	}
	n := notifier.sent[0]
	if n.kind != notify.KindPitchDeclined {
		t.Errorf("kind: got %s", n.kind)
	}
	if n.recipient != "broker@example.com" {
		t.Errorf("recipient: got %s", n.recipient)
	}
	if n.data[notify.DataAgentAnonymousID] != "AGT-A1B2C3" {
		t.Errorf("decline must identify the agent by handle only, got %q", n.data[notify.DataAgentAnonymousID])
	}
	if _, leaked := n.data[notify.DataAgentName]; leaked {
		t.Errorf("decline notification must not carry the agent name")
	}
}

func TestInboxGatesContactEmail(t *testing.T) {
	svc, repo, _ := fixture()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateParams{BrokerageID: "brokerage-1", AgentID: "agent-1", Message: "hi"})

	items, err := svc.Inbox(ctx, "agent-1")
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 inbox item, got %d", len(items))
	}
	if items[0].Brokerage.ContactEmail != nil {
		t.Errorf("unpaid pitch must hide brokerage contact email")
	}
	if items[0].Brokerage.CompanyName != "Summit Realty" {
		t.Errorf("company name should always be visible, got %q", items[0].Brokerage.CompanyName)
	}

	// Pay and check the email appears.
	if _, err := svc.Accept(ctx, created.ID, "agent-1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, applied, err := repo.MarkPaid(ctx, created.ID, "sess-1"); err != nil || !applied {
		t.Fatalf("mark paid: applied=%v err=%v", applied, err)
	}

	items, err = svc.Inbox(ctx, "agent-1")
	if err != nil {
		t.Fatalf("inbox after payment: %v", err)
	}
	if items[0].Brokerage.ContactEmail == nil || *items[0].Brokerage.ContactEmail != "broker@example.com" {
		t.Errorf("paid pitch should expose brokerage contact email")
	}
}

func TestSentGatesAgentIdentity(t *testing.T) {
	svc, repo, _ := fixture()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateParams{BrokerageID: "brokerage-1", AgentID: "agent-1", Message: "hi"})

	items, err := svc.Sent(ctx, "brokerage-1")
	if err != nil {
		t.Fatalf("sent: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 sent item, got %d", len(items))
	}
	if items[0].Agent.Name != nil || items[0].Agent.LicenseNumber != nil {
		t.Errorf("unpaid pitch must hide agent name and license")
	}
	if items[0].Agent.AnonymousID != "AGT-A1B2C3" {
		t.Errorf("anonymous handle should be visible, got %q", items[0].Agent.AnonymousID)
	}

	if _, err := svc.Accept(ctx, created.ID, "agent-1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, applied, err := repo.MarkPaid(ctx, created.ID, "sess-1"); err != nil || !applied {
		t.Fatalf("mark paid: applied=%v err=%v", applied, err)
	}

	items, err = svc.Sent(ctx, "brokerage-1")
	if err != nil {
		t.Fatalf("sent after payment: %v", err)
	}
	if items[0].Agent.Name == nil || *items[0].Agent.Name != "Jordan Reyes" {
		t.Errorf("paid pitch should expose agent name")
	}
}

func TestGetByIDPartyCheck(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateParams{BrokerageID: "brokerage-1", AgentID: "agent-1", Message: "hi"})

	if _, err := svc.GetByID(ctx, created.ID, "agent-1", ""); err != nil {
		t.Errorf("target agent should read the pitch: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID, "", "brokerage-1"); err != nil {
		t.Errorf("sending brokerage should read the pitch: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID, "agent-other", "brokerage-other"); !errors.Is(err, ErrForbidden) {
		t.Errorf("third parties must get ErrForbidden, got %v", err)
	}
}

func TestInboxWarnsWhenAccountLookupFails(t *testing.T) {
	repo := newFakeRepo()
	agents := &fakeAgents{profiles: map[string]agent.Profile{
		"agent-1": {ID: "agent-1", UserID: "user-agent-1", AnonymousID: "AGT-A1B2C3"},
	}}
	brokerages := &fakeBrokerages{profiles: map[string]brokerage.Profile{
		"brokerage-1": {
			ID:            "brokerage-1",
			UserID:        "user-brok-1",
			CompanyName:   "Summit Realty",
			Location:      "Austin, TX",
			StandardOffer: offer.Offer{SplitPercent: 90, MonthlyFee: decimal.Zero},
		},
	}}
	// The brokerage's account is missing, so the contact-email lookup fails.
	users := &fakeUsers{users: map[string]*auth.User{
		"user-agent-1": {ID: "user-agent-1", Email: "agent@example.com"},
	}}
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(repo, agents, brokerages, users, &fakeNotifier{}, zap.New(core))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{BrokerageID: "brokerage-1", AgentID: "agent-1", Message: "hi"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Accept(ctx, created.ID, "agent-1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, applied, err := repo.MarkPaid(ctx, created.ID, "sess-1"); err != nil || !applied {
		t.Fatalf("mark paid: applied=%v err=%v", applied, err)
	}

	items, err := svc.Inbox(ctx, "agent-1")
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 inbox item, got %d", len(items))
	}
	if items[0].Brokerage.ContactEmail != nil {
		t.Errorf("contact email should stay hidden when the account lookup fails")
	}
	if logs.FilterMessageSnippet("brokerage account lookup failed").Len() == 0 {
		t.Errorf("expected a warning about the failed account lookup")
	}
}
