package pitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pitchflow/offer"
)

// Repository defines the data access the pitch and payment services need.
// Every mutating method is a conditional update keyed on the expected prior
// state so concurrent transitions on one row serialize in the store.
type Repository interface {
	Create(ctx context.Context, p Pitch) (Pitch, error)
	GetByID(ctx context.Context, id string) (Pitch, error)
	ListForAgent(ctx context.Context, agentID string) ([]Pitch, error)
	ListForBrokerage(ctx context.Context, brokerageID string) ([]Pitch, error)
	MarkResponded(ctx context.Context, id string, next Status) (Pitch, error)
	SetPaymentSession(ctx context.Context, id, sessionID string) error
	MarkPaid(ctx context.Context, id, sessionID string) (Pitch, bool, error)
	MarkPaymentFailed(ctx context.Context, id string) (bool, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed pitch repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const pitchColumns = `id, agent_id, brokerage_id, message, offer_details, status, payment_status, payment_session_id, created_at, responded_at, paid_at`

func (r *PGRepository) Create(ctx context.Context, p Pitch) (Pitch, error) {
	const insertSQL = `
		INSERT INTO pitches (agent_id, brokerage_id, message, offer_details, status, payment_status)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6)
		RETURNING ` + pitchColumns

	offerJSON, err := json.Marshal(p.OfferDetails)
	if err != nil {
		return Pitch{}, fmt.Errorf("pitch: marshal offer snapshot: %w", err)
	}

	created, err := scanPitch(r.pool.QueryRow(ctx, insertSQL,
		p.AgentID,
		p.BrokerageID,
		p.Message,
		offerJSON,
		StatusPending,
		PaymentPending,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Pitch{}, ErrDuplicatePitch
		}
		return Pitch{}, fmt.Errorf("pitch: create: %w", err)
	}
	return created, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Pitch, error) {
	const selectSQL = `SELECT ` + pitchColumns + ` FROM pitches WHERE id = $1`

	p, err := scanPitch(r.pool.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Pitch{}, ErrNotFound
		}
		return Pitch{}, fmt.Errorf("pitch: get by id: %w", err)
	}
	return p, nil
}

func (r *PGRepository) ListForAgent(ctx context.Context, agentID string) ([]Pitch, error) {
	const query = `SELECT ` + pitchColumns + ` FROM pitches WHERE agent_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, agentID)
}

func (r *PGRepository) ListForBrokerage(ctx context.Context, brokerageID string) ([]Pitch, error) {
	const query = `SELECT ` + pitchColumns + ` FROM pitches WHERE brokerage_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, brokerageID)
}

func (r *PGRepository) list(ctx context.Context, query string, arg any) ([]Pitch, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("pitch: list: %w", err)
	}
	defer rows.Close()

	out := make([]Pitch, 0, 8)
	for rows.Next() {
		p, err := scanPitch(rows)
		if err != nil {
			return nil, fmt.Errorf("pitch: scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pitch: iterate: %w", err)
	}
	return out, nil
}

// MarkResponded moves a PENDING pitch to ACCEPTED or DECLINED and stamps
// responded_at. The transition only succeeds while the row is still PENDING;
// a losing racer gets ErrInvalidState.
func (r *PGRepository) MarkResponded(ctx context.Context, id string, next Status) (Pitch, error) {
	if next != StatusAccepted && next != StatusDeclined {
		return Pitch{}, ErrInvalidState
	}

	const updateSQL = `
		UPDATE pitches
		SET status = $2, responded_at = now()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + pitchColumns

	p, err := scanPitch(r.pool.QueryRow(ctx, updateSQL, id, next))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Pitch{}, fmt.Errorf("pitch: mark responded: %w", err)
	}

	// Zero rows: distinguish a missing pitch from one already responded to.
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pitches WHERE id = $1)`, id).Scan(&exists); err != nil {
		return Pitch{}, fmt.Errorf("pitch: mark responded check: %w", err)
	}
	if !exists {
		return Pitch{}, ErrNotFound
	}
	return Pitch{}, ErrInvalidState
}

// SetPaymentSession records the checkout session reference on the pitch.
func (r *PGRepository) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE pitches SET payment_session_id = $2 WHERE id = $1`, id, sessionID)
	if err != nil {
		return fmt.Errorf("pitch: set payment session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid moves payment_status to PAID for an ACCEPTED pitch whose payment
// is still PENDING. The bool result reports whether this call performed the
// transition; false with a nil error means the guard did not hold (already
// paid, failed, or never accepted) and the caller decides what that means.
func (r *PGRepository) MarkPaid(ctx context.Context, id, sessionID string) (Pitch, bool, error) {
	const updateSQL = `
		UPDATE pitches
		SET payment_status = 'PAID', payment_session_id = $2, paid_at = now()
		WHERE id = $1 AND status = 'ACCEPTED' AND payment_status = 'PENDING'
		RETURNING ` + pitchColumns

	p, err := scanPitch(r.pool.QueryRow(ctx, updateSQL, id, sessionID))
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Pitch{}, false, fmt.Errorf("pitch: mark paid: %w", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return Pitch{}, false, err
	}
	return current, false, nil
}

// MarkPaymentFailed moves payment_status to FAILED iff it is still PENDING.
// Idempotent: expiry events for settled pitches report false and do nothing.
func (r *PGRepository) MarkPaymentFailed(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pitches
		SET payment_status = 'FAILED'
		WHERE id = $1 AND payment_status = 'PENDING'
	`, id)
	if err != nil {
		return false, fmt.Errorf("pitch: mark payment failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanPitch(row pgx.Row) (Pitch, error) {
	var (
		p         Pitch
		offerJSON []byte
	)
	err := row.Scan(
		&p.ID,
		&p.AgentID,
		&p.BrokerageID,
		&p.Message,
		&offerJSON,
		&p.Status,
		&p.PaymentStatus,
		&p.PaymentSessionID,
		&p.CreatedAt,
		&p.RespondedAt,
		&p.PaidAt,
	)
	if err != nil {
		return Pitch{}, err
	}

	var details offer.Offer
	if err := json.Unmarshal(offerJSON, &details); err != nil {
		return Pitch{}, fmt.Errorf("pitch: unmarshal offer snapshot: %w", err)
	}
	p.OfferDetails = details
	return p, nil
}
