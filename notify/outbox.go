package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Message is a pending outbox row.
type Message struct {
	ID        string
	Kind      Kind
	Recipient string
	Data      map[string]string
	Attempts  int
	CreatedAt time.Time
}

// Outbox persists notifications into the notification_outbox table. It
// implements Notifier.
type Outbox struct {
	pool *pgxpool.Pool
}

// NewOutbox wires a pgxpool-backed outbox.
func NewOutbox(pool *pgxpool.Pool) *Outbox {
	return &Outbox{pool: pool}
}

// Notify enqueues one notification row.
func (o *Outbox) Notify(ctx context.Context, kind Kind, recipient string, data map[string]string) error {
	if recipient == "" {
		return fmt.Errorf("notify: empty recipient")
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("notify: marshal payload: %w", err)
	}

	_, err = o.pool.Exec(ctx, `
		INSERT INTO notification_outbox (kind, recipient, payload)
		VALUES ($1, $2, $3::jsonb)
	`, kind, recipient, payload)
	if err != nil {
		return fmt.Errorf("notify: enqueue: %w", err)
	}
	return nil
}

// Sender delivers one rendered e-mail.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

const maxAttempts = 5

// Dispatcher drains the outbox in the background. Rows are claimed with
// SKIP LOCKED so multiple processes can dispatch concurrently; delivery is
// at-least-once.
type Dispatcher struct {
	pool     *pgxpool.Pool
	sender   Sender
	logger   *zap.Logger
	interval time.Duration
}

// NewDispatcher builds a Dispatcher polling at the given interval.
func NewDispatcher(pool *pgxpool.Pool, sender Sender, logger *zap.Logger, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Dispatcher{
		pool:     pool,
		sender:   sender,
		logger:   logger,
		interval: interval,
	}
}

// Run polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.DispatchPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Error("notification dispatch pass failed", zap.Error(err))
			}
		}
	}
}

// claimLease is how long a claimed row stays invisible to other dispatchers.
// A claim whose process died is retried after the lease expires.
const claimLease = time.Minute

// DispatchPending claims and sends one batch of pending notifications. The
// claim is a single statement that bumps attempts and stamps a lease, so no
// row locks are held while the sender talks to the network.
func (d *Dispatcher) DispatchPending(ctx context.Context) error {
	rows, err := d.pool.Query(ctx, `
		UPDATE notification_outbox
		SET attempts = attempts + 1, claimed_at = now()
		WHERE id IN (
			SELECT id
			FROM notification_outbox
			WHERE status = 'pending' AND attempts < $1
			  AND (claimed_at IS NULL OR claimed_at < now() - make_interval(secs => $2))
			ORDER BY created_at
			LIMIT 20
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, recipient, payload, attempts, created_at
	`, maxAttempts, claimLease.Seconds())
	if err != nil {
		return fmt.Errorf("notify: claim batch: %w", err)
	}

	batch, err := scanMessages(rows)
	if err != nil {
		return err
	}

	for _, msg := range batch {
		subject, html, err := Render(msg.Kind, msg.Data)
		if err != nil {
			// Unknown kind or bad payload: park it so it stops recycling.
			d.logger.Error("notification unrenderable",
				zap.String("id", msg.ID), zap.String("kind", string(msg.Kind)), zap.Error(err))
			if _, err := d.pool.Exec(ctx, `UPDATE notification_outbox SET status = 'failed' WHERE id = $1`, msg.ID); err != nil {
				return fmt.Errorf("notify: park message: %w", err)
			}
			continue
		}

		if err := d.sender.Send(ctx, msg.Recipient, subject, html); err != nil {
			d.logger.Warn("notification send failed",
				zap.String("id", msg.ID), zap.String("kind", string(msg.Kind)),
				zap.Int("attempts", msg.Attempts), zap.Error(err))
			status := "pending"
			if msg.Attempts >= maxAttempts {
				status = "failed"
			}
			// Clearing the lease lets the next pass retry right away.
			if _, err := d.pool.Exec(ctx, `UPDATE notification_outbox SET status = $2, claimed_at = NULL WHERE id = $1`, msg.ID, status); err != nil {
				return fmt.Errorf("notify: record failure: %w", err)
			}
			continue
		}

		if _, err := d.pool.Exec(ctx, `UPDATE notification_outbox SET status = 'sent', sent_at = now() WHERE id = $1`, msg.ID); err != nil {
			return fmt.Errorf("notify: record sent: %w", err)
		}
	}
	return nil
}

func scanMessages(rows pgx.Rows) ([]Message, error) {
	defer rows.Close()

	out := make([]Message, 0, 20)
	for rows.Next() {
		var (
			msg     Message
			payload []byte
		)
		if err := rows.Scan(&msg.ID, &msg.Kind, &msg.Recipient, &payload, &msg.Attempts, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("notify: scan message: %w", err)
		}
		if err := json.Unmarshal(payload, &msg.Data); err != nil {
			return nil, fmt.Errorf("notify: unmarshal payload: %w", err)
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notify: iterate batch: %w", err)
	}
	return out, nil
}
