package brokerage

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

var (
	// ErrNotFound signals the requested brokerage does not exist.
	ErrNotFound = errors.New("brokerage: not found")
	// ErrProfileExists signals the user already has a brokerage profile.
	ErrProfileExists = errors.New("brokerage: profile already exists")
)

// Repository defines data access for brokerage profiles.
type Repository interface {
	Create(ctx context.Context, profile Profile) (Profile, error)
	GetByID(ctx context.Context, id string) (Profile, error)
	GetByUserID(ctx context.Context, userID string) (Profile, error)
	Update(ctx context.Context, profile Profile) (Profile, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed brokerage repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const profileColumns = `id, user_id, company_name, location, logo_url, description, standard_offer, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, profile Profile) (Profile, error) {
	const insertSQL = `
		INSERT INTO brokerages (user_id, company_name, location, logo_url, description, standard_offer)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		RETURNING ` + profileColumns

	offerJSON, err := json.Marshal(profile.StandardOffer)
	if err != nil {
		return Profile{}, fmt.Errorf("brokerage: marshal standard offer: %w", err)
	}

	created, err := scanProfile(r.pool.QueryRow(ctx, insertSQL,
		profile.UserID,
		profile.CompanyName,
		profile.Location,
		profile.LogoURL,
		profile.Description,
		offerJSON,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Profile{}, ErrProfileExists
		}
		return Profile{}, fmt.Errorf("brokerage: create profile: %w", err)
	}
	return created, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Profile, error) {
	const selectSQL = `SELECT ` + profileColumns + ` FROM brokerages WHERE id = $1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("brokerage: get by id: %w", err)
	}
	return profile, nil
}

func (r *PGRepository) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	const selectSQL = `SELECT ` + profileColumns + ` FROM brokerages WHERE user_id = $1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, selectSQL, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("brokerage: get by user id: %w", err)
	}
	return profile, nil
}

func (r *PGRepository) Update(ctx context.Context, profile Profile) (Profile, error) {
	const updateSQL = `
		UPDATE brokerages
		SET company_name = $2,
		    location = $3,
		    logo_url = $4,
		    description = $5,
		    standard_offer = $6::jsonb,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + profileColumns

	offerJSON, err := json.Marshal(profile.StandardOffer)
	if err != nil {
		return Profile{}, fmt.Errorf("brokerage: marshal standard offer: %w", err)
	}

	updated, err := scanProfile(r.pool.QueryRow(ctx, updateSQL,
		profile.ID,
		profile.CompanyName,
		profile.Location,
		profile.LogoURL,
		profile.Description,
		offerJSON,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("brokerage: update profile: %w", err)
	}
	return updated, nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var (
		profile   Profile
		offerJSON []byte
	)
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.CompanyName,
		&profile.Location,
		&profile.LogoURL,
		&profile.Description,
		&offerJSON,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return Profile{}, err
	}

	var standardOffer offer.Offer
	if err := json.Unmarshal(offerJSON, &standardOffer); err != nil {
		return Profile{}, fmt.Errorf("brokerage: unmarshal standard offer: %w", err)
	}
	profile.StandardOffer = standardOffer
	return profile, nil
}
