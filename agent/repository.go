package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound signals the requested agent does not exist.
	ErrNotFound = errors.New("agent: not found")
	// ErrProfileExists signals the user already has an agent profile.
	ErrProfileExists = errors.New("agent: profile already exists")
)

// Repository defines data access for agent profiles.
type Repository interface {
	Create(ctx context.Context, profile Profile) (Profile, error)
	GetByID(ctx context.Context, id string) (Profile, error)
	GetByUserID(ctx context.Context, userID string) (Profile, error)
	Update(ctx context.Context, profile Profile) (Profile, error)
	List(ctx context.Context, filters Filters) ([]Profile, error)
	RevealIdentity(ctx context.Context, agentID string) error
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed agent repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const profileColumns = `id, user_id, anonymous_id, name, license_number, years_experience, sales_volume::text, current_broker, wish_list, is_anonymous, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, profile Profile) (Profile, error) {
	const insertSQL = `
		INSERT INTO agents (user_id, anonymous_id, name, license_number, years_experience, sales_volume, current_broker, wish_list, is_anonymous)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9)
		RETURNING ` + profileColumns

	created, err := scanProfile(r.pool.QueryRow(ctx, insertSQL,
		profile.UserID,
		profile.AnonymousID,
		profile.Name,
		profile.LicenseNumber,
		profile.YearsExperience,
		profile.SalesVolume.String(),
		profile.CurrentBroker,
		profile.WishList,
		profile.IsAnonymous,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Profile{}, ErrProfileExists
		}
		return Profile{}, fmt.Errorf("agent: create profile: %w", err)
	}
	return created, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Profile, error) {
	const selectSQL = `SELECT ` + profileColumns + ` FROM agents WHERE id = $1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("agent: get by id: %w", err)
	}
	return profile, nil
}

func (r *PGRepository) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	const selectSQL = `SELECT ` + profileColumns + ` FROM agents WHERE user_id = $1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, selectSQL, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("agent: get by user id: %w", err)
	}
	return profile, nil
}

func (r *PGRepository) Update(ctx context.Context, profile Profile) (Profile, error) {
	const updateSQL = `
		UPDATE agents
		SET name = $2,
		    license_number = $3,
		    years_experience = $4,
		    sales_volume = $5::numeric,
		    current_broker = $6,
		    wish_list = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + profileColumns

	updated, err := scanProfile(r.pool.QueryRow(ctx, updateSQL,
		profile.ID,
		profile.Name,
		profile.LicenseNumber,
		profile.YearsExperience,
		profile.SalesVolume.String(),
		profile.CurrentBroker,
		profile.WishList,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("agent: update profile: %w", err)
	}
	return updated, nil
}

// List returns discoverable agents ordered by sales volume descending.
func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM agents
		WHERE years_experience >= $1 AND sales_volume >= $2::numeric`
	args := []any{filters.MinExperience, filters.MinVolume.String()}

	if len(filters.WishTags) > 0 {
		query += fmt.Sprintf(" AND wish_list && $%d", len(args)+1)
		args = append(args, filters.WishTags)
	}
	query += " ORDER BY sales_volume DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("agent: list: %w", err)
	}
	defer rows.Close()

	profiles := make([]Profile, 0, 16)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("agent: scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agent: iterate profiles: %w", err)
	}
	return profiles, nil
}

// RevealIdentity clears the denormalized anonymity hint. Contact visibility
// is always decided per pitch; this flag only feeds display copy.
func (r *PGRepository) RevealIdentity(ctx context.Context, agentID string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE agents SET is_anonymous = FALSE, updated_at = now() WHERE id = $1`, agentID)
	if err != nil {
		return fmt.Errorf("agent: reveal identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var (
		profile Profile
		volume  string
	)
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.AnonymousID,
		&profile.Name,
		&profile.LicenseNumber,
		&profile.YearsExperience,
		&volume,
		&profile.CurrentBroker,
		&profile.WishList,
		&profile.IsAnonymous,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return Profile{}, err
	}

	profile.SalesVolume, err = decimal.NewFromString(volume)
	if err != nil {
		return Profile{}, fmt.Errorf("agent: parse sales volume: %w", err)
	}
	return profile, nil
}
