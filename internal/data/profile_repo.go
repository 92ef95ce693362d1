package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lindasales/salespro/internal/data/pgxutil"
	"github.com/lindasales/salespro/internal/domain/model"
)

// ProfileRepo provides database operations for durable profile records.
// There is exactly one row per user ID; created_at never changes after the
// first write.
type ProfileRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProfileRepo creates a new ProfileRepo with real time provider.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewProfileRepoWithTimeProvider creates a ProfileRepo with a custom time provider (useful for tests).
func NewProfileRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: tp}
}

// Get retrieves the profile for a user ID.
func (r *ProfileRepo) Get(ctx context.Context, userID string) (*model.Profile, error) {
	var out model.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, username, email, avatar_url, created_at, last_login
			FROM profiles WHERE id = $1`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// Create inserts a brand-new profile record for a first-ever sign-in.
func (r *ProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	if p == nil {
		return errors.New("profile is required")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO profiles (id, username, email, avatar_url, created_at, last_login)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, p.Username, p.Email, p.AvatarURL, p.CreatedAt.UTC(), p.LastLogin.UTC(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", mapPgError(err, ErrProfileExists))
	}
	return nil
}

// Upsert writes the full record. For existing rows created_at is preserved;
// every other attribute is overwritten. Writing identical values twice is
// harmless, so callers may retry freely.
func (r *ProfileRepo) Upsert(ctx context.Context, p *model.Profile) error {
	if p == nil {
		return errors.New("profile is required")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO profiles (id, username, email, avatar_url, created_at, last_login)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				username   = EXCLUDED.username,
				email      = EXCLUDED.email,
				avatar_url = EXCLUDED.avatar_url,
				last_login = EXCLUDED.last_login`,
			p.ID, p.Username, p.Email, p.AvatarURL, p.CreatedAt.UTC(), p.LastLogin.UTC(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", mapPgError(err, nil))
	}
	return nil
}

// TouchLastLogin advances last_login without altering anything else.
func (r *ProfileRepo) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	if at.IsZero() {
		at = r.timeProvider.Now()
	}
	var touched int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			`UPDATE profiles SET last_login = $2 WHERE id = $1`, userID, at.UTC())
		if err != nil {
			return err
		}
		touched = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to touch last_login: %w", mapPgError(err, nil))
	}
	if touched == 0 {
		return ErrProfileNotFound
	}
	return nil
}
