package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/data/pgxutil"
)

// CredentialRepo stores local email/password credentials. Only bcrypt hashes
// are persisted; email matching is case-insensitive (stored lowercased).
type CredentialRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(db *sql.DB) *CredentialRepo {
	return &CredentialRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create registers credentials for a new user.
func (r *CredentialRepo) Create(ctx context.Context, cred *core.Credential) error {
	if cred == nil {
		return errors.New("credential is required")
	}
	if strings.TrimSpace(cred.UserID) == "" {
		return errors.New("user_id is required")
	}
	email := normalizeEmail(cred.Email)
	if email == "" {
		return errors.New("email is required")
	}
	if cred.PasswordHash == "" {
		return errors.New("password_hash is required")
	}

	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.timeProvider.Now()
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO credentials (user_id, email, password_hash, created_at)
			VALUES ($1, $2, $3, $4)`,
			cred.UserID, email, cred.PasswordHash, createdAt.UTC(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create credentials: %w", mapPgError(err, ErrEmailTaken))
	}
	return nil
}

// GetByEmail retrieves credentials by email.
func (r *CredentialRepo) GetByEmail(ctx context.Context, email string) (*core.Credential, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrCredentialNotFound
	}

	var out core.Credential
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT user_id, email, password_hash, created_at
			FROM credentials WHERE email = $1`, email)
		return row.Scan(&out.UserID, &out.Email, &out.PasswordHash, &out.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to get credentials: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// normalizeEmail lowercases and trims an email address for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
