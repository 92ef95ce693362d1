package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lindasales/salespro/internal/data/pgxutil"
	"github.com/lindasales/salespro/internal/domain/model"
)

const messageColumns = "id, owner_id, contact, direction, body, sent_at"

// MessageRepo stores conversation messages. Threads are not a table; they are
// derived from messages grouped by contact.
type MessageRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMessageRepo creates a new MessageRepo.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create records a message in a contact thread.
func (r *MessageRepo) Create(ctx context.Context, ownerID string, req *model.CreateMessageRequest) (*model.Message, error) {
	if req == nil {
		return nil, errors.New("create message request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Message
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO messages (id, owner_id, contact, direction, body, sent_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+messageColumns,
			uuid.NewString(), ownerID, strings.TrimSpace(req.Contact),
			string(req.Direction), req.Body, r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Message])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// ListThread returns the messages exchanged with a contact, oldest first.
func (r *MessageRepo) ListThread(ctx context.Context, ownerID, contact string, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	var rowsOut []model.Message
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+messageColumns+` FROM messages
			 WHERE owner_id = $1 AND contact = $2
			 ORDER BY sent_at ASC LIMIT $3`, ownerID, strings.TrimSpace(contact), limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Message])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list thread: %w", mapPgError(err, nil))
	}

	res := make([]*model.Message, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// ListContacts returns the distinct contacts the owner has threads with,
// most recently active first.
func (r *MessageRepo) ListContacts(ctx context.Context, ownerID string) ([]string, error) {
	var contacts []string
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT contact FROM messages
			 WHERE owner_id = $1
			 GROUP BY contact
			 ORDER BY MAX(sent_at) DESC`, ownerID)
		if err != nil {
			return err
		}
		defer rows.Close()
		contacts, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", mapPgError(err, nil))
	}
	return contacts, nil
}
