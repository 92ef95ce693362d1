package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lindasales/salespro/internal/data/pgxutil"
	"github.com/lindasales/salespro/internal/domain/model"
)

const leadColumns = "id, owner_id, name, email, phone, source, status, created_at, updated_at"

// LeadRepo provides database operations for leads. Every query is scoped to
// the owning user; a lead is never visible across owners.
type LeadRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewLeadRepo creates a new LeadRepo with real time provider.
func NewLeadRepo(db *sql.DB) *LeadRepo {
	return &LeadRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewLeadRepoWithTimeProvider creates a LeadRepo with a custom time provider (useful for tests).
func NewLeadRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *LeadRepo {
	return &LeadRepo{DB: db, timeProvider: tp}
}

// Create inserts a new lead.
func (r *LeadRepo) Create(ctx context.Context, ownerID string, req *model.CreateLeadRequest) (*model.Lead, error) {
	if req == nil {
		return nil, errors.New("create lead request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.Lead
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO leads (id, owner_id, name, email, phone, source, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING `+leadColumns,
			uuid.NewString(),
			ownerID,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Email),
			strings.TrimSpace(req.Phone),
			strings.TrimSpace(req.Source),
			req.Status,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Lead])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// GetByID retrieves a lead by ID for the given owner.
func (r *LeadRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Lead, error) {
	var out model.Lead
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+leadColumns+` FROM leads WHERE owner_id = $1 AND id = $2`, ownerID, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Lead])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// List retrieves leads for the owner with optional substring and status filters.
func (r *LeadRepo) List(ctx context.Context, ownerID string, opts model.LeadsListOptions) ([]*model.Lead, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	where := []string{"owner_id = $1"}
	args := []any{ownerID}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		args = append(args, "%"+strings.TrimSpace(*opts.Q)+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(name ILIKE $"+n+" OR email ILIKE $"+n+")")
	}
	if opts.Status != nil {
		args = append(args, *opts.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	args = append(args, limit, offset)
	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	var rowsOut []model.Lead
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Lead])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", mapPgError(err, nil))
	}

	res := make([]*model.Lead, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a lead.
func (r *LeadRepo) Update(ctx context.Context, ownerID, id string, req model.UpdateLeadRequest) (*model.Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClause, args := r.buildUpdateClause(req)
	var out model.Lead
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if setClause == "" {
			rows, err := conn.Query(ctx,
				`SELECT `+leadColumns+` FROM leads WHERE owner_id = $1 AND id = $2`, ownerID, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Lead])
			return e
		}
		args = append(args, ownerID, id)
		query := "UPDATE leads SET " + setClause +
			" WHERE owner_id = $" + strconv.Itoa(len(args)-1) +
			" AND id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + leadColumns
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Lead])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to update lead: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// Delete removes a lead; returns false when nothing matched.
func (r *LeadRepo) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	var deleted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM leads WHERE owner_id = $1 AND id = $2`, ownerID, id)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete lead: %w", mapPgError(err, nil))
	}
	return deleted > 0, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a lead.
func (r *LeadRepo) buildUpdateClause(req model.UpdateLeadRequest) (string, []any) {
	setParts := make([]string, 0, 6)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		setParts = append(setParts, fmt.Sprintf("phone = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Phone))
	}
	if req.Source != nil {
		setParts = append(setParts, fmt.Sprintf("source = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Source))
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}
