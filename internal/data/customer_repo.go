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

const customerColumns = "id, owner_id, name, email, phone, company, notes, created_at, updated_at"

// CustomerRepo provides database operations for customers, scoped per owner.
type CustomerRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCustomerRepo creates a new CustomerRepo.
func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts a new customer.
func (r *CustomerRepo) Create(ctx context.Context, ownerID string, req *model.CreateCustomerRequest) (*model.Customer, error) {
	if req == nil {
		return nil, errors.New("create customer request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.Customer
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO customers (id, owner_id, name, email, phone, company, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING `+customerColumns,
			uuid.NewString(),
			ownerID,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Email),
			strings.TrimSpace(req.Phone),
			strings.TrimSpace(req.Company),
			req.Notes,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Customer])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// GetByID retrieves a customer by ID for the given owner.
func (r *CustomerRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Customer, error) {
	var out model.Customer
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+customerColumns+` FROM customers WHERE owner_id = $1 AND id = $2`, ownerID, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Customer])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// List retrieves customers for the owner with pagination, newest first.
func (r *CustomerRepo) List(ctx context.Context, ownerID string, limit, offset int) ([]*model.Customer, error) {
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)

	var rowsOut []model.Customer
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+customerColumns+` FROM customers WHERE owner_id = $1
			 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, ownerID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Customer])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", mapPgError(err, nil))
	}

	res := make([]*model.Customer, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a customer.
func (r *CustomerRepo) Update(ctx context.Context, ownerID, id string, req model.UpdateCustomerRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := make([]string, 0, 6)
	args := make([]any, 0, 6)
	appendSet := func(col string, v any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, v)
	}
	if req.Name != nil {
		appendSet("name", strings.TrimSpace(*req.Name))
	}
	if req.Email != nil {
		appendSet("email", strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		appendSet("phone", strings.TrimSpace(*req.Phone))
	}
	if req.Company != nil {
		appendSet("company", strings.TrimSpace(*req.Company))
	}
	if req.Notes != nil {
		appendSet("notes", *req.Notes)
	}

	var out model.Customer
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if len(setParts) == 0 {
			rows, err := conn.Query(ctx,
				`SELECT `+customerColumns+` FROM customers WHERE owner_id = $1 AND id = $2`, ownerID, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Customer])
			return e
		}
		appendSet("updated_at", r.timeProvider.Now().UTC())
		args = append(args, ownerID, id)
		query := "UPDATE customers SET " + strings.Join(setParts, ", ") +
			" WHERE owner_id = $" + strconv.Itoa(len(args)-1) +
			" AND id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + customerColumns
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Customer])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// Delete removes a customer; returns false when nothing matched.
func (r *CustomerRepo) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	var deleted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM customers WHERE owner_id = $1 AND id = $2`, ownerID, id)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete customer: %w", mapPgError(err, nil))
	}
	return deleted > 0, nil
}
