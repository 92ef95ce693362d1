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

const offerColumns = "id, owner_id, title, price_cents, currency, created_at, updated_at"

// OfferRepo provides database operations for offers, scoped per owner.
type OfferRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewOfferRepo creates a new OfferRepo.
func NewOfferRepo(db *sql.DB) *OfferRepo {
	return &OfferRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts a new offer.
func (r *OfferRepo) Create(ctx context.Context, ownerID string, req *model.CreateOfferRequest) (*model.Offer, error) {
	if req == nil {
		return nil, errors.New("create offer request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.Offer
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO offers (id, owner_id, title, price_cents, currency, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			RETURNING `+offerColumns,
			uuid.NewString(), ownerID, strings.TrimSpace(req.Title), req.PriceCents, req.Currency, now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Offer])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// GetByID retrieves an offer by ID for the given owner.
func (r *OfferRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Offer, error) {
	var out model.Offer
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+offerColumns+` FROM offers WHERE owner_id = $1 AND id = $2`, ownerID, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Offer])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// List retrieves offers for the owner with pagination, newest first.
func (r *OfferRepo) List(ctx context.Context, ownerID string, limit, offset int) ([]*model.Offer, error) {
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)

	var rowsOut []model.Offer
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+offerColumns+` FROM offers WHERE owner_id = $1
			 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, ownerID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Offer])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", mapPgError(err, nil))
	}

	res := make([]*model.Offer, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of an offer.
func (r *OfferRepo) Update(ctx context.Context, ownerID, id string, req model.UpdateOfferRequest) (*model.Offer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := make([]string, 0, 4)
	args := make([]any, 0, 4)
	appendSet := func(col string, v any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, v)
	}
	if req.Title != nil {
		appendSet("title", strings.TrimSpace(*req.Title))
	}
	if req.PriceCents != nil {
		appendSet("price_cents", *req.PriceCents)
	}
	if req.Currency != nil {
		appendSet("currency", *req.Currency)
	}

	var out model.Offer
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if len(setParts) == 0 {
			rows, err := conn.Query(ctx,
				`SELECT `+offerColumns+` FROM offers WHERE owner_id = $1 AND id = $2`, ownerID, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Offer])
			return e
		}
		appendSet("updated_at", r.timeProvider.Now().UTC())
		args = append(args, ownerID, id)
		query := "UPDATE offers SET " + strings.Join(setParts, ", ") +
			" WHERE owner_id = $" + strconv.Itoa(len(args)-1) +
			" AND id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + offerColumns
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Offer])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to update offer: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// Delete removes an offer; returns false when nothing matched.
func (r *OfferRepo) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	var deleted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM offers WHERE owner_id = $1 AND id = $2`, ownerID, id)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete offer: %w", mapPgError(err, nil))
	}
	return deleted > 0, nil
}
