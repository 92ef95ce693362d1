package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lindasales/salespro/internal/data/pgxutil"
	"github.com/lindasales/salespro/internal/domain/model"
)

const appointmentColumns = "id, owner_id, title, with_contact, starts_at, notes, created_at, updated_at"

// AppointmentRepo provides database operations for appointments, scoped per owner.
type AppointmentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAppointmentRepo creates a new AppointmentRepo.
func NewAppointmentRepo(db *sql.DB) *AppointmentRepo {
	return &AppointmentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts a new appointment.
func (r *AppointmentRepo) Create(ctx context.Context, ownerID string, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req == nil {
		return nil, errors.New("create appointment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.Appointment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO appointments (id, owner_id, title, with_contact, starts_at, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			RETURNING `+appointmentColumns,
			uuid.NewString(), ownerID, strings.TrimSpace(req.Title),
			strings.TrimSpace(req.With), req.StartsAt.UTC(), req.Notes, now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Appointment])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// GetByID retrieves an appointment by ID for the given owner.
func (r *AppointmentRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Appointment, error) {
	var out model.Appointment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+appointmentColumns+` FROM appointments WHERE owner_id = $1 AND id = $2`, ownerID, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Appointment])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// ListUpcoming returns appointments starting at or after the given instant, soonest first.
func (r *AppointmentRepo) ListUpcoming(ctx context.Context, ownerID string, from time.Time, limit int) ([]*model.Appointment, error) {
	if limit <= 0 {
		limit = 50
	}

	var rowsOut []model.Appointment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+appointmentColumns+` FROM appointments
			 WHERE owner_id = $1 AND starts_at >= $2
			 ORDER BY starts_at ASC LIMIT $3`, ownerID, from.UTC(), limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Appointment])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", mapPgError(err, nil))
	}

	res := make([]*model.Appointment, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of an appointment.
func (r *AppointmentRepo) Update(ctx context.Context, ownerID, id string, req model.UpdateAppointmentRequest) (*model.Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := make([]string, 0, 5)
	args := make([]any, 0, 5)
	appendSet := func(col string, v any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, v)
	}
	if req.Title != nil {
		appendSet("title", strings.TrimSpace(*req.Title))
	}
	if req.With != nil {
		appendSet("with_contact", strings.TrimSpace(*req.With))
	}
	if req.StartsAt != nil {
		appendSet("starts_at", req.StartsAt.UTC())
	}
	if req.Notes != nil {
		appendSet("notes", *req.Notes)
	}

	var out model.Appointment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if len(setParts) == 0 {
			rows, err := conn.Query(ctx,
				`SELECT `+appointmentColumns+` FROM appointments WHERE owner_id = $1 AND id = $2`, ownerID, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Appointment])
			return e
		}
		appendSet("updated_at", r.timeProvider.Now().UTC())
		args = append(args, ownerID, id)
		query := "UPDATE appointments SET " + strings.Join(setParts, ", ") +
			" WHERE owner_id = $" + strconv.Itoa(len(args)-1) +
			" AND id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + appointmentColumns
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Appointment])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to update appointment: %w", mapPgError(err, nil))
	}
	return &out, nil
}

// Delete removes an appointment; returns false when nothing matched.
func (r *AppointmentRepo) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	var deleted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM appointments WHERE owner_id = $1 AND id = $2`, ownerID, id)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete appointment: %w", mapPgError(err, nil))
	}
	return deleted > 0, nil
}
