package data

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Shared sentinel errors for data-layer repositories.
var (
	// Profile repository sentinels.
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")

	// Credential repository sentinels.
	ErrCredentialNotFound = errors.New("credentials not found")
	ErrEmailTaken         = errors.New("email already registered")

	// CRM repository sentinels.
	ErrLeadNotFound        = errors.New("lead not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrOfferNotFound       = errors.New("offer not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrPermissionDenied surfaces Postgres privilege failures so the service
	// layer can classify them distinctly from generic write errors.
	ErrPermissionDenied = errors.New("database permission denied")
)

// mapPgError translates low-level Postgres errors into sentinels.
// uniqueSentinel is returned for unique-constraint violations; pass nil to
// propagate them unchanged.
func mapPgError(err error, uniqueSentinel error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if uniqueSentinel != nil {
			return uniqueSentinel
		}
	case pgerrcode.InsufficientPrivilege:
		return ErrPermissionDenied
	}
	return err
}
