package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translateError maps constraint violations raised by postgres onto domain
// errors. subject is the value the caller was writing (serial number, email,
// asset or employee name) and ends up in the error payload.
func translateError(err error, subject string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolation:
		switch pgErr.ConstraintName {
		case "assets_serial_number_key":
			return &domain.DuplicateKeyError{Entity: "Asset", Field: "serial number", Value: subject}
		case "employees_email_key":
			return &domain.DuplicateKeyError{Entity: "Employee", Field: "email", Value: subject}
		case "asset_assignments_open_asset_key":
			return &domain.AssetAlreadyAssignedError{AssetName: subject}
		}
	case foreignKeyViolation:
		switch pgErr.ConstraintName {
		case "asset_assignments_asset_id_fkey":
			return &domain.CannotDeleteError{Entity: "Asset", Name: subject}
		case "asset_assignments_employee_id_fkey":
			return &domain.CannotDeleteError{Entity: "Employee", Name: subject}
		}
	}

	return err
}
