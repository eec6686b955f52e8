package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Business rule rejections. Every typed error below unwraps to one of these,
// so callers can test the kind with errors.Is and read the payload with errors.As.
var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateKey         = errors.New("duplicate key")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrIllegalTransition    = errors.New("illegal status transition")
	ErrAssetNotAvailable    = errors.New("asset not available")
	ErrEmployeeNotActive    = errors.New("employee not active")
	ErrAssetAlreadyAssigned = errors.New("asset already assigned")
	ErrAlreadyReturned      = errors.New("already returned")
	ErrCannotDelete         = errors.New("cannot delete")
	ErrValidation           = errors.New("validation failed")
)

type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found.", e.Entity) }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

type DuplicateKeyError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("An %s with this %s already exists.", strings.ToLower(e.Entity), e.Field)
}
func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

type InvalidStatusError struct {
	Status AssetStatus
}

func (e *InvalidStatusError) Error() string { return fmt.Sprintf("Invalid status: %s", e.Status) }
func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

type IllegalTransitionError struct {
	From AssetStatus
	To   AssetStatus
}

func (e *IllegalTransitionError) Error() string {
	if e.To == AssetStatusAssigned {
		return "Cannot manually set status to 'Assigned'. Use the assignment process instead."
	}
	return fmt.Sprintf("Cannot manually change status from '%s'. Return the asset instead.", e.From)
}
func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }

type AssetNotAvailableError struct {
	AssetName string
	Status    AssetStatus
}

func (e *AssetNotAvailableError) Error() string {
	return fmt.Sprintf("Asset '%s' is not available. Current status: %s", e.AssetName, e.Status)
}
func (e *AssetNotAvailableError) Unwrap() error { return ErrAssetNotAvailable }

type EmployeeNotActiveError struct {
	FullName string
}

func (e *EmployeeNotActiveError) Error() string {
	return fmt.Sprintf("Employee '%s' is not active. Cannot assign assets to inactive employees.", e.FullName)
}
func (e *EmployeeNotActiveError) Unwrap() error { return ErrEmployeeNotActive }

type AssetAlreadyAssignedError struct {
	AssetName string
}

func (e *AssetAlreadyAssignedError) Error() string {
	if e.AssetName == "" {
		return "Asset is already assigned to another employee."
	}
	return fmt.Sprintf("Asset '%s' is already assigned to another employee.", e.AssetName)
}
func (e *AssetAlreadyAssignedError) Unwrap() error { return ErrAssetAlreadyAssigned }

type AlreadyReturnedError struct {
	ReturnedDate time.Time
}

func (e *AlreadyReturnedError) Error() string {
	return fmt.Sprintf("This asset was already returned on %s.", e.ReturnedDate.Format(DateLayout))
}
func (e *AlreadyReturnedError) Unwrap() error { return ErrAlreadyReturned }

type CannotDeleteError struct {
	Entity  string
	Name    string
	Records int
	Open    bool
}

func (e *CannotDeleteError) Error() string {
	switch {
	case e.Open:
		return fmt.Sprintf("Cannot delete %s '%s'. This %s is currently assigned to an employee. Please return the %s before deleting.",
			strings.ToLower(e.Entity), e.Name, strings.ToLower(e.Entity), strings.ToLower(e.Entity))
	case e.Records <= 0:
		// raised by the store when a restrict foreign key fires and no count is known
		return fmt.Sprintf("Cannot delete %s '%s'. It is referenced by assignment records.", strings.ToLower(e.Entity), e.Name)
	case e.Entity == "Employee":
		return fmt.Sprintf("Cannot delete employee '%s'. This employee has %d assignment record(s). Please mark as inactive instead.", e.Name, e.Records)
	default:
		return fmt.Sprintf("Cannot delete %s '%s'. This %s has %d assignment record(s). Please mark as Retired instead.",
			strings.ToLower(e.Entity), e.Name, strings.ToLower(e.Entity), e.Records)
	}
}
func (e *CannotDeleteError) Unwrap() error { return ErrCannotDelete }

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field violation of one entity.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "Validation failed."
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}
func (e *ValidationError) Unwrap() error { return ErrValidation }

var kinds = []struct {
	err  error
	name string
}{
	{ErrNotFound, "not_found"},
	{ErrDuplicateKey, "duplicate_key"},
	{ErrInvalidStatus, "invalid_status"},
	{ErrIllegalTransition, "illegal_transition"},
	{ErrAssetNotAvailable, "asset_not_available"},
	{ErrEmployeeNotActive, "employee_not_active"},
	{ErrAssetAlreadyAssigned, "asset_already_assigned"},
	{ErrAlreadyReturned, "already_returned"},
	{ErrCannotDelete, "cannot_delete"},
	{ErrValidation, "validation"},
}

// Kind names the business rejection carried by err: "ok" for nil,
// "internal" for anything outside the taxonomy.
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}

// IsBusinessError reports whether err belongs to the rejection taxonomy.
func IsBusinessError(err error) bool {
	k := Kind(err)
	return k != "ok" && k != "internal"
}
