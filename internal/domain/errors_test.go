package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&NotFoundError{Entity: "Asset", ID: 3}, "Asset not found."},
		{&DuplicateKeyError{Entity: "Asset", Field: "serial number", Value: "X"}, "An asset with this serial number already exists."},
		{&InvalidStatusError{Status: "Lost"}, "Invalid status: Lost"},
		{&IllegalTransitionError{From: AssetStatusAvailable, To: AssetStatusAssigned}, "Cannot manually set status to 'Assigned'. Use the assignment process instead."},
		{&IllegalTransitionError{From: AssetStatusAssigned, To: AssetStatusRetired}, "Cannot manually change status from 'Assigned'. Return the asset instead."},
		{&AssetNotAvailableError{AssetName: "MacBook Pro 14", Status: AssetStatusUnderRepair}, "Asset 'MacBook Pro 14' is not available. Current status: Under Repair"},
		{&EmployeeNotActiveError{FullName: "David Brown"}, "Employee 'David Brown' is not active. Cannot assign assets to inactive employees."},
		{&AssetAlreadyAssignedError{}, "Asset is already assigned to another employee."},
		{&AlreadyReturnedError{ReturnedDate: time.Date(2026, time.March, 4, 15, 0, 0, 0, time.UTC)}, "This asset was already returned on 2026-03-04."},
		{&CannotDeleteError{Entity: "Asset", Name: "iPhone 13", Records: 2, Open: true}, "Cannot delete asset 'iPhone 13'. This asset is currently assigned to an employee. Please return the asset before deleting."},
		{&CannotDeleteError{Entity: "Asset", Name: "iPhone 13", Records: 1}, "Cannot delete asset 'iPhone 13'. This asset has 1 assignment record(s). Please mark as Retired instead."},
		{&CannotDeleteError{Entity: "Employee", Name: "John Doe", Records: 3}, "Cannot delete employee 'John Doe'. This employee has 3 assignment record(s). Please mark as inactive instead."},
		{&CannotDeleteError{Entity: "Employee", Name: "John Doe"}, "Cannot delete employee 'John Doe'. It is referenced by assignment records."},
		{&ValidationError{Fields: []FieldError{{Field: "a", Message: "a is required"}, {Field: "b", Message: "b is too long"}}}, "a is required; b is too long"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "ok", Kind(nil))
	assert.Equal(t, "internal", Kind(errors.New("boom")))
	assert.Equal(t, "not_found", Kind(&NotFoundError{Entity: "Asset"}))
	assert.Equal(t, "cannot_delete", Kind(fmt.Errorf("delete: %w", &CannotDeleteError{Entity: "Asset"})))
	assert.Equal(t, "already_returned", Kind(&AlreadyReturnedError{}))

	assert.True(t, IsBusinessError(&EmployeeNotActiveError{}))
	assert.False(t, IsBusinessError(errors.New("boom")))
	assert.False(t, IsBusinessError(nil))
}

func TestAssetStatusIsValid(t *testing.T) {
	for _, s := range AssetStatuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, AssetStatus("available").IsValid())
	assert.False(t, AssetStatus("").IsValid())
}

func TestDurationDays(t *testing.T) {
	assigned := time.Date(2026, time.October, 1, 10, 0, 0, 0, time.UTC)
	a := Assignment{AssignedDate: assigned}

	assert.True(t, a.IsOpen())
	assert.Equal(t, 0, a.DurationDays(assigned.Add(23*time.Hour)))
	assert.Equal(t, 18, a.DurationDays(assigned.AddDate(0, 0, 18)))

	returned := assigned.AddDate(0, 0, 4)
	a.ReturnedDate = &returned
	assert.False(t, a.IsOpen())
	assert.Equal(t, 4, a.DurationDays(assigned.AddDate(1, 0, 0)))
}

func TestDateOf(t *testing.T) {
	got := DateOf(time.Date(2026, time.October, 19, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), got)
}
