package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (s *Service) ListEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.store.ListEmployees(ctx, filter)
}

func (s *Service) ListActiveEmployees(ctx context.Context) ([]*domain.Employee, error) {
	return s.ListEmployees(ctx, domain.EmployeeFilter{ActiveOnly: true})
}

func (s *Service) SearchEmployees(ctx context.Context, term string) ([]*domain.Employee, error) {
	return s.ListEmployees(ctx, domain.EmployeeFilter{Search: term})
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	employee, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, lookupError("Employee", id, err)
	}
	return employee, nil
}

func (s *Service) AddEmployee(ctx context.Context, employee *domain.Employee) error {
	normalizeEmployee(employee)

	if err := s.validator.ValidateEmployee(employee); err != nil {
		return s.observe("add_employee", err)
	}

	err := s.store.InTx(ctx, func(tx Store) error {
		exists, err := tx.EmailExists(ctx, employee.Email, 0)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return &domain.DuplicateKeyError{Entity: "Employee", Field: "email", Value: employee.Email}
		}

		return tx.CreateEmployee(ctx, employee)
	})

	return s.observe("add_employee", err)
}

func (s *Service) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	normalizeEmployee(employee)

	if err := s.validator.ValidateEmployee(employee); err != nil {
		return s.observe("update_employee", err)
	}

	err := s.store.InTx(ctx, func(tx Store) error {
		if _, err := tx.GetEmployee(ctx, employee.ID); err != nil {
			return lookupError("Employee", employee.ID, err)
		}

		exists, err := tx.EmailExists(ctx, employee.Email, employee.ID)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return &domain.DuplicateKeyError{Entity: "Employee", Field: "email", Value: employee.Email}
		}

		return tx.UpdateEmployee(ctx, employee)
	})

	return s.observe("update_employee", err)
}

// DeleteEmployee removes an employee that was never assigned anything.
// Anyone with ledger history has to be deactivated instead.
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(tx Store) error {
		employee, err := tx.GetEmployee(ctx, id)
		if err != nil {
			return lookupError("Employee", id, err)
		}

		count, err := tx.CountEmployeeAssignments(ctx, id)
		if err != nil {
			return fmt.Errorf("count assignments of employee %d: %w", id, err)
		}
		if count.Total > 0 {
			return &domain.CannotDeleteError{Entity: "Employee", Name: employee.FullName, Records: count.Total}
		}

		return tx.DeleteEmployee(ctx, id)
	})

	return s.observe("delete_employee", err)
}

// CanDeleteEmployee applies the DeleteEmployee rule without raising.
func (s *Service) CanDeleteEmployee(ctx context.Context, id int64) (bool, error) {
	count, err := s.store.CountEmployeeAssignments(ctx, id)
	if err != nil {
		return false, err
	}
	return count.Total == 0, nil
}

func normalizeEmployee(employee *domain.Employee) {
	employee.FullName = strings.TrimSpace(employee.FullName)
	employee.Department = strings.TrimSpace(employee.Department)
	employee.Email = strings.TrimSpace(employee.Email)
	employee.Designation = strings.TrimSpace(employee.Designation)
	employee.PhoneNumber = optionalText(employee.PhoneNumber)
}
