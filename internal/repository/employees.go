package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (r *Repository) ListEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(full_name ILIKE $%d OR department ILIKE $%d OR email ILIKE $%d OR designation ILIKE $%d)",
			n, n, n, n,
		))
	}

	query := `
		SELECT id, full_name, department, email, phone_number, designation, is_active
		FROM employees
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY full_name, id"

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{}
		dst := []any{
			&employee.ID,
			&employee.FullName,
			&employee.Department,
			&employee.Email,
			&employee.PhoneNumber,
			&employee.Designation,
			&employee.IsActive,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `
		SELECT full_name, department, email, phone_number, designation, is_active
		FROM employees WHERE id = $1
	` + r.lockClause()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	employee := &domain.Employee{
		ID: id,
	}

	dst := []any{
		&employee.FullName,
		&employee.Department,
		&employee.Email,
		&employee.PhoneNumber,
		&employee.Designation,
		&employee.IsActive,
	}
	if err := r.conn().QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM employees WHERE email = $1 AND id <> $2)
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	isExists := false
	if err := r.conn().QueryRowContext(ctx, query, email, excludeID).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (full_name, department, email, phone_number, designation, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []any{
		employee.FullName,
		employee.Department,
		employee.Email,
		employee.PhoneNumber,
		employee.Designation,
		employee.IsActive,
	}
	if err := r.conn().QueryRowContext(ctx, query, args...).Scan(&employee.ID); err != nil {
		return translateError(err, employee.Email)
	}

	return nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			full_name = $1,
			department = $2,
			email = $3,
			phone_number = $4,
			designation = $5,
			is_active = $6
		WHERE id = $7
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []any{
		employee.FullName,
		employee.Department,
		employee.Email,
		employee.PhoneNumber,
		employee.Designation,
		employee.IsActive,
		employee.ID,
	}
	result, err := r.conn().ExecContext(ctx, query, args...)
	if err != nil {
		return translateError(err, employee.Email)
	}

	return expectOneRow(result)
}

func (r *Repository) DeleteEmployee(ctx context.Context, id int64) error {
	query := `
		DELETE FROM employees WHERE id = $1
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.conn().ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, fmt.Sprintf("#%d", id))
	}

	return expectOneRow(result)
}
