package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

const assignmentDetailQuery = `
	SELECT
		aa.id,
		aa.asset_id,
		aa.employee_id,
		aa.assigned_date,
		aa.returned_date,
		aa.notes,
		a.asset_name,
		a.asset_type,
		a.serial_number,
		e.full_name,
		e.department,
		e.email
	FROM asset_assignments aa
	JOIN assets a ON a.id = aa.asset_id
	JOIN employees e ON e.id = aa.employee_id
`

func assignmentDst(detail *domain.AssignmentDetail) []any {
	return []any{
		&detail.ID,
		&detail.AssetID,
		&detail.EmployeeID,
		&detail.AssignedDate,
		&detail.ReturnedDate,
		&detail.Notes,
		&detail.AssetName,
		&detail.AssetType,
		&detail.SerialNumber,
		&detail.EmployeeName,
		&detail.Department,
		&detail.EmployeeEmail,
	}
}

func (r *Repository) ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]*domain.AssignmentDetail, error) {
	var (
		conds []string
		args  []any
	)
	if filter.AssetID != nil {
		args = append(args, *filter.AssetID)
		conds = append(conds, fmt.Sprintf("aa.asset_id = $%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conds = append(conds, fmt.Sprintf("aa.employee_id = $%d", len(args)))
	}
	if filter.OpenOnly {
		conds = append(conds, "aa.returned_date IS NULL")
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("aa.assigned_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("aa.assigned_date <= $%d", len(args)))
	}

	query := assignmentDetailQuery
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY aa.assigned_date DESC, aa.id DESC"

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]*domain.AssignmentDetail, 0)
	for rows.Next() {
		detail := &domain.AssignmentDetail{}
		if err := rows.Scan(assignmentDst(detail)...); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}

func (r *Repository) GetAssignment(ctx context.Context, id int64) (*domain.AssignmentDetail, error) {
	query := assignmentDetailQuery + " WHERE aa.id = $1"
	if r.tx != nil {
		query += " FOR UPDATE OF aa"
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	detail := &domain.AssignmentDetail{}
	if err := r.conn().QueryRowContext(ctx, query, id).Scan(assignmentDst(detail)...); err != nil {
		return nil, err
	}

	return detail, nil
}

func (r *Repository) countAssignments(ctx context.Context, column string, id int64) (domain.AssignmentCount, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE returned_date IS NULL)
		FROM asset_assignments WHERE %s = $1
	`, column)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var count domain.AssignmentCount
	if err := r.conn().QueryRowContext(ctx, query, id).Scan(&count.Total, &count.Open); err != nil {
		return domain.AssignmentCount{}, err
	}

	return count, nil
}

func (r *Repository) CountAssetAssignments(ctx context.Context, assetID int64) (domain.AssignmentCount, error) {
	return r.countAssignments(ctx, "asset_id", assetID)
}

func (r *Repository) CountEmployeeAssignments(ctx context.Context, employeeID int64) (domain.AssignmentCount, error) {
	return r.countAssignments(ctx, "employee_id", employeeID)
}

func (r *Repository) CreateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	query := `
		INSERT INTO asset_assignments (asset_id, employee_id, assigned_date, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []any{assignment.AssetID, assignment.EmployeeID, assignment.AssignedDate, assignment.Notes}
	if err := r.conn().QueryRowContext(ctx, query, args...).Scan(&assignment.ID); err != nil {
		return translateError(err, "")
	}

	return nil
}

func (r *Repository) CloseAssignment(ctx context.Context, id int64, returnedDate time.Time) error {
	query := `
		UPDATE asset_assignments SET returned_date = $1 WHERE id = $2 AND returned_date IS NULL
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.conn().ExecContext(ctx, query, returnedDate, id)
	if err != nil {
		return err
	}

	return expectOneRow(result)
}
