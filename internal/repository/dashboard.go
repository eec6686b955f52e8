package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (r *Repository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM assets),
			(SELECT COUNT(*) FROM assets WHERE status = 'Available'),
			(SELECT COUNT(*) FROM assets WHERE status = 'Assigned'),
			(SELECT COUNT(*) FROM assets WHERE status = 'Under Repair'),
			(SELECT COUNT(*) FROM assets WHERE status = 'Retired'),
			(SELECT COUNT(*) FROM assets WHERE is_spare),
			(SELECT COUNT(*) FROM employees),
			(SELECT COUNT(*) FROM employees WHERE is_active),
			(SELECT COUNT(*) FROM asset_assignments WHERE returned_date IS NULL),
			(SELECT COUNT(*) FROM asset_assignments)
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	stats := &domain.DashboardStats{}
	dst := []any{
		&stats.TotalAssets,
		&stats.AvailableAssets,
		&stats.AssignedAssets,
		&stats.UnderRepairAssets,
		&stats.RetiredAssets,
		&stats.SpareAssets,
		&stats.TotalEmployees,
		&stats.ActiveEmployees,
		&stats.ActiveAssignments,
		&stats.TotalAssignments,
	}
	if err := r.conn().QueryRowContext(ctx, query).Scan(dst...); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *Repository) AssetTypeCounts(ctx context.Context) ([]domain.AssetTypeCount, error) {
	query := `
		SELECT asset_type, COUNT(*) FROM assets
		GROUP BY asset_type
		ORDER BY COUNT(*) DESC, asset_type
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.conn().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.AssetTypeCount, 0)
	for rows.Next() {
		var c domain.AssetTypeCount
		if err := rows.Scan(&c.AssetType, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *Repository) WarrantyExpiring(ctx context.Context, from, to time.Time, limit int) ([]*domain.Asset, error) {
	query := "SELECT" + assetColumns + `
		FROM assets
		WHERE warranty_expiry_date IS NOT NULL
			AND warranty_expiry_date BETWEEN $1 AND $2
			AND status <> 'Retired'
		ORDER BY warranty_expiry_date, id
		LIMIT $3
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.conn().QueryContext(ctx, query, from, to, limit)
	if err != nil {
		return nil, err
	}

	return scanAssets(rows)
}
