package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

const assetColumns = `
	id,
	asset_name,
	asset_type,
	make_model,
	serial_number,
	purchase_date,
	warranty_expiry_date,
	condition,
	status,
	is_spare,
	specifications
`

func assetDst(asset *domain.Asset) []any {
	return []any{
		&asset.ID,
		&asset.AssetName,
		&asset.AssetType,
		&asset.MakeModel,
		&asset.SerialNumber,
		&asset.PurchaseDate,
		&asset.WarrantyExpiryDate,
		&asset.Condition,
		&asset.Status,
		&asset.IsSpare,
		&asset.Specifications,
	}
}

func scanAssets(rows *sql.Rows) ([]*domain.Asset, error) {
	defer rows.Close()

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset := &domain.Asset{}
		if err := rows.Scan(assetDst(asset)...); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assets, nil
}

func (r *Repository) ListAssets(ctx context.Context, filter domain.AssetFilter) ([]*domain.Asset, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("asset_type = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(asset_name ILIKE $%d OR asset_type ILIKE $%d OR serial_number ILIKE $%d OR make_model ILIKE $%d)",
			n, n, n, n,
		))
	}

	query := "SELECT" + assetColumns + "FROM assets"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY asset_name, id"

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return scanAssets(rows)
}

func (r *Repository) GetAsset(ctx context.Context, id int64) (*domain.Asset, error) {
	query := "SELECT" + assetColumns + "FROM assets WHERE id = $1" + r.lockClause()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	asset := &domain.Asset{}
	if err := r.conn().QueryRowContext(ctx, query, id).Scan(assetDst(asset)...); err != nil {
		return nil, err
	}

	return asset, nil
}

func (r *Repository) ListAssetTypes(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT asset_type FROM assets ORDER BY asset_type
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.conn().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return types, nil
}

func (r *Repository) SerialNumberExists(ctx context.Context, serialNumber string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM assets WHERE serial_number = $1 AND id <> $2)
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	isExists := false
	if err := r.conn().QueryRowContext(ctx, query, serialNumber, excludeID).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) CreateAsset(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (
			asset_name,
			asset_type,
			make_model,
			serial_number,
			purchase_date,
			warranty_expiry_date,
			condition,
			status,
			is_spare,
			specifications
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []any{
		asset.AssetName,
		asset.AssetType,
		asset.MakeModel,
		asset.SerialNumber,
		asset.PurchaseDate,
		asset.WarrantyExpiryDate,
		asset.Condition,
		asset.Status,
		asset.IsSpare,
		asset.Specifications,
	}
	if err := r.conn().QueryRowContext(ctx, query, args...).Scan(&asset.ID); err != nil {
		return translateError(err, asset.SerialNumber)
	}

	return nil
}

func (r *Repository) UpdateAsset(ctx context.Context, asset *domain.Asset) error {
	query := `
		UPDATE assets
		SET
			asset_name = $1,
			asset_type = $2,
			make_model = $3,
			serial_number = $4,
			purchase_date = $5,
			warranty_expiry_date = $6,
			condition = $7,
			is_spare = $8,
			specifications = $9
		WHERE id = $10
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []any{
		asset.AssetName,
		asset.AssetType,
		asset.MakeModel,
		asset.SerialNumber,
		asset.PurchaseDate,
		asset.WarrantyExpiryDate,
		asset.Condition,
		asset.IsSpare,
		asset.Specifications,
		asset.ID,
	}
	result, err := r.conn().ExecContext(ctx, query, args...)
	if err != nil {
		return translateError(err, asset.SerialNumber)
	}

	return expectOneRow(result)
}

func (r *Repository) UpdateAssetStatus(ctx context.Context, id int64, status domain.AssetStatus) error {
	query := `
		UPDATE assets SET status = $1 WHERE id = $2
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.conn().ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	return expectOneRow(result)
}

func (r *Repository) DeleteAsset(ctx context.Context, id int64) error {
	query := `
		DELETE FROM assets WHERE id = $1
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.conn().ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, fmt.Sprintf("#%d", id))
	}

	return expectOneRow(result)
}

// expectOneRow reports sql.ErrNoRows when an update matched nothing.
func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
