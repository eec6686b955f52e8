package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (s *Service) ListAssets(ctx context.Context, filter domain.AssetFilter) ([]*domain.Asset, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{
			Field:   "status",
			Message: (&domain.InvalidStatusError{Status: filter.Status}).Error(),
		}}}
	}
	filter.Type = strings.TrimSpace(filter.Type)
	filter.Search = strings.TrimSpace(filter.Search)

	return s.store.ListAssets(ctx, filter)
}

func (s *Service) ListAvailableAssets(ctx context.Context) ([]*domain.Asset, error) {
	return s.ListAssets(ctx, domain.AssetFilter{Status: domain.AssetStatusAvailable})
}

func (s *Service) SearchAssets(ctx context.Context, term string) ([]*domain.Asset, error) {
	return s.ListAssets(ctx, domain.AssetFilter{Search: term})
}

func (s *Service) GetAsset(ctx context.Context, id int64) (*domain.Asset, error) {
	asset, err := s.store.GetAsset(ctx, id)
	if err != nil {
		return nil, lookupError("Asset", id, err)
	}
	return asset, nil
}

func (s *Service) ListAssetTypes(ctx context.Context) ([]string, error) {
	return s.store.ListAssetTypes(ctx)
}

// AddAsset stores a new asset. The caller supplied status is ignored: new
// assets always start out Available.
func (s *Service) AddAsset(ctx context.Context, asset *domain.Asset) error {
	normalizeAsset(asset)
	asset.Status = domain.AssetStatusAvailable

	if err := s.validator.ValidateAsset(asset); err != nil {
		return s.observe("add_asset", err)
	}

	err := s.store.InTx(ctx, func(tx Store) error {
		exists, err := tx.SerialNumberExists(ctx, asset.SerialNumber, 0)
		if err != nil {
			return fmt.Errorf("check serial number: %w", err)
		}
		if exists {
			return &domain.DuplicateKeyError{Entity: "Asset", Field: "serial number", Value: asset.SerialNumber}
		}

		return tx.CreateAsset(ctx, asset)
	})

	return s.observe("add_asset", err)
}

// UpdateAsset overwrites every field except status, which only changes
// through ChangeStatus or the assignment lifecycle.
func (s *Service) UpdateAsset(ctx context.Context, asset *domain.Asset) error {
	normalizeAsset(asset)

	if err := s.validator.ValidateAsset(asset); err != nil {
		return s.observe("update_asset", err)
	}

	err := s.store.InTx(ctx, func(tx Store) error {
		current, err := tx.GetAsset(ctx, asset.ID)
		if err != nil {
			return lookupError("Asset", asset.ID, err)
		}

		exists, err := tx.SerialNumberExists(ctx, asset.SerialNumber, asset.ID)
		if err != nil {
			return fmt.Errorf("check serial number: %w", err)
		}
		if exists {
			return &domain.DuplicateKeyError{Entity: "Asset", Field: "serial number", Value: asset.SerialNumber}
		}

		asset.Status = current.Status
		return tx.UpdateAsset(ctx, asset)
	})

	return s.observe("update_asset", err)
}

// ChangeStatus is the manual path through the status machine.
func (s *Service) ChangeStatus(ctx context.Context, id int64, status domain.AssetStatus) error {
	err := s.store.InTx(ctx, func(tx Store) error {
		asset, err := tx.GetAsset(ctx, id)
		if err != nil {
			return lookupError("Asset", id, err)
		}

		if err := checkManualTransition(asset.Status, status); err != nil {
			return err
		}
		if asset.Status == status {
			return nil
		}

		return tx.UpdateAssetStatus(ctx, id, status)
	})

	return s.observe("change_status", err)
}

// DeleteAsset removes an asset that never appeared in the assignment ledger.
func (s *Service) DeleteAsset(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(tx Store) error {
		asset, err := tx.GetAsset(ctx, id)
		if err != nil {
			return lookupError("Asset", id, err)
		}

		count, err := tx.CountAssetAssignments(ctx, id)
		if err != nil {
			return fmt.Errorf("count assignments of asset %d: %w", id, err)
		}
		switch {
		case count.Open > 0:
			return &domain.CannotDeleteError{Entity: "Asset", Name: asset.AssetName, Records: count.Total, Open: true}
		case count.Total > 0:
			return &domain.CannotDeleteError{Entity: "Asset", Name: asset.AssetName, Records: count.Total}
		}

		return tx.DeleteAsset(ctx, id)
	})

	return s.observe("delete_asset", err)
}

func normalizeAsset(asset *domain.Asset) {
	asset.AssetName = strings.TrimSpace(asset.AssetName)
	asset.AssetType = strings.TrimSpace(asset.AssetType)
	asset.SerialNumber = strings.TrimSpace(asset.SerialNumber)
	asset.Condition = strings.TrimSpace(asset.Condition)
	if asset.Condition == "" {
		asset.Condition = domain.DefaultAssetCondition
	}
	asset.MakeModel = optionalText(asset.MakeModel)
	asset.Specifications = optionalText(asset.Specifications)
}
