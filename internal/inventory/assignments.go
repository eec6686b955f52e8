package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (s *Service) ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]*domain.AssignmentDetail, error) {
	return s.store.ListAssignments(ctx, filter)
}

func (s *Service) ListActiveAssignments(ctx context.Context) ([]*domain.AssignmentDetail, error) {
	return s.store.ListAssignments(ctx, domain.AssignmentFilter{OpenOnly: true})
}

func (s *Service) ListAssignmentsByEmployee(ctx context.Context, employeeID int64) ([]*domain.AssignmentDetail, error) {
	return s.store.ListAssignments(ctx, domain.AssignmentFilter{EmployeeID: &employeeID})
}

func (s *Service) ListAssignmentsByAsset(ctx context.Context, assetID int64) ([]*domain.AssignmentDetail, error) {
	return s.store.ListAssignments(ctx, domain.AssignmentFilter{AssetID: &assetID})
}

func (s *Service) GetAssignment(ctx context.Context, id int64) (*domain.AssignmentDetail, error) {
	assignment, err := s.store.GetAssignment(ctx, id)
	if err != nil {
		return nil, lookupError("Assignment", id, err)
	}
	return assignment, nil
}

// Assign lends an Available asset to an active employee. The ledger row and
// the asset status change commit together or not at all.
func (s *Service) Assign(ctx context.Context, assetID, employeeID int64, notes *string) (*domain.AssignmentDetail, error) {
	assignment := &domain.Assignment{
		AssetID:    assetID,
		EmployeeID: employeeID,
		Notes:      optionalText(notes),
	}
	if err := s.validator.ValidateAssignment(assignment); err != nil {
		return nil, s.observe("assign", err)
	}

	var detail *domain.AssignmentDetail
	err := s.store.InTx(ctx, func(tx Store) error {
		asset, err := tx.GetAsset(ctx, assetID)
		if err != nil {
			return lookupError("Asset", assetID, err)
		}
		if asset.Status != domain.AssetStatusAvailable {
			return &domain.AssetNotAvailableError{AssetName: asset.AssetName, Status: asset.Status}
		}

		employee, err := tx.GetEmployee(ctx, employeeID)
		if err != nil {
			return lookupError("Employee", employeeID, err)
		}
		if !employee.IsActive {
			return &domain.EmployeeNotActiveError{FullName: employee.FullName}
		}

		// the status may be stale relative to the ledger, trust the ledger
		count, err := tx.CountAssetAssignments(ctx, assetID)
		if err != nil {
			return fmt.Errorf("count assignments of asset %d: %w", assetID, err)
		}
		if count.Open > 0 {
			return &domain.AssetAlreadyAssignedError{AssetName: asset.AssetName}
		}

		assignment.AssignedDate = s.now()
		if err := tx.CreateAssignment(ctx, assignment); err != nil {
			return err
		}
		if err := tx.UpdateAssetStatus(ctx, assetID, domain.AssetStatusAssigned); err != nil {
			return err
		}

		detail = &domain.AssignmentDetail{
			Assignment:    *assignment,
			AssetName:     asset.AssetName,
			AssetType:     asset.AssetType,
			SerialNumber:  asset.SerialNumber,
			EmployeeName:  employee.FullName,
			Department:    employee.Department,
			EmployeeEmail: employee.Email,
		}
		return nil
	})
	if err != nil {
		return nil, s.observe("assign", err)
	}

	slog.Info("asset assigned", "assignment", detail.ID, "asset", assetID, "employee", employeeID)
	return detail, s.observe("assign", nil)
}

// Return closes an open assignment and puts the asset back to Available.
func (s *Service) Return(ctx context.Context, assignmentID int64) (*domain.AssignmentDetail, error) {
	var detail *domain.AssignmentDetail
	err := s.store.InTx(ctx, func(tx Store) error {
		assignment, err := tx.GetAssignment(ctx, assignmentID)
		if err != nil {
			return lookupError("Assignment", assignmentID, err)
		}
		if assignment.ReturnedDate != nil {
			return &domain.AlreadyReturnedError{ReturnedDate: *assignment.ReturnedDate}
		}

		returnedDate := s.now()
		if err := tx.CloseAssignment(ctx, assignmentID, returnedDate); err != nil {
			return err
		}
		if err := tx.UpdateAssetStatus(ctx, assignment.AssetID, domain.AssetStatusAvailable); err != nil {
			return err
		}

		assignment.ReturnedDate = &returnedDate
		detail = assignment
		return nil
	})
	if err != nil {
		return nil, s.observe("return", err)
	}

	slog.Info("asset returned", "assignment", assignmentID, "asset", detail.AssetID)
	return detail, s.observe("return", nil)
}
