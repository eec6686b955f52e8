package inventory

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

// Lookups by id return sql.ErrNoRows when the row is absent. Writes that hit a
// unique or restrict constraint return the matching domain error.

type AssetStore interface {
	ListAssets(ctx context.Context, filter domain.AssetFilter) ([]*domain.Asset, error)
	// GetAsset locks the row for the rest of the transaction when called inside InTx.
	GetAsset(ctx context.Context, id int64) (*domain.Asset, error)
	ListAssetTypes(ctx context.Context) ([]string, error)
	SerialNumberExists(ctx context.Context, serialNumber string, excludeID int64) (bool, error)
	CreateAsset(ctx context.Context, asset *domain.Asset) error
	UpdateAsset(ctx context.Context, asset *domain.Asset) error
	UpdateAssetStatus(ctx context.Context, id int64, status domain.AssetStatus) error
	DeleteAsset(ctx context.Context, id int64) error
}

type EmployeeStore interface {
	ListEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error)
	// GetEmployee locks the row for the rest of the transaction when called inside InTx.
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	CreateEmployee(ctx context.Context, employee *domain.Employee) error
	UpdateEmployee(ctx context.Context, employee *domain.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error
}

type AssignmentStore interface {
	ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]*domain.AssignmentDetail, error)
	GetAssignment(ctx context.Context, id int64) (*domain.AssignmentDetail, error)
	CountAssetAssignments(ctx context.Context, assetID int64) (domain.AssignmentCount, error)
	CountEmployeeAssignments(ctx context.Context, employeeID int64) (domain.AssignmentCount, error)
	CreateAssignment(ctx context.Context, assignment *domain.Assignment) error
	CloseAssignment(ctx context.Context, id int64, returnedDate time.Time) error
}

// ReportStore holds the aggregate reads behind the dashboard.
type ReportStore interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	AssetTypeCounts(ctx context.Context) ([]domain.AssetTypeCount, error)
	// WarrantyExpiring returns non-retired assets whose warranty ends in [from, to], nearest first.
	WarrantyExpiring(ctx context.Context, from, to time.Time, limit int) ([]*domain.Asset, error)
}

type Store interface {
	AssetStore
	EmployeeStore
	AssignmentStore
	ReportStore

	// InTx runs fn against a Store bound to one transaction. The transaction
	// commits when fn returns nil and rolls back otherwise. Calling InTx on a
	// Store that is already transactional runs fn in the same transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error
}
