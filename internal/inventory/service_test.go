package inventory_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/inventory"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository/memory"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/seed"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/utils"
)

var testNow = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recorder struct {
	ops []string
}

func (r *recorder) ObserveOperation(operation string, err error) {
	r.ops = append(r.ops, operation+":"+domain.Kind(err))
}

type fixture struct {
	svc   *inventory.Service
	store *memory.Store
	clock *clock
	rec   *recorder
}

// newFixture returns a service over a memory store seeded with the sample
// data: employees 1-4 active, 5 inactive; assets 1-10 with 8 Under Repair
// and 9 Retired.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	validator, err := utils.NewValidator()
	require.NoError(t, err)

	f := &fixture{
		store: memory.New(),
		clock: &clock{now: testNow},
		rec:   &recorder{},
	}
	f.svc = inventory.NewService(f.store, validator,
		inventory.WithClock(f.clock.Now),
		inventory.WithRecorder(f.rec),
	)
	require.NoError(t, seed.SeedSampleData(context.Background(), f.svc, testNow))
	f.rec.ops = nil
	return f
}

// checkLedger asserts that every asset's status agrees with its open
// assignment count.
func (f *fixture) checkLedger(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	assets, err := f.svc.ListAssets(ctx, domain.AssetFilter{})
	require.NoError(t, err)
	for _, a := range assets {
		count, err := f.store.CountAssetAssignments(ctx, a.ID)
		require.NoError(t, err)
		if a.Status == domain.AssetStatusAssigned {
			assert.Equal(t, 1, count.Open, "asset %d is Assigned", a.ID)
		} else {
			assert.Equal(t, 0, count.Open, "asset %d is %s", a.ID, a.Status)
		}
	}
}

func strPtr(s string) *string { return &s }

func TestAssignAvailableAssetToActiveEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	detail, err := f.svc.Assign(ctx, 3, 1, strPtr("  desk setup  "))
	require.NoError(t, err)

	assert.Equal(t, int64(3), detail.AssetID)
	assert.Equal(t, int64(1), detail.EmployeeID)
	assert.Equal(t, testNow, detail.AssignedDate)
	assert.Nil(t, detail.ReturnedDate)
	require.NotNil(t, detail.Notes)
	assert.Equal(t, "desk setup", *detail.Notes)
	assert.Equal(t, "John Doe", detail.EmployeeName)
	assert.Equal(t, "SM-MON-003", detail.SerialNumber)

	asset, err := f.svc.GetAsset(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusAssigned, asset.Status)

	rows, err := f.svc.ListAssignmentsByAsset(ctx, 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].ReturnedDate)

	assert.Equal(t, []string{"assign:ok"}, f.rec.ops)
	f.checkLedger(t)
}

func TestAssignRejections(t *testing.T) {
	tests := []struct {
		name       string
		assetID    int64
		employeeID int64
		notes      *string
		target     error
	}{
		{"asset under repair", 8, 1, nil, domain.ErrAssetNotAvailable},
		{"retired asset", 9, 1, nil, domain.ErrAssetNotAvailable},
		{"inactive employee", 1, 5, nil, domain.ErrEmployeeNotActive},
		{"unknown asset", 999, 1, nil, domain.ErrNotFound},
		{"unknown employee", 1, 999, nil, domain.ErrNotFound},
		{"notes too long", 1, 1, strPtr(strings.Repeat("n", 501)), domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			_, err := f.svc.Assign(ctx, tt.assetID, tt.employeeID, tt.notes)
			require.ErrorIs(t, err, tt.target)

			all, err := f.svc.ListAssignments(ctx, domain.AssignmentFilter{})
			require.NoError(t, err)
			assert.Empty(t, all)
			f.checkLedger(t)
		})
	}
}

func TestAssignUnderRepairReportsStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Assign(context.Background(), 8, 1, nil)

	var notAvailable *domain.AssetNotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	assert.Equal(t, "MacBook Pro 14", notAvailable.AssetName)
	assert.Equal(t, domain.AssetStatusUnderRepair, notAvailable.Status)
}

func TestAssignInactiveEmployeeNamesEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Assign(context.Background(), 1, 5, nil)

	var inactive *domain.EmployeeNotActiveError
	require.ErrorAs(t, err, &inactive)
	assert.Equal(t, "David Brown", inactive.FullName)
	assert.Equal(t, []string{"assign:employee_not_active"}, f.rec.ops)
}

func TestAssignTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Assign(ctx, 1, 1, nil)
	require.NoError(t, err)

	_, err = f.svc.Assign(ctx, 1, 2, nil)
	require.ErrorIs(t, err, domain.ErrAssetNotAvailable)

	open, err := f.svc.ListActiveAssignments(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)
	f.checkLedger(t)
}

// A stale Available status must not let a second open row in.
func TestAssignTrustsLedgerOverStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Assign(ctx, 1, 1, nil)
	require.NoError(t, err)
	require.NoError(t, f.store.UpdateAssetStatus(ctx, 1, domain.AssetStatusAvailable))

	_, err = f.svc.Assign(ctx, 1, 2, nil)
	require.ErrorIs(t, err, domain.ErrAssetAlreadyAssigned)
}

func TestReturnRestoresAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assigned, err := f.svc.Assign(ctx, 1, 2, nil)
	require.NoError(t, err)

	f.clock.Advance(72 * time.Hour)
	returned, err := f.svc.Return(ctx, assigned.ID)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnedDate)
	assert.Equal(t, testNow.Add(72*time.Hour), *returned.ReturnedDate)
	assert.Equal(t, 3, returned.DurationDays(f.clock.Now()))

	asset, err := f.svc.GetAsset(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusAvailable, asset.Status)

	// the asset can go out again
	_, err = f.svc.Assign(ctx, 1, 3, nil)
	require.NoError(t, err)

	history, err := f.svc.ListAssignmentsByAsset(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	f.checkLedger(t)
}

func TestReturnTwiceCarriesFirstReturnDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assigned, err := f.svc.Assign(ctx, 4, 1, nil)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	first, err := f.svc.Return(ctx, assigned.ID)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.svc.Return(ctx, assigned.ID)

	var already *domain.AlreadyReturnedError
	require.ErrorAs(t, err, &already)
	assert.True(t, already.ReturnedDate.Equal(*first.ReturnedDate))

	stored, err := f.svc.GetAssignment(ctx, assigned.ID)
	require.NoError(t, err)
	assert.True(t, stored.ReturnedDate.Equal(*first.ReturnedDate))
	f.checkLedger(t)
}

func TestReturnUnknownAssignment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Return(context.Background(), 42)

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Assignment", notFound.Entity)
	assert.Equal(t, int64(42), notFound.ID)
}

func TestChangeStatusToAssignedAlwaysRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Assign(ctx, 2, 1, nil)
	require.NoError(t, err)

	// 1 Available, 2 Assigned, 8 Under Repair, 9 Retired
	for _, id := range []int64{1, 2, 8, 9} {
		err := f.svc.ChangeStatus(ctx, id, domain.AssetStatusAssigned)
		assert.ErrorIs(t, err, domain.ErrIllegalTransition, "asset %d", id)
	}
	f.checkLedger(t)
}

func TestChangeStatus(t *testing.T) {
	tests := []struct {
		name   string
		id     int64
		to     domain.AssetStatus
		target error
		want   domain.AssetStatus
	}{
		{"available to repair", 1, domain.AssetStatusUnderRepair, nil, domain.AssetStatusUnderRepair},
		{"available to retired", 1, domain.AssetStatusRetired, nil, domain.AssetStatusRetired},
		{"repair to available", 8, domain.AssetStatusAvailable, nil, domain.AssetStatusAvailable},
		{"retired back to available", 9, domain.AssetStatusAvailable, nil, domain.AssetStatusAvailable},
		{"same status", 8, domain.AssetStatusUnderRepair, nil, domain.AssetStatusUnderRepair},
		{"unknown status", 1, "Broken", domain.ErrInvalidStatus, domain.AssetStatusAvailable},
		{"empty status", 1, "", domain.ErrInvalidStatus, domain.AssetStatusAvailable},
		{"unknown asset", 999, domain.AssetStatusRetired, domain.ErrNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			err := f.svc.ChangeStatus(ctx, tt.id, tt.to)
			if tt.target != nil {
				require.ErrorIs(t, err, tt.target)
			} else {
				require.NoError(t, err)
			}

			if tt.want != "" {
				asset, err := f.svc.GetAsset(ctx, tt.id)
				require.NoError(t, err)
				assert.Equal(t, tt.want, asset.Status)
			}
		})
	}
}

func TestChangeStatusAwayFromAssignedRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Assign(ctx, 1, 1, nil)
	require.NoError(t, err)

	err = f.svc.ChangeStatus(ctx, 1, domain.AssetStatusRetired)

	var illegal *domain.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, domain.AssetStatusAssigned, illegal.From)
	f.checkLedger(t)
}

func TestDeleteAssetWithReturnedHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assigned, err := f.svc.Assign(ctx, 5, 1, nil)
	require.NoError(t, err)
	_, err = f.svc.Return(ctx, assigned.ID)
	require.NoError(t, err)

	err = f.svc.DeleteAsset(ctx, 5)

	var cannot *domain.CannotDeleteError
	require.ErrorAs(t, err, &cannot)
	assert.False(t, cannot.Open)
	assert.Equal(t, 1, cannot.Records)
	assert.Contains(t, err.Error(), "1 assignment record(s)")

	_, err = f.svc.GetAsset(ctx, 5)
	assert.NoError(t, err)
}

func TestDeleteAssetCurrentlyAssigned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Assign(ctx, 6, 1, nil)
	require.NoError(t, err)

	err = f.svc.DeleteAsset(ctx, 6)

	var cannot *domain.CannotDeleteError
	require.ErrorAs(t, err, &cannot)
	assert.True(t, cannot.Open)
	assert.Contains(t, err.Error(), "currently assigned")
}

func TestDeleteAssetWithoutHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteAsset(ctx, 10))

	_, err := f.svc.GetAsset(ctx, 10)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = f.svc.DeleteAsset(ctx, 10)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assigned, err := f.svc.Assign(ctx, 1, 3, nil)
	require.NoError(t, err)
	_, err = f.svc.Return(ctx, assigned.ID)
	require.NoError(t, err)

	ok, err := f.svc.CanDeleteEmployee(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	err = f.svc.DeleteEmployee(ctx, 3)
	var cannot *domain.CannotDeleteError
	require.ErrorAs(t, err, &cannot)
	assert.Equal(t, 1, cannot.Records)
	assert.Contains(t, err.Error(), "mark as inactive")

	ok, err = f.svc.CanDeleteEmployee(ctx, 4)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, f.svc.DeleteEmployee(ctx, 4))

	_, err = f.svc.GetEmployee(ctx, 4)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddAsset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	asset := &domain.Asset{
		AssetName:    "  ThinkPad X1  ",
		AssetType:    "Laptop",
		SerialNumber: "LN-X1-011",
		PurchaseDate: domain.DateOf(testNow),
		Status:       domain.AssetStatusRetired,
	}
	require.NoError(t, f.svc.AddAsset(ctx, asset))

	assert.Equal(t, int64(11), asset.ID)
	assert.Equal(t, "ThinkPad X1", asset.AssetName)
	assert.Equal(t, domain.AssetStatusAvailable, asset.Status)
	assert.Equal(t, domain.DefaultAssetCondition, asset.Condition)

	stored, err := f.svc.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusAvailable, stored.Status)
}

func TestAddAssetRejections(t *testing.T) {
	before := domain.DateOf(testNow).AddDate(0, 0, -1)

	tests := []struct {
		name   string
		asset  domain.Asset
		target error
		field  string
	}{
		{
			name:   "duplicate serial number",
			asset:  domain.Asset{AssetName: "Spare XPS", AssetType: "Laptop", SerialNumber: "DL-XPS-001", PurchaseDate: testNow},
			target: domain.ErrDuplicateKey,
		},
		{
			name:   "warranty before purchase",
			asset:  domain.Asset{AssetName: "Old Phone", AssetType: "Mobile Phone", SerialNumber: "OLD-001", PurchaseDate: testNow, WarrantyExpiryDate: &before},
			target: domain.ErrValidation,
			field:  "warrantyExpiryDate",
		},
		{
			name:   "bad serial number",
			asset:  domain.Asset{AssetName: "Old Phone", AssetType: "Mobile Phone", SerialNumber: "OLD 001", PurchaseDate: testNow},
			target: domain.ErrValidation,
			field:  "serialNumber",
		},
		{
			name:   "name too short",
			asset:  domain.Asset{AssetName: "PC", AssetType: "Desktop", SerialNumber: "PC-001", PurchaseDate: testNow},
			target: domain.ErrValidation,
			field:  "assetName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			asset := tt.asset
			err := f.svc.AddAsset(context.Background(), &asset)
			require.ErrorIs(t, err, tt.target)

			if tt.field != "" {
				var ve *domain.ValidationError
				require.ErrorAs(t, err, &ve)
				fields := make([]string, 0, len(ve.Fields))
				for _, fe := range ve.Fields {
					fields = append(fields, fe.Field)
				}
				assert.Contains(t, fields, tt.field)
			}
		})
	}
}

func TestUpdateAssetKeepsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	asset, err := f.svc.GetAsset(ctx, 8)
	require.NoError(t, err)

	asset.Condition = "Fair"
	asset.Status = domain.AssetStatusAvailable
	require.NoError(t, f.svc.UpdateAsset(ctx, asset))

	stored, err := f.svc.GetAsset(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, "Fair", stored.Condition)
	assert.Equal(t, domain.AssetStatusUnderRepair, stored.Status)
}

func TestUpdateAssetDuplicateSerial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	asset, err := f.svc.GetAsset(ctx, 2)
	require.NoError(t, err)

	// keeping its own serial is fine
	require.NoError(t, f.svc.UpdateAsset(ctx, asset))

	asset.SerialNumber = "DL-XPS-001"
	err = f.svc.UpdateAsset(ctx, asset)
	require.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestEmployeeEmailUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.AddEmployee(ctx, &domain.Employee{
		FullName:    "Johnny Doe",
		Department:  "IT",
		Email:       "john.doe@company.com",
		Designation: "Intern",
		IsActive:    true,
	})
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	employee, err := f.svc.GetEmployee(ctx, 2)
	require.NoError(t, err)
	employee.Email = "mike.johnson@company.com"
	err = f.svc.UpdateEmployee(ctx, employee)
	require.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestDeactivatedEmployeeCannotReceiveAssets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	employee, err := f.svc.GetEmployee(ctx, 2)
	require.NoError(t, err)
	employee.IsActive = false
	require.NoError(t, f.svc.UpdateEmployee(ctx, employee))

	_, err = f.svc.Assign(ctx, 1, 2, nil)
	require.ErrorIs(t, err, domain.ErrEmployeeNotActive)

	active, err := f.svc.ListActiveEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestListAssetsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	available, err := f.svc.ListAvailableAssets(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 8)

	laptops, err := f.svc.ListAssets(ctx, domain.AssetFilter{Type: "Laptop"})
	require.NoError(t, err)
	assert.Len(t, laptops, 4)

	found, err := f.svc.SearchAssets(ctx, "  logitech ")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = f.svc.ListAssets(ctx, domain.AssetFilter{Status: "Lost"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []domain.FieldError{{Field: "status", Message: "Invalid status: Lost"}}, ve.Fields)

	types, err := f.svc.ListAssetTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Keyboard", "Laptop", "Mobile Phone", "Monitor", "Mouse"}, types)
}

func TestListAssignmentsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Assign(ctx, 1, 1, nil)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	second, err := f.svc.Assign(ctx, 2, 1, nil)
	require.NoError(t, err)

	rows, err := f.svc.ListAssignmentsByEmployee(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
}

func TestLedgerStaysConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var open []int64
	for _, pair := range [][2]int64{{1, 1}, {2, 2}, {3, 3}, {4, 4}} {
		detail, err := f.svc.Assign(ctx, pair[0], pair[1], nil)
		require.NoError(t, err)
		open = append(open, detail.ID)
	}
	f.checkLedger(t)

	_, err := f.svc.Return(ctx, open[1])
	require.NoError(t, err)
	require.NoError(t, f.svc.ChangeStatus(ctx, 2, domain.AssetStatusUnderRepair))
	_, err = f.svc.Assign(ctx, 2, 1, nil)
	require.ErrorIs(t, err, domain.ErrAssetNotAvailable)
	_, err = f.svc.Return(ctx, open[3])
	require.NoError(t, err)
	_, err = f.svc.Assign(ctx, 4, 3, nil)
	require.NoError(t, err)
	f.checkLedger(t)

	active, err := f.svc.ListActiveAssignments(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

// failingStore fails every status write, inside transactions too.
type failingStore struct {
	inventory.Store
	err error
}

func (s *failingStore) InTx(ctx context.Context, fn func(tx inventory.Store) error) error {
	return s.Store.InTx(ctx, func(tx inventory.Store) error {
		return fn(&failingStore{Store: tx, err: s.err})
	})
}

func (s *failingStore) UpdateAssetStatus(context.Context, int64, domain.AssetStatus) error {
	return s.err
}

func TestAssignRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	validator, err := utils.NewValidator()
	require.NoError(t, err)
	boom := errors.New("disk on fire")
	svc := inventory.NewService(&failingStore{Store: f.store, err: boom}, validator)

	_, err = svc.Assign(ctx, 1, 1, nil)
	require.ErrorIs(t, err, boom)

	rows, err := f.svc.ListAssignments(ctx, domain.AssignmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	asset, err := f.svc.GetAsset(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusAvailable, asset.Status)
}

func TestReturnRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assigned, err := f.svc.Assign(ctx, 1, 1, nil)
	require.NoError(t, err)

	validator, err := utils.NewValidator()
	require.NoError(t, err)
	boom := errors.New("disk on fire")
	svc := inventory.NewService(&failingStore{Store: f.store, err: boom}, validator)

	_, err = svc.Return(ctx, assigned.ID)
	require.ErrorIs(t, err, boom)

	stored, err := f.svc.GetAssignment(ctx, assigned.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ReturnedDate)
	f.checkLedger(t)
}
