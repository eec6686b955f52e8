// Package memory provides an in-process implementation of inventory.Store.
// It enforces the same constraints as the postgres schema and is used for
// local runs and tests.
package memory

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/inventory"
)

var _ inventory.Store = (*Store)(nil)

type state struct {
	employees   map[int64]domain.Employee
	assets      map[int64]domain.Asset
	assignments map[int64]domain.Assignment

	nextEmployeeID   int64
	nextAssetID      int64
	nextAssignmentID int64
}

func newState() *state {
	return &state{
		employees:   map[int64]domain.Employee{},
		assets:      map[int64]domain.Asset{},
		assignments: map[int64]domain.Assignment{},
	}
}

func (s *state) clone() *state {
	c := &state{
		employees:        make(map[int64]domain.Employee, len(s.employees)),
		assets:           make(map[int64]domain.Asset, len(s.assets)),
		assignments:      make(map[int64]domain.Assignment, len(s.assignments)),
		nextEmployeeID:   s.nextEmployeeID,
		nextAssetID:      s.nextAssetID,
		nextAssignmentID: s.nextAssignmentID,
	}
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.assets {
		c.assets[k] = v
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	return c
}

type database struct {
	mu    sync.RWMutex
	state *state
}

// Store is safe for concurrent use. Transactions are serialized: InTx holds
// the write lock and works on a copy of the state that replaces the
// committed state only when fn succeeds.
type Store struct {
	db *database
	tx *state
}

func New() *Store {
	return &Store{db: &database{state: newState()}}
}

func (s *Store) read(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return fn(s.db.state)
}

func (s *Store) write(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	next := s.db.state.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.db.state = next
	return nil
}

func (s *Store) InTx(ctx context.Context, fn func(tx inventory.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	working := s.db.state.clone()
	if err := fn(&Store{db: s.db, tx: working}); err != nil {
		return err
	}
	s.db.state = working
	return nil
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ---------------------------------------------------------------------------
// assets
// ---------------------------------------------------------------------------

func cloneAsset(a domain.Asset) *domain.Asset {
	a.MakeModel = copyString(a.MakeModel)
	a.WarrantyExpiryDate = copyTime(a.WarrantyExpiryDate)
	a.Specifications = copyString(a.Specifications)
	return &a
}

func sortAssets(assets []*domain.Asset) {
	slices.SortFunc(assets, func(a, b *domain.Asset) int {
		return cmp.Or(cmp.Compare(a.AssetName, b.AssetName), cmp.Compare(a.ID, b.ID))
	})
}

func (s *Store) ListAssets(_ context.Context, filter domain.AssetFilter) ([]*domain.Asset, error) {
	assets := make([]*domain.Asset, 0)
	err := s.read(func(st *state) error {
		for _, a := range st.assets {
			if filter.Status != "" && a.Status != filter.Status {
				continue
			}
			if filter.Type != "" && a.AssetType != filter.Type {
				continue
			}
			if filter.Search != "" &&
				!containsFold(a.AssetName, filter.Search) &&
				!containsFold(a.AssetType, filter.Search) &&
				!containsFold(a.SerialNumber, filter.Search) &&
				(a.MakeModel == nil || !containsFold(*a.MakeModel, filter.Search)) {
				continue
			}
			assets = append(assets, cloneAsset(a))
		}
		return nil
	})
	sortAssets(assets)
	return assets, err
}

func (s *Store) GetAsset(_ context.Context, id int64) (*domain.Asset, error) {
	var asset *domain.Asset
	err := s.read(func(st *state) error {
		a, ok := st.assets[id]
		if !ok {
			return sql.ErrNoRows
		}
		asset = cloneAsset(a)
		return nil
	})
	return asset, err
}

func (s *Store) ListAssetTypes(_ context.Context) ([]string, error) {
	var types []string
	err := s.read(func(st *state) error {
		seen := map[string]bool{}
		for _, a := range st.assets {
			if !seen[a.AssetType] {
				seen[a.AssetType] = true
				types = append(types, a.AssetType)
			}
		}
		return nil
	})
	slices.Sort(types)
	if types == nil {
		types = []string{}
	}
	return types, err
}

func serialTaken(st *state, serialNumber string, excludeID int64) bool {
	for id, a := range st.assets {
		if id != excludeID && a.SerialNumber == serialNumber {
			return true
		}
	}
	return false
}

func (s *Store) SerialNumberExists(_ context.Context, serialNumber string, excludeID int64) (bool, error) {
	exists := false
	err := s.read(func(st *state) error {
		exists = serialTaken(st, serialNumber, excludeID)
		return nil
	})
	return exists, err
}

func (s *Store) CreateAsset(_ context.Context, asset *domain.Asset) error {
	return s.write(func(st *state) error {
		if serialTaken(st, asset.SerialNumber, 0) {
			return &domain.DuplicateKeyError{Entity: "Asset", Field: "serial number", Value: asset.SerialNumber}
		}
		st.nextAssetID++
		asset.ID = st.nextAssetID
		st.assets[asset.ID] = *cloneAsset(*asset)
		return nil
	})
}

func (s *Store) UpdateAsset(_ context.Context, asset *domain.Asset) error {
	return s.write(func(st *state) error {
		current, ok := st.assets[asset.ID]
		if !ok {
			return sql.ErrNoRows
		}
		if serialTaken(st, asset.SerialNumber, asset.ID) {
			return &domain.DuplicateKeyError{Entity: "Asset", Field: "serial number", Value: asset.SerialNumber}
		}
		updated := *cloneAsset(*asset)
		updated.Status = current.Status
		st.assets[asset.ID] = updated
		return nil
	})
}

func (s *Store) UpdateAssetStatus(_ context.Context, id int64, status domain.AssetStatus) error {
	return s.write(func(st *state) error {
		a, ok := st.assets[id]
		if !ok {
			return sql.ErrNoRows
		}
		a.Status = status
		st.assets[id] = a
		return nil
	})
}

func (s *Store) DeleteAsset(_ context.Context, id int64) error {
	return s.write(func(st *state) error {
		a, ok := st.assets[id]
		if !ok {
			return sql.ErrNoRows
		}
		for _, aa := range st.assignments {
			if aa.AssetID == id {
				return &domain.CannotDeleteError{Entity: "Asset", Name: a.AssetName}
			}
		}
		delete(st.assets, id)
		return nil
	})
}

// ---------------------------------------------------------------------------
// employees
// ---------------------------------------------------------------------------

func cloneEmployee(e domain.Employee) *domain.Employee {
	e.PhoneNumber = copyString(e.PhoneNumber)
	return &e
}

func (s *Store) ListEmployees(_ context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error) {
	employees := make([]*domain.Employee, 0)
	err := s.read(func(st *state) error {
		for _, e := range st.employees {
			if filter.ActiveOnly && !e.IsActive {
				continue
			}
			if filter.Search != "" &&
				!containsFold(e.FullName, filter.Search) &&
				!containsFold(e.Department, filter.Search) &&
				!containsFold(e.Email, filter.Search) &&
				!containsFold(e.Designation, filter.Search) {
				continue
			}
			employees = append(employees, cloneEmployee(e))
		}
		return nil
	})
	slices.SortFunc(employees, func(a, b *domain.Employee) int {
		return cmp.Or(cmp.Compare(a.FullName, b.FullName), cmp.Compare(a.ID, b.ID))
	})
	return employees, err
}

func (s *Store) GetEmployee(_ context.Context, id int64) (*domain.Employee, error) {
	var employee *domain.Employee
	err := s.read(func(st *state) error {
		e, ok := st.employees[id]
		if !ok {
			return sql.ErrNoRows
		}
		employee = cloneEmployee(e)
		return nil
	})
	return employee, err
}

func emailTaken(st *state, email string, excludeID int64) bool {
	for id, e := range st.employees {
		if id != excludeID && e.Email == email {
			return true
		}
	}
	return false
}

func (s *Store) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	exists := false
	err := s.read(func(st *state) error {
		exists = emailTaken(st, email, excludeID)
		return nil
	})
	return exists, err
}

func (s *Store) CreateEmployee(_ context.Context, employee *domain.Employee) error {
	return s.write(func(st *state) error {
		if emailTaken(st, employee.Email, 0) {
			return &domain.DuplicateKeyError{Entity: "Employee", Field: "email", Value: employee.Email}
		}
		st.nextEmployeeID++
		employee.ID = st.nextEmployeeID
		st.employees[employee.ID] = *cloneEmployee(*employee)
		return nil
	})
}

func (s *Store) UpdateEmployee(_ context.Context, employee *domain.Employee) error {
	return s.write(func(st *state) error {
		if _, ok := st.employees[employee.ID]; !ok {
			return sql.ErrNoRows
		}
		if emailTaken(st, employee.Email, employee.ID) {
			return &domain.DuplicateKeyError{Entity: "Employee", Field: "email", Value: employee.Email}
		}
		st.employees[employee.ID] = *cloneEmployee(*employee)
		return nil
	})
}

func (s *Store) DeleteEmployee(_ context.Context, id int64) error {
	return s.write(func(st *state) error {
		e, ok := st.employees[id]
		if !ok {
			return sql.ErrNoRows
		}
		for _, aa := range st.assignments {
			if aa.EmployeeID == id {
				return &domain.CannotDeleteError{Entity: "Employee", Name: e.FullName}
			}
		}
		delete(st.employees, id)
		return nil
	})
}

// ---------------------------------------------------------------------------
// assignments
// ---------------------------------------------------------------------------

func detailOf(st *state, aa domain.Assignment) *domain.AssignmentDetail {
	aa.ReturnedDate = copyTime(aa.ReturnedDate)
	aa.Notes = copyString(aa.Notes)

	asset := st.assets[aa.AssetID]
	employee := st.employees[aa.EmployeeID]
	return &domain.AssignmentDetail{
		Assignment:    aa,
		AssetName:     asset.AssetName,
		AssetType:     asset.AssetType,
		SerialNumber:  asset.SerialNumber,
		EmployeeName:  employee.FullName,
		Department:    employee.Department,
		EmployeeEmail: employee.Email,
	}
}

func (s *Store) ListAssignments(_ context.Context, filter domain.AssignmentFilter) ([]*domain.AssignmentDetail, error) {
	details := make([]*domain.AssignmentDetail, 0)
	err := s.read(func(st *state) error {
		for _, aa := range st.assignments {
			switch {
			case filter.AssetID != nil && aa.AssetID != *filter.AssetID:
				continue
			case filter.EmployeeID != nil && aa.EmployeeID != *filter.EmployeeID:
				continue
			case filter.OpenOnly && aa.ReturnedDate != nil:
				continue
			case filter.From != nil && aa.AssignedDate.Before(*filter.From):
				continue
			case filter.To != nil && aa.AssignedDate.After(*filter.To):
				continue
			}
			details = append(details, detailOf(st, aa))
		}
		return nil
	})
	slices.SortFunc(details, func(a, b *domain.AssignmentDetail) int {
		return cmp.Or(b.AssignedDate.Compare(a.AssignedDate), cmp.Compare(b.ID, a.ID))
	})
	return details, err
}

func (s *Store) GetAssignment(_ context.Context, id int64) (*domain.AssignmentDetail, error) {
	var detail *domain.AssignmentDetail
	err := s.read(func(st *state) error {
		aa, ok := st.assignments[id]
		if !ok {
			return sql.ErrNoRows
		}
		detail = detailOf(st, aa)
		return nil
	})
	return detail, err
}

func (s *Store) countAssignments(match func(domain.Assignment) bool) (domain.AssignmentCount, error) {
	var count domain.AssignmentCount
	err := s.read(func(st *state) error {
		for _, aa := range st.assignments {
			if !match(aa) {
				continue
			}
			count.Total++
			if aa.ReturnedDate == nil {
				count.Open++
			}
		}
		return nil
	})
	return count, err
}

func (s *Store) CountAssetAssignments(_ context.Context, assetID int64) (domain.AssignmentCount, error) {
	return s.countAssignments(func(aa domain.Assignment) bool { return aa.AssetID == assetID })
}

func (s *Store) CountEmployeeAssignments(_ context.Context, employeeID int64) (domain.AssignmentCount, error) {
	return s.countAssignments(func(aa domain.Assignment) bool { return aa.EmployeeID == employeeID })
}

func (s *Store) CreateAssignment(_ context.Context, assignment *domain.Assignment) error {
	return s.write(func(st *state) error {
		asset, ok := st.assets[assignment.AssetID]
		if !ok {
			return sql.ErrNoRows
		}
		if _, ok := st.employees[assignment.EmployeeID]; !ok {
			return sql.ErrNoRows
		}
		for _, aa := range st.assignments {
			if aa.AssetID == assignment.AssetID && aa.ReturnedDate == nil {
				return &domain.AssetAlreadyAssignedError{AssetName: asset.AssetName}
			}
		}

		st.nextAssignmentID++
		assignment.ID = st.nextAssignmentID
		stored := *assignment
		stored.ReturnedDate = copyTime(assignment.ReturnedDate)
		stored.Notes = copyString(assignment.Notes)
		st.assignments[stored.ID] = stored
		return nil
	})
}

func (s *Store) CloseAssignment(_ context.Context, id int64, returnedDate time.Time) error {
	return s.write(func(st *state) error {
		aa, ok := st.assignments[id]
		if !ok || aa.ReturnedDate != nil {
			return sql.ErrNoRows
		}
		aa.ReturnedDate = &returnedDate
		st.assignments[id] = aa
		return nil
	})
}

// ---------------------------------------------------------------------------
// reporting
// ---------------------------------------------------------------------------

func (s *Store) DashboardStats(_ context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}
	err := s.read(func(st *state) error {
		for _, a := range st.assets {
			stats.TotalAssets++
			switch a.Status {
			case domain.AssetStatusAvailable:
				stats.AvailableAssets++
			case domain.AssetStatusAssigned:
				stats.AssignedAssets++
			case domain.AssetStatusUnderRepair:
				stats.UnderRepairAssets++
			case domain.AssetStatusRetired:
				stats.RetiredAssets++
			}
			if a.IsSpare {
				stats.SpareAssets++
			}
		}
		for _, e := range st.employees {
			stats.TotalEmployees++
			if e.IsActive {
				stats.ActiveEmployees++
			}
		}
		for _, aa := range st.assignments {
			stats.TotalAssignments++
			if aa.ReturnedDate == nil {
				stats.ActiveAssignments++
			}
		}
		return nil
	})
	return stats, err
}

func (s *Store) AssetTypeCounts(_ context.Context) ([]domain.AssetTypeCount, error) {
	counts := make([]domain.AssetTypeCount, 0)
	err := s.read(func(st *state) error {
		byType := map[string]int{}
		for _, a := range st.assets {
			byType[a.AssetType]++
		}
		for t, n := range byType {
			counts = append(counts, domain.AssetTypeCount{AssetType: t, Count: n})
		}
		return nil
	})
	slices.SortFunc(counts, func(a, b domain.AssetTypeCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.AssetType, b.AssetType))
	})
	return counts, err
}

func (s *Store) WarrantyExpiring(_ context.Context, from, to time.Time, limit int) ([]*domain.Asset, error) {
	assets := make([]*domain.Asset, 0)
	err := s.read(func(st *state) error {
		for _, a := range st.assets {
			if a.WarrantyExpiryDate == nil || a.Status == domain.AssetStatusRetired {
				continue
			}
			if a.WarrantyExpiryDate.Before(from) || a.WarrantyExpiryDate.After(to) {
				continue
			}
			assets = append(assets, cloneAsset(a))
		}
		return nil
	})
	slices.SortFunc(assets, func(a, b *domain.Asset) int {
		return cmp.Or(a.WarrantyExpiryDate.Compare(*b.WarrantyExpiryDate), cmp.Compare(a.ID, b.ID))
	})
	if limit > 0 && len(assets) > limit {
		assets = assets[:limit]
	}
	return assets, err
}
