// Package report renders the inventory as downloadable tables and answers
// assignment history queries.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

type Dataset string

const (
	DatasetAssets      Dataset = "assets"
	DatasetEmployees   Dataset = "employees"
	DatasetAssignments Dataset = "assignments"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrUnknownDataset = errors.New("unknown report dataset")
	ErrUnknownFormat  = errors.New("unknown report format")
)

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName is the suggested download name, stamped with the export date.
func FileName(dataset Dataset, format Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", dataset, now.Format("20060102"), format)
}

// Source is the read side the reports are built from.
type Source interface {
	ListAssets(ctx context.Context, filter domain.AssetFilter) ([]*domain.Asset, error)
	ListEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error)
	ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]*domain.AssignmentDetail, error)
}

type Service struct {
	source Source
	now    func() time.Time
	// loc decides which calendar day an assignment timestamp belongs to,
	// both in exports and in history ranges.
	loc *time.Location
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.loc = loc
	}
}

func NewService(source Source, opts ...Option) *Service {
	s := &Service{
		source: source,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// table is a rendered dataset. Cells are strings or ints so the xlsx writer
// can keep numeric columns numeric.
type table struct {
	sheet  string
	header []string
	rows   [][]any
}

// Export writes dataset to w in the requested format.
func (s *Service) Export(ctx context.Context, dataset Dataset, format Format, w io.Writer) error {
	if format != FormatCSV && format != FormatXLSX {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	var (
		t   *table
		err error
	)
	switch dataset {
	case DatasetAssets:
		t, err = s.assetsTable(ctx)
	case DatasetEmployees:
		t, err = s.employeesTable(ctx)
	case DatasetAssignments:
		t, err = s.assignmentsTable(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownDataset, dataset)
	}
	if err != nil {
		return fmt.Errorf("build %s report: %w", dataset, err)
	}

	if format == FormatXLSX {
		return writeXLSX(w, t)
	}
	return writeCSV(w, t)
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func (s *Service) formatTimestamp(t time.Time) string {
	return formatDate(t.In(s.loc))
}

func (s *Service) formatOptionalTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return s.formatTimestamp(*t)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func (s *Service) assetsTable(ctx context.Context) (*table, error) {
	assets, err := s.source.ListAssets(ctx, domain.AssetFilter{})
	if err != nil {
		return nil, err
	}

	t := &table{
		sheet: "Assets",
		header: []string{
			"Asset ID", "Asset Name", "Type", "Make/Model", "Serial Number", "Purchase Date",
			"Warranty Expiry", "Condition", "Status", "Is Spare", "Specifications",
		},
	}
	for _, a := range assets {
		t.rows = append(t.rows, []any{
			a.ID,
			a.AssetName,
			a.AssetType,
			deref(a.MakeModel),
			a.SerialNumber,
			formatDate(a.PurchaseDate),
			formatOptionalDate(a.WarrantyExpiryDate),
			a.Condition,
			string(a.Status),
			yesNo(a.IsSpare),
			deref(a.Specifications),
		})
	}
	return t, nil
}

func (s *Service) employeesTable(ctx context.Context) (*table, error) {
	employees, err := s.source.ListEmployees(ctx, domain.EmployeeFilter{})
	if err != nil {
		return nil, err
	}

	t := &table{
		sheet:  "Employees",
		header: []string{"Employee ID", "Full Name", "Department", "Email", "Phone Number", "Designation", "Status"},
	}
	for _, e := range employees {
		status := "Inactive"
		if e.IsActive {
			status = "Active"
		}
		t.rows = append(t.rows, []any{
			e.ID,
			e.FullName,
			e.Department,
			e.Email,
			deref(e.PhoneNumber),
			e.Designation,
			status,
		})
	}
	return t, nil
}

func (s *Service) assignmentsTable(ctx context.Context) (*table, error) {
	assignments, err := s.source.ListAssignments(ctx, domain.AssignmentFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	t := &table{
		sheet: "Assignments",
		header: []string{
			"Assignment ID", "Asset Name", "Serial Number", "Employee Name", "Department",
			"Assigned Date", "Returned Date", "Duration (Days)", "Status", "Notes",
		},
	}
	for _, a := range assignments {
		status := "Active"
		if a.ReturnedDate != nil {
			status = "Returned"
		}
		t.rows = append(t.rows, []any{
			a.ID,
			a.AssetName,
			a.SerialNumber,
			a.EmployeeName,
			a.Department,
			s.formatTimestamp(a.AssignedDate),
			s.formatOptionalTimestamp(a.ReturnedDate),
			a.DurationDays(now),
			status,
			deref(a.Notes),
		})
	}
	return t, nil
}
