package domain

import "time"

// Assignment is one row of the append-only assignment ledger. A nil
// ReturnedDate marks the row as open.
type Assignment struct {
	ID           int64      `json:"id"`
	AssetID      int64      `json:"assetID"`
	EmployeeID   int64      `json:"employeeID"`
	AssignedDate time.Time  `json:"assignedDate"`
	ReturnedDate *time.Time `json:"returnedDate"`
	Notes        *string    `json:"notes" validate:"omitempty,max=500"`
}

func (a *Assignment) IsOpen() bool {
	return a.ReturnedDate == nil
}

// DurationDays counts whole days between assignment and return, or now for open rows.
func (a *Assignment) DurationDays(now time.Time) int {
	end := now
	if a.ReturnedDate != nil {
		end = *a.ReturnedDate
	}
	return int(end.Sub(a.AssignedDate).Hours() / 24)
}

// AssignmentDetail is the joined projection shown to users.
type AssignmentDetail struct {
	Assignment
	AssetName     string `json:"assetName"`
	AssetType     string `json:"assetType"`
	SerialNumber  string `json:"serialNumber"`
	EmployeeName  string `json:"employeeName"`
	Department    string `json:"department"`
	EmployeeEmail string `json:"employeeEmail"`
}

type AssignmentFilter struct {
	AssetID    *int64
	EmployeeID *int64
	OpenOnly   bool
	From       *time.Time
	To         *time.Time
}

// AssignmentCount summarises the ledger rows referencing one asset or employee.
type AssignmentCount struct {
	Total int
	Open  int
}
