package domain

type Employee struct {
	ID          int64   `json:"id"`
	FullName    string  `json:"fullName" validate:"required,min=2,max=100"`
	Department  string  `json:"department" validate:"required,max=50"`
	Email       string  `json:"email" validate:"required,email,max=100"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=15,phone"`
	Designation string  `json:"designation" validate:"required,max=50"`
	IsActive    bool    `json:"isActive"`
}

type EmployeeFilter struct {
	ActiveOnly bool
	Search     string
}
