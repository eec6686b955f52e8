package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

type employeeRequest struct {
	FullName    string  `json:"fullName"`
	Department  string  `json:"department"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	Designation string  `json:"designation"`
	IsActive    *bool   `json:"isActive"`
}

func (req *employeeRequest) toEmployee(defaultActive bool) *domain.Employee {
	isActive := defaultActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return &domain.Employee{
		FullName:    req.FullName,
		Department:  req.Department,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Designation: req.Designation,
		IsActive:    isActive,
	}
}

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	filter := domain.EmployeeFilter{
		ActiveOnly: queryBool(r, "active"),
		Search:     r.URL.Query().Get("q"),
	}

	employees, err := h.inventory.ListEmployees(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Employees retrieved.", employees)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := h.readJSON(r, &req); err != nil {
		h.invalidBody(w, r)
		return
	}

	employee := req.toEmployee(true)
	if err := h.inventory.AddEmployee(r.Context(), employee); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.afterMutation(r, nil)

	h.createdResponse(w, r, "Employee created.", employee)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)
	h.successResponse(w, r, "Employee retrieved.", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	current := r.Context().Value(EmployeeCtx).(*domain.Employee)

	var req employeeRequest
	if err := h.readJSON(r, &req); err != nil {
		h.invalidBody(w, r)
		return
	}

	// an omitted isActive keeps the current value
	employee := req.toEmployee(current.IsActive)
	employee.ID = current.ID

	if err := h.inventory.UpdateEmployee(r.Context(), employee); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.afterMutation(r, nil)

	h.successResponse(w, r, "Employee updated.", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if err := h.inventory.DeleteEmployee(r.Context(), employee.ID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.afterMutation(r, nil)

	h.successResponse(w, r, "Employee deleted.", nil)
}

func (h *Handler) CanDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	canDelete, err := h.inventory.CanDeleteEmployee(r.Context(), employee.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Deletion check completed.", map[string]bool{"canDelete": canDelete})
}

func (h *Handler) GetEmployeeAssignments(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	assignments, err := h.inventory.ListAssignmentsByEmployee(r.Context(), employee.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Employee assignment history retrieved.", assignments)
}
