package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/notify"
)

func (h *Handler) GetAllAssignments(w http.ResponseWriter, r *http.Request) {
	var (
		assignments []*domain.AssignmentDetail
		err         error
	)
	if queryBool(r, "active") {
		assignments, err = h.inventory.ListActiveAssignments(r.Context())
	} else {
		assignments, err = h.inventory.ListAssignments(r.Context(), domain.AssignmentFilter{})
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Assignments retrieved.", assignments)
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssetID    int64   `json:"assetID" validate:"required,gt=0"`
		EmployeeID int64   `json:"employeeID" validate:"required,gt=0"`
		Notes      *string `json:"notes"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.invalidBody(w, r)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignment, err := h.inventory.Assign(r.Context(), req.AssetID, req.EmployeeID, req.Notes)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	msg := notify.AssignedMessage(assignment)
	h.afterMutation(r, &msg)

	h.createdResponse(w, r, "Asset assigned.", assignment)
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(AssignmentCtx).(*domain.AssignmentDetail)
	h.successResponse(w, r, "Assignment retrieved.", assignment)
}

func (h *Handler) ReturnAssignment(w http.ResponseWriter, r *http.Request) {
	current := r.Context().Value(AssignmentCtx).(*domain.AssignmentDetail)

	assignment, err := h.inventory.Return(r.Context(), current.ID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	msg := notify.ReturnedMessage(assignment)
	h.afterMutation(r, &msg)

	h.successResponse(w, r, "Asset returned.", assignment)
}
