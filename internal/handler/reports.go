package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/report"
)

func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	dataset := report.Dataset(chi.URLParam(r, "dataset"))
	format := report.Format(chi.URLParam(r, "format"))

	// render fully before writing so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.reports.Export(r.Context(), dataset, format, &buf); err != nil {
		switch {
		case errors.Is(err, report.ErrUnknownDataset), errors.Is(err, report.ErrUnknownFormat):
			h.notFound(w, r, "Unknown report.")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.FileName(dataset, format, time.Now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) GetAssignmentHistory(w http.ResponseWriter, r *http.Request) {
	var (
		q   report.HistoryQuery
		err error
	)
	if q.From, err = queryDate(r, "from"); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if q.To, err = queryDate(r, "to"); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if q.EmployeeID, err = queryID(r, "employeeId"); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if q.AssetID, err = queryID(r, "assetId"); err != nil {
		h.badRequest(w, r, err)
		return
	}

	history, err := h.reports.History(r.Context(), q)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "Assignment history retrieved.", history)
}
