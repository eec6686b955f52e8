package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/dashboard"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/inventory"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/report"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/utils"
)

// MailPublisher queues a notification mail. A nil publisher disables mail.
type MailPublisher interface {
	Publish(ctx context.Context, msg domain.MailMessage) error
}

type Handler struct {
	config    *config.Config
	validator *utils.Validator
	inventory *inventory.Service
	reports   *report.Service
	dashboard *dashboard.Service
	metrics   *metrics.Metrics
	mail      MailPublisher

	Mux *chi.Mux
}

func NewHandler(
	cfg *config.Config,
	validator *utils.Validator,
	inv *inventory.Service,
	reports *report.Service,
	dash *dashboard.Service,
	m *metrics.Metrics,
	mail MailPublisher,
) *Handler {
	return &Handler{
		config:    cfg,
		validator: validator,
		inventory: inv,
		reports:   reports,
		dashboard: dash,
		metrics:   m,
		mail:      mail,

		Mux: chi.NewRouter(),
	}
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	if h.metrics != nil {
		h.Mux.Use(h.instrument)
		h.Mux.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	h.Mux.Get("/healthz", h.Healthz)

	h.Mux.Route("/assets", func(r chi.Router) {
		r.Get("/", h.GetAllAssets)
		r.Post("/", h.CreateAsset)
		r.Get("/types", h.GetAssetTypes)
		r.Get("/available", h.GetAvailableAssets)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.assetCtx)
			r.Get("/", h.GetAsset)
			r.Put("/", h.UpdateAsset)
			r.Delete("/", h.DeleteAsset)
			r.Patch("/status", h.ChangeAssetStatus)
			r.Get("/assignments", h.GetAssetAssignments)
		})
	})

	h.Mux.Route("/employees", func(r chi.Router) {
		r.Get("/", h.GetAllEmployees)
		r.Post("/", h.CreateEmployee)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.employeeCtx)
			r.Get("/", h.GetEmployee)
			r.Put("/", h.UpdateEmployee)
			r.Delete("/", h.DeleteEmployee)
			r.Get("/can-delete", h.CanDeleteEmployee)
			r.Get("/assignments", h.GetEmployeeAssignments)
		})
	})

	h.Mux.Route("/assignments", func(r chi.Router) {
		r.Get("/", h.GetAllAssignments)
		r.Post("/", h.CreateAssignment)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.assignmentCtx)
			r.Get("/", h.GetAssignment)
			r.Post("/return", h.ReturnAssignment)
		})
	})

	h.Mux.Route("/reports", func(r chi.Router) {
		r.Get("/assignments/history", h.GetAssignmentHistory)
		r.Get("/{dataset}.{format}", h.ExportReport)
	})

	h.Mux.Get("/dashboard", h.GetDashboard)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "ok", nil)
}

// afterMutation runs once a mutation has committed.
func (h *Handler) afterMutation(r *http.Request, msg *domain.MailMessage) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(r.Context())
	}

	if msg == nil || h.mail == nil {
		return
	}
	// the operation already committed, a lost mail is only logged
	if err := h.mail.Publish(r.Context(), *msg); err != nil {
		h.logNotifyFailure(r, msg.Type, err)
	}
}
