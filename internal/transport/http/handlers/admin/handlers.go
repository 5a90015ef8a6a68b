package adminhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"personnel/internal/domain/auth"
	"personnel/internal/domain/employee"
	"personnel/internal/platform/jobs"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
	"personnel/internal/transport/http/shared"
)

// Jobs is satisfied by *jobs.Service.
type Jobs interface {
	Reconcile(ctx context.Context) (employee.ReconcileResult, error)
	Runs(ctx context.Context, limit int) ([]jobs.Run, error)
}

type Handler struct {
	Jobs  Jobs
	Perms middleware.PermissionStore
}

func NewHandler(j Jobs, perms middleware.PermissionStore) *Handler {
	return &Handler{Jobs: j, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms))
		r.Post("/reconcile-duplicates", h.handleReconcile)
		r.Get("/job-runs", h.handleRuns)
	})
}

func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	result, err := h.Jobs.Reconcile(r.Context())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	logrus.WithFields(logrus.Fields{
		"requestId": requestID,
		"groups":    result.Groups,
		"removed":   len(result.RemovedIDs),
	}).Info("duplicate reconciliation requested")
	api.Success(w, result, requestID)
}

func (h *Handler) handleRuns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	runs, err := h.Jobs.Runs(r.Context(), page.Limit)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, runs, requestID)
}
