package statshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"personnel/internal/domain/auth"
	"personnel/internal/domain/stats"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
)

type Dashboarder interface {
	Dashboard(ctx context.Context) (stats.Dashboard, error)
}

type Handler struct {
	Stats Dashboarder
	Perms middleware.PermissionStore
}

func NewHandler(s Dashboarder, perms middleware.PermissionStore) *Handler {
	return &Handler{Stats: s, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/stats/dashboard", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	dashboard, err := h.Stats.Dashboard(r.Context())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, dashboard, requestID)
}
