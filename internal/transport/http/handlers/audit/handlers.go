package audithandler

import (
	"context"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"personnel/internal/domain/audit"
	"personnel/internal/domain/auth"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
	"personnel/internal/transport/http/shared"
)

// Reader is satisfied by *audit.Store.
type Reader interface {
	List(ctx context.Context, filter audit.Filter, limit, offset int) ([]audit.Action, error)
	Count(ctx context.Context, filter audit.Filter) (int, error)
}

type Handler struct {
	Actions Reader
	Perms   middleware.PermissionStore
}

func NewHandler(actions Reader, perms middleware.PermissionStore) *Handler {
	return &Handler{Actions: actions, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermAuditRead, h.Perms))
		r.Get("/actions", h.handleListActions)
		r.Get("/actions/export", h.handleExportActions)
	})
}

func parseFilter(r *http.Request) (audit.Filter, error) {
	employeeID, err := shared.QueryID(r, "employeeId")
	if err != nil {
		return audit.Filter{}, err
	}
	return audit.Filter{
		EmployeeID: employeeID,
		ActionType: r.URL.Query().Get("actionType"),
		Actor:      r.URL.Query().Get("actor"),
	}, nil
}

func (h *Handler) handleListActions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	filter, err := parseFilter(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	page := shared.ParsePagination(r, 100, 500)

	total, err := h.Actions.Count(r.Context(), filter)
	if err != nil {
		logrus.WithError(err).Warn("audit count failed")
	}
	actions, err := h.Actions.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, actions, requestID)
}

func (h *Handler) handleExportActions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	actions, err := h.Actions.List(r.Context(), filter, 0, 0)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=employee-actions.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "employee_id", "action_type", "actor", "details", "created_at"}); err != nil {
		logrus.WithError(err).Warn("audit export header failed")
	}
	for _, a := range actions {
		row := []string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(a.EmployeeID, 10),
			a.ActionType,
			a.Actor,
			a.Details,
			a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			logrus.WithError(err).Warn("audit export row failed")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logrus.WithError(err).Warn("audit export flush failed")
	}
}
