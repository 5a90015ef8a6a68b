package cataloghandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"personnel/internal/domain/auth"
	"personnel/internal/domain/catalog"
	"personnel/internal/requestctx"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
	"personnel/internal/transport/http/shared"
)

// Catalog is satisfied by *catalog.Service.
type Catalog interface {
	ListTemplates(ctx context.Context, filter catalog.TemplateFilter) ([]catalog.JobTemplate, error)
	GetTemplate(ctx context.Context, id int64) (catalog.JobTemplate, error)
	CreateTemplate(ctx context.Context, in catalog.TemplateInput) (catalog.JobTemplate, error)
	UpdateTemplate(ctx context.Context, id int64, in catalog.TemplateInput) (catalog.JobTemplate, error)
	DeleteTemplate(ctx context.Context, id int64) error
	ListPositions(ctx context.Context, filter catalog.PositionFilter) ([]catalog.Position, error)
	GetPosition(ctx context.Context, id int64) (catalog.Position, error)
	CreatePosition(ctx context.Context, in catalog.PositionInput, actor string) (catalog.Position, error)
	UpdatePosition(ctx context.Context, id int64, in catalog.PositionInput, actor string) (catalog.Position, error)
	DeletePosition(ctx context.Context, id int64, actor string) error
	AssignEmployee(ctx context.Context, positionID, employeeID int64, actor string) (catalog.Position, error)
	ReleasePosition(ctx context.Context, positionID int64, actor string) (catalog.Position, error)
}

type Handler struct {
	Catalog Catalog
	Perms   middleware.PermissionStore
}

func NewHandler(c Catalog, perms middleware.PermissionStore) *Handler {
	return &Handler{Catalog: c, Perms: perms}
}

type templateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	DirectionID *int64 `json:"directionId"`
	ServiceID   *int64 `json:"serviceId"`
	DivisionID  *int64 `json:"divisionId"`
}

type positionRequest struct {
	Title               string `json:"title" validate:"required,max=255"`
	DivisionID          int64  `json:"divisionId" validate:"required,gt=0"`
	Category            string `json:"category"`
	Level               string `json:"level"`
	Missions            string `json:"missions"`
	Description         string `json:"description"`
	ClassificationLevel string `json:"classificationLevel"`
	Status              string `json:"status"`
	EmployeeID          *int64 `json:"employeeId"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermCatalogRead, h.Perms)
	write := middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)

	r.Route("/job-templates", func(r chi.Router) {
		r.With(read).Get("/", h.handleListTemplates)
		r.With(write).Post("/", h.handleCreateTemplate)
		r.Route("/{id}", func(r chi.Router) {
			r.With(read).Get("/", h.handleGetTemplate)
			r.With(write).Put("/", h.handleUpdateTemplate)
			r.With(write).Delete("/", h.handleDeleteTemplate)
		})
	})

	r.Route("/positions", func(r chi.Router) {
		r.With(read).Get("/", h.handleListPositions)
		r.With(write).Post("/", h.handleCreatePosition)
		r.Route("/{id}", func(r chi.Router) {
			r.With(read).Get("/", h.handleGetPosition)
			r.With(write).Put("/", h.handleUpdatePosition)
			r.With(write).Delete("/", h.handleDeletePosition)
			r.With(write).Post("/assign/{employeeId}", h.handleAssign)
			r.With(write).Post("/release", h.handleRelease)
		})
	})
}

func respond(w http.ResponseWriter, r *http.Request, status int, data any, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case err != nil:
		api.FailError(w, err, requestID)
	case status == http.StatusCreated:
		api.Created(w, data, requestID)
	case status == http.StatusNoContent:
		api.NoContent(w)
	default:
		api.Success(w, data, requestID)
	}
}

func decodeTemplate(w http.ResponseWriter, r *http.Request) (catalog.TemplateInput, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload templateRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return catalog.TemplateInput{}, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return catalog.TemplateInput{}, false
	}
	return catalog.TemplateInput{
		Title:         payload.Title,
		Description:   payload.Description,
		DirectionID:   payload.DirectionID,
		ServiceUnitID: payload.ServiceID,
		DivisionID:    payload.DivisionID,
	}, true
}

func decodePosition(w http.ResponseWriter, r *http.Request) (catalog.PositionInput, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload positionRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return catalog.PositionInput{}, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	v.Enum("status", payload.Status, catalog.Statuses, "must be VACANT or OCCUPIED")
	if v.Reject(w, requestID) {
		return catalog.PositionInput{}, false
	}
	return catalog.PositionInput{
		Title:               payload.Title,
		DivisionID:          payload.DivisionID,
		Category:            payload.Category,
		Level:               payload.Level,
		Missions:            payload.Missions,
		Description:         payload.Description,
		ClassificationLevel: payload.ClassificationLevel,
		Status:              payload.Status,
		EmployeeID:          payload.EmployeeID,
	}, true
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	var filter catalog.TemplateFilter
	var err error
	if filter.DirectionID, err = shared.QueryID(r, "directionId"); err == nil {
		if filter.ServiceUnitID, err = shared.QueryID(r, "serviceId"); err == nil {
			filter.DivisionID, err = shared.QueryID(r, "divisionId")
		}
	}
	if err != nil {
		respond(w, r, http.StatusOK, nil, err)
		return
	}
	templates, err := h.Catalog.ListTemplates(r.Context(), filter)
	respond(w, r, http.StatusOK, templates, err)
}

func (h *Handler) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, http.StatusOK, nil, err)
		return
	}
	template, err := h.Catalog.GetTemplate(r.Context(), id)
	respond(w, r, http.StatusOK, template, err)
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeTemplate(w, r)
	if !ok {
		return
	}
	template, err := h.Catalog.CreateTemplate(r.Context(), in)
	respond(w, r, http.StatusCreated, template, err)
}

func (h *Handler) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, http.StatusOK, nil, err)
		return
	}
	in, ok := decodeTemplate(w, r)
	if !ok {
		return
	}
	template, err := h.Catalog.UpdateTemplate(r.Context(), id, in)
	respond(w, r, http.StatusOK, template, err)
}

func (h *Handler) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, http.StatusOK, nil, err)
		return
	}
	respond(w, r, http.StatusNoContent, nil, h.Catalog.DeleteTemplate(r.Context(), id))
}

func (h *Handler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	var filter catalog.PositionFilter
	var err error
	if filter.DivisionID, err = shared.QueryID(r, "divisionId"); err == nil {
		filter.EmployeeID, err = shared.QueryID(r, "employeeId")
	}
	if err != nil {
		respond(w, r, http.StatusOK, nil, err)
		return
	}
	positions, err := h.Catalog.ListPositions(r.Context(), filter)
	respond(w, r, http.StatusOK, positions, err)
}

func (h *Handler) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, http.StatusOK, nil, err)
		return
	}
	position, err := h.Catalog.GetPosition(r.Context(), id)
	respond(w, r, http.StatusOK, position, err)
}

func (h *Handler) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	in, ok := decodePosition(w, r)
	if !ok {
		return
	}
	position, err := h.Catalog.CreatePosition(r.Context(), in, requestctx.Actor(r.Context()))
	respond(w, r, http.StatusCreated, position, err)
}

func (h *Handler) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, http.StatusOK, nil, err)
		return
	}
	in, ok := decodePosition(w, r)
	if !ok {
		return
	}
	position, err := h.Catalog.UpdatePosition(r.Context(), id, in, requestctx.Actor(r.Context()))
	respond(w, r, http.StatusOK, position, err)
}

func (h *Handler) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, http.StatusOK, nil, err)
		return
	}
	respond(w, r, http.StatusNoContent, nil, h.Catalog.DeletePosition(r.Context(), id, requestctx.Actor(r.Context())))
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, http.StatusOK, nil, err)
		return
	}
	employeeID, err := shared.ParseID(r, "employeeId")
	if err != nil {
		respond(w, r, http.StatusOK, nil, err)
		return
	}
	position, err := h.Catalog.AssignEmployee(r.Context(), id, employeeID, requestctx.Actor(r.Context()))
	respond(w, r, http.StatusOK, position, err)
}

func (h *Handler) handleRelease(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, http.StatusOK, nil, err)
		return
	}
	position, err := h.Catalog.ReleasePosition(r.Context(), id, requestctx.Actor(r.Context()))
	respond(w, r, http.StatusOK, position, err)
}
