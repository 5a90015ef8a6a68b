package organizationhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"personnel/internal/domain/auth"
	"personnel/internal/domain/employee"
	"personnel/internal/domain/organization"
	"personnel/internal/requestctx"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
	"personnel/internal/transport/http/shared"
)

// Tree is satisfied by *organization.Service.
type Tree interface {
	Tree(ctx context.Context) ([]organization.DirectionNode, error)
	ListDirections(ctx context.Context) ([]organization.Direction, error)
	GetDirection(ctx context.Context, id int64) (organization.Direction, error)
	CreateDirection(ctx context.Context, details organization.Details) (organization.Direction, error)
	UpdateDirection(ctx context.Context, id int64, details organization.Details) (organization.Direction, error)
	DeleteDirection(ctx context.Context, id int64) error
	ListServiceUnits(ctx context.Context, directionID int64) ([]organization.ServiceUnit, error)
	GetServiceUnit(ctx context.Context, id int64) (organization.ServiceUnit, error)
	CreateServiceUnit(ctx context.Context, directionID int64, details organization.Details) (organization.ServiceUnit, error)
	UpdateServiceUnit(ctx context.Context, id int64, details organization.Details) (organization.ServiceUnit, error)
	DeleteServiceUnit(ctx context.Context, id int64) error
	ListDivisions(ctx context.Context, serviceUnitID int64) ([]organization.Division, error)
	GetDivision(ctx context.Context, id int64) (organization.Division, error)
	CreateDivision(ctx context.Context, serviceUnitID int64, details organization.Details) (organization.Division, error)
	UpdateDivision(ctx context.Context, id int64, details organization.Details) (organization.Division, error)
	DeleteDivision(ctx context.Context, id int64) error
	EmployeeCount(ctx context.Context, level organization.Level, id int64) (int, error)
}

// Roster is the part of *employee.Service that moves people between divisions.
type Roster interface {
	ListByDivision(ctx context.Context, divisionID int64) ([]employee.Employee, error)
	AssignToDivision(ctx context.Context, employeeID, divisionID int64, actor string) (employee.Employee, error)
	RemoveFromDivision(ctx context.Context, divisionID, employeeID int64, actor string) error
}

type Handler struct {
	Tree   Tree
	Roster Roster
	Perms  middleware.PermissionStore
}

func NewHandler(tree Tree, roster Roster, perms middleware.PermissionStore) *Handler {
	return &Handler{Tree: tree, Roster: roster, Perms: perms}
}

type nodeRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Address     string `json:"address"`
	ManagerName string `json:"managerName"`
	Missions    string `json:"missions"`
	Objectives  string `json:"objectives"`
}

func (p nodeRequest) details() organization.Details {
	return organization.Details{
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		ManagerName: p.ManagerName,
		Missions:    p.Missions,
		Objectives:  p.Objectives,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermOrgRead, h.Perms)
	write := middleware.RequirePermission(auth.PermOrgWrite, h.Perms)
	moveEmployees := middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)

	r.Route("/organization", func(r chi.Router) {
		r.With(read).Get("/", h.handleTree)

		r.Route("/directions", func(r chi.Router) {
			r.With(read).Get("/", h.handleListDirections)
			r.With(write).Post("/", h.handleCreateDirection)
			r.Route("/{id}", func(r chi.Router) {
				r.With(read).Get("/", h.handleGetDirection)
				r.With(write).Put("/", h.handleUpdateDirection)
				r.With(write).Delete("/", h.handleDeleteDirection)
				r.With(read).Get("/employee-count", h.handleCount(organization.LevelDirection))
			})
		})

		r.Route("/services", func(r chi.Router) {
			r.With(read).Get("/", h.handleListServiceUnits)
			r.With(write).Post("/", h.handleCreateServiceUnit)
			r.Route("/{id}", func(r chi.Router) {
				r.With(read).Get("/", h.handleGetServiceUnit)
				r.With(write).Put("/", h.handleUpdateServiceUnit)
				r.With(write).Delete("/", h.handleDeleteServiceUnit)
				r.With(read).Get("/employee-count", h.handleCount(organization.LevelServiceUnit))
			})
		})

		r.Route("/divisions", func(r chi.Router) {
			r.With(read).Get("/", h.handleListDivisions)
			r.With(write).Post("/", h.handleCreateDivision)
			r.Route("/{id}", func(r chi.Router) {
				r.With(read).Get("/", h.handleGetDivision)
				r.With(write).Put("/", h.handleUpdateDivision)
				r.With(write).Delete("/", h.handleDeleteDivision)
				r.With(read).Get("/employee-count", h.handleCount(organization.LevelDivision))
				r.With(read).Get("/employees", h.handleDivisionEmployees)
				r.With(moveEmployees).Post("/assign/{employeeId}", h.handleAssign)
				r.With(moveEmployees).Delete("/remove/{employeeId}", h.handleRemove)
			})
		})
	})
}

// decodeNode reads and validates a node payload, writing the failure itself.
func decodeNode(w http.ResponseWriter, r *http.Request) (organization.Details, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload nodeRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return organization.Details{}, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return organization.Details{}, false
	}
	return payload.details(), true
}

// respond writes data or the error's mapped status.
func respond(w http.ResponseWriter, r *http.Request, data any, err error) {
	requestID := middleware.GetRequestID(r.Context())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, data, requestID)
}

func respondCreated(w http.ResponseWriter, r *http.Request, data any, err error) {
	requestID := middleware.GetRequestID(r.Context())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Created(w, data, requestID)
}

func respondDeleted(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.Tree.Tree(r.Context())
	respond(w, r, tree, err)
}

func (h *Handler) handleListDirections(w http.ResponseWriter, r *http.Request) {
	directions, err := h.Tree.ListDirections(r.Context())
	respond(w, r, directions, err)
}

func (h *Handler) handleGetDirection(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	direction, err := h.Tree.GetDirection(r.Context(), id)
	respond(w, r, direction, err)
}

func (h *Handler) handleCreateDirection(w http.ResponseWriter, r *http.Request) {
	details, ok := decodeNode(w, r)
	if !ok {
		return
	}
	direction, err := h.Tree.CreateDirection(r.Context(), details)
	respondCreated(w, r, direction, err)
}

func (h *Handler) handleUpdateDirection(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	details, ok := decodeNode(w, r)
	if !ok {
		return
	}
	direction, err := h.Tree.UpdateDirection(r.Context(), id, details)
	respond(w, r, direction, err)
}

func (h *Handler) handleDeleteDirection(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	respondDeleted(w, r, h.Tree.DeleteDirection(r.Context(), id))
}

func (h *Handler) handleListServiceUnits(w http.ResponseWriter, r *http.Request) {
	directionID, err := shared.QueryID(r, "directionId")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	units, err := h.Tree.ListServiceUnits(r.Context(), directionID)
	respond(w, r, units, err)
}

func (h *Handler) handleGetServiceUnit(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	unit, err := h.Tree.GetServiceUnit(r.Context(), id)
	respond(w, r, unit, err)
}

func (h *Handler) handleCreateServiceUnit(w http.ResponseWriter, r *http.Request) {
	directionID, err := shared.QueryID(r, "directionId")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	details, ok := decodeNode(w, r)
	if !ok {
		return
	}
	unit, err := h.Tree.CreateServiceUnit(r.Context(), directionID, details)
	respondCreated(w, r, unit, err)
}

func (h *Handler) handleUpdateServiceUnit(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	details, ok := decodeNode(w, r)
	if !ok {
		return
	}
	unit, err := h.Tree.UpdateServiceUnit(r.Context(), id, details)
	respond(w, r, unit, err)
}

func (h *Handler) handleDeleteServiceUnit(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	respondDeleted(w, r, h.Tree.DeleteServiceUnit(r.Context(), id))
}

func (h *Handler) handleListDivisions(w http.ResponseWriter, r *http.Request) {
	serviceID, err := shared.QueryID(r, "serviceId")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	divisions, err := h.Tree.ListDivisions(r.Context(), serviceID)
	respond(w, r, divisions, err)
}

func (h *Handler) handleGetDivision(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	division, err := h.Tree.GetDivision(r.Context(), id)
	respond(w, r, division, err)
}

func (h *Handler) handleCreateDivision(w http.ResponseWriter, r *http.Request) {
	serviceID, err := shared.QueryID(r, "serviceId")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	details, ok := decodeNode(w, r)
	if !ok {
		return
	}
	division, err := h.Tree.CreateDivision(r.Context(), serviceID, details)
	respondCreated(w, r, division, err)
}

func (h *Handler) handleUpdateDivision(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	details, ok := decodeNode(w, r)
	if !ok {
		return
	}
	division, err := h.Tree.UpdateDivision(r.Context(), id, details)
	respond(w, r, division, err)
}

func (h *Handler) handleDeleteDivision(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	respondDeleted(w, r, h.Tree.DeleteDivision(r.Context(), id))
}

func (h *Handler) handleCount(level organization.Level) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := shared.ParseID(r, "id")
		if err != nil {
			respond(w, r, nil, err)
			return
		}
		count, err := h.Tree.EmployeeCount(r.Context(), level, id)
		respond(w, r, map[string]int{"count": count}, err)
	}
}

func (h *Handler) handleDivisionEmployees(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	employees, err := h.Roster.ListByDivision(r.Context(), id)
	respond(w, r, employees, err)
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	divisionID, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	employeeID, err := shared.ParseID(r, "employeeId")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	updated, err := h.Roster.AssignToDivision(r.Context(), employeeID, divisionID, requestctx.Actor(r.Context()))
	respond(w, r, updated, err)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	divisionID, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	employeeID, err := shared.ParseID(r, "employeeId")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	respondDeleted(w, r, h.Roster.RemoveFromDivision(r.Context(), divisionID, employeeID, requestctx.Actor(r.Context())))
}
