package authhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"personnel/internal/apperr"
	"personnel/internal/domain/auth"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
	"personnel/internal/transport/http/shared"
)

// Accounts is satisfied by *auth.Service.
type Accounts interface {
	Login(ctx context.Context, login, password string) (auth.LoginResult, error)
	Me(ctx context.Context, userID int64) (auth.User, error)
	CreateUser(ctx context.Context, username, email, password, role string) (auth.User, error)
}

type Handler struct {
	Accounts Accounts
	Perms    middleware.PermissionStore
}

func NewHandler(accounts Accounts, perms middleware.PermissionStore) *Handler {
	return &Handler{Accounts: accounts, Perms: perms}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.Get("/me", h.handleMe)
	r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Post("/users", h.handleCreateUser)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Accounts.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnauthorized {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
			return
		}
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, result, requestID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	account, err := h.Accounts.Me(r.Context(), user.UserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
			return
		}
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, account, requestID)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload createUserRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	v.Enum("role", payload.Role, auth.Roles, "must be one of ADMIN, RH, MANAGER, EMPLOYEE")
	if v.Reject(w, requestID) {
		return
	}

	user, err := h.Accounts.CreateUser(r.Context(), payload.Username, payload.Email, payload.Password, payload.Role)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Created(w, user, requestID)
}
