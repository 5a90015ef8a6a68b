package recordshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"personnel/internal/domain/auth"
	"personnel/internal/domain/records"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
	"personnel/internal/transport/http/shared"
)

// Records is satisfied by *records.Service.
type Records interface {
	ListContracts(ctx context.Context, employeeID int64) ([]records.Contract, error)
	CreateContract(ctx context.Context, employeeID int64, c records.Contract) (records.Contract, error)
	UpdateContract(ctx context.Context, id int64, c records.Contract) (records.Contract, error)
	DeleteContract(ctx context.Context, id int64) error

	ListSkills(ctx context.Context, employeeID int64) ([]records.Skill, error)
	CreateSkill(ctx context.Context, employeeID int64, sk records.Skill) (records.Skill, error)
	UpdateSkill(ctx context.Context, id int64, sk records.Skill) (records.Skill, error)
	DeleteSkill(ctx context.Context, id int64) error

	ListTrainings(ctx context.Context, employeeID int64) ([]records.Training, error)
	CreateTraining(ctx context.Context, employeeID int64, t records.Training) (records.Training, error)
	UpdateTraining(ctx context.Context, id int64, t records.Training) (records.Training, error)
	DeleteTraining(ctx context.Context, id int64) error

	ListPromotions(ctx context.Context, employeeID int64) ([]records.Promotion, error)
	CreatePromotion(ctx context.Context, employeeID int64, p records.Promotion) (records.Promotion, error)
	UpdatePromotion(ctx context.Context, id int64, p records.Promotion) (records.Promotion, error)
	DeletePromotion(ctx context.Context, id int64) error

	ListReviews(ctx context.Context, employeeID int64) ([]records.Review, error)
	CreateReview(ctx context.Context, employeeID int64, r records.Review) (records.Review, error)
	UpdateReview(ctx context.Context, id int64, r records.Review) (records.Review, error)
	DeleteReview(ctx context.Context, id int64) error
}

type Handler struct {
	Records Records
	Perms   middleware.PermissionStore
}

func NewHandler(rec Records, perms middleware.PermissionStore) *Handler {
	return &Handler{Records: rec, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermRecordsRead, h.Perms)
	write := middleware.RequirePermission(auth.PermRecordsWrite, h.Perms)

	mount(r, "/contracts", read, write, resource[records.Contract, contractRequest]{
		list: h.Records.ListContracts, create: h.Records.CreateContract,
		update: h.Records.UpdateContract, remove: h.Records.DeleteContract,
	})
	mount(r, "/skills", read, write, resource[records.Skill, skillRequest]{
		list: h.Records.ListSkills, create: h.Records.CreateSkill,
		update: h.Records.UpdateSkill, remove: h.Records.DeleteSkill,
	})
	mount(r, "/trainings", read, write, resource[records.Training, trainingRequest]{
		list: h.Records.ListTrainings, create: h.Records.CreateTraining,
		update: h.Records.UpdateTraining, remove: h.Records.DeleteTraining,
	})
	mount(r, "/promotions", read, write, resource[records.Promotion, promotionRequest]{
		list: h.Records.ListPromotions, create: h.Records.CreatePromotion,
		update: h.Records.UpdatePromotion, remove: h.Records.DeletePromotion,
	})
	mount(r, "/performance-reviews", read, write, resource[records.Review, reviewRequest]{
		list: h.Records.ListReviews, create: h.Records.CreateReview,
		update: h.Records.UpdateReview, remove: h.Records.DeleteReview,
	})
}

// payload is a request body that converts itself into a record, reporting
// unparseable fields on v.
type payload[T any] interface {
	build(v *shared.Validator) T
}

type resource[T any, P payload[T]] struct {
	list   func(ctx context.Context, employeeID int64) ([]T, error)
	create func(ctx context.Context, employeeID int64, rec T) (T, error)
	update func(ctx context.Context, id int64, rec T) (T, error)
	remove func(ctx context.Context, id int64) error
}

// mount registers the four routes every sub-record shares:
// GET and POST on /employee/{employeeId}, PUT and DELETE on /{id}.
func mount[T any, P payload[T]](r chi.Router, path string, read, write func(http.Handler) http.Handler, res resource[T, P]) {
	r.Route(path, func(r chi.Router) {
		r.With(read).Get("/employee/{employeeId}", func(w http.ResponseWriter, r *http.Request) {
			requestID := middleware.GetRequestID(r.Context())
			employeeID, err := shared.ParseID(r, "employeeId")
			if err != nil {
				api.FailError(w, err, requestID)
				return
			}
			items, err := res.list(r.Context(), employeeID)
			if err != nil {
				api.FailError(w, err, requestID)
				return
			}
			api.Success(w, items, requestID)
		})

		r.With(write).Post("/employee/{employeeId}", func(w http.ResponseWriter, r *http.Request) {
			requestID := middleware.GetRequestID(r.Context())
			employeeID, err := shared.ParseID(r, "employeeId")
			if err != nil {
				api.FailError(w, err, requestID)
				return
			}
			rec, ok := decode[T, P](w, r)
			if !ok {
				return
			}
			created, err := res.create(r.Context(), employeeID, rec)
			if err != nil {
				api.FailError(w, err, requestID)
				return
			}
			api.Created(w, created, requestID)
		})

		r.With(write).Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			requestID := middleware.GetRequestID(r.Context())
			id, err := shared.ParseID(r, "id")
			if err != nil {
				api.FailError(w, err, requestID)
				return
			}
			rec, ok := decode[T, P](w, r)
			if !ok {
				return
			}
			updated, err := res.update(r.Context(), id, rec)
			if err != nil {
				api.FailError(w, err, requestID)
				return
			}
			api.Success(w, updated, requestID)
		})

		r.With(write).Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			requestID := middleware.GetRequestID(r.Context())
			id, err := shared.ParseID(r, "id")
			if err != nil {
				api.FailError(w, err, requestID)
				return
			}
			if err := res.remove(r.Context(), id); err != nil {
				api.FailError(w, err, requestID)
				return
			}
			api.NoContent(w)
		})
	})
}

func decode[T any, P payload[T]](w http.ResponseWriter, r *http.Request) (T, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var zero T
	var body P
	if err := shared.DecodeJSON(r, &body); err != nil {
		api.FailError(w, err, requestID)
		return zero, false
	}
	v := shared.NewValidator()
	v.Struct(body)
	rec := body.build(v)
	if v.Reject(w, requestID) {
		return zero, false
	}
	return rec, true
}
