package employeehandler

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"personnel/internal/apperr"
	"personnel/internal/domain/audit"
	"personnel/internal/domain/auth"
	"personnel/internal/domain/employee"
	"personnel/internal/requestctx"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
	"personnel/internal/transport/http/shared"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Registry is satisfied by *employee.Service.
type Registry interface {
	List(ctx context.Context) ([]employee.Employee, error)
	Search(ctx context.Context, q employee.Query) (employee.Page, error)
	Get(ctx context.Context, id int64) (employee.Employee, error)
	LastUpdatedAt(ctx context.Context) (*time.Time, error)
	Actions(ctx context.Context, employeeID int64) ([]audit.Action, error)
	Create(ctx context.Context, in employee.Input, actor string) (employee.Employee, error)
	Update(ctx context.Context, id int64, in employee.Input, actor string) (employee.Employee, error)
	Delete(ctx context.Context, id int64, actor string) error
	UploadPhoto(ctx context.Context, id int64, data []byte, actor string) (employee.Photo, error)
	Photo(ctx context.Context, id int64) (employee.Photo, error)
	AssignToDivision(ctx context.Context, employeeID, divisionID int64, actor string) (employee.Employee, error)
}

// Renderer is satisfied by *reports.Service.
type Renderer interface {
	EmployeeSheet(ctx context.Context, id int64, w io.Writer) error
	ExportEmployees(ctx context.Context, w io.Writer) error
}

type Handler struct {
	Registry    Registry
	Reports     Renderer
	Idempotency middleware.IdempotencyChecker
	Perms       middleware.PermissionStore
}

func NewHandler(registry Registry, reports Renderer, idempotency middleware.IdempotencyChecker, perms middleware.PermissionStore) *Handler {
	return &Handler{Registry: registry, Reports: reports, Idempotency: idempotency, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)
	write := middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)
	reports := middleware.RequirePermission(auth.PermReportsRead, h.Perms)

	create := []func(http.Handler) http.Handler{write}
	if h.Idempotency != nil {
		create = append(create, middleware.Idempotent(h.Idempotency))
	}

	r.Route("/employees", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(create...).Post("/", h.handleCreate)
		r.With(read).Get("/paged", h.handleSearch)
		r.With(read).Get("/last-updated", h.handleLastUpdated)
		r.With(reports).Get("/export", h.handleExport)
		r.Route("/{id}", func(r chi.Router) {
			r.With(read).Get("/", h.handleGet)
			r.With(write).Put("/", h.handleUpdate)
			r.With(write).Delete("/", h.handleDelete)
			r.With(read).Get("/actions", h.handleActions)
			r.With(read).Get("/photo", h.handleGetPhoto)
			r.With(write).Post("/photo", h.handleUploadPhoto)
			r.With(write).Put("/change-division/{divisionId}", h.handleChangeDivision)
			r.With(reports).Get("/pdf", h.handlePDF)
		})
	})
}

type employeeRequest struct {
	Matricule   string `json:"matricule" validate:"max=50"`
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Gender      string `json:"gender" validate:"required"`
	Age         int    `json:"age" validate:"gte=0,lte=120"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`

	Street           string `json:"street"`
	ZipCode          string `json:"zipCode"`
	City             string `json:"city"`
	Country          string `json:"country"`
	MobilePhone      string `json:"mobilePhone"`
	HomePhone        string `json:"homePhone"`
	EmergencyContact string `json:"emergencyContact"`

	JobTitle                      string `json:"jobTitle"`
	HireDate                      string `json:"hireDate"`
	PublicServiceEntryDate        string `json:"publicServiceEntryDate"`
	CurrentPostEntryDate          string `json:"currentPostEntryDate"`
	PreviousPosition              string `json:"previousPosition"`
	AdministrativeStatus          string `json:"administrativeStatus"`
	StatusCategory                string `json:"statusCategory"`
	HighestDiploma                string `json:"highestDiploma"`
	CurrentAdministrativePosition string `json:"currentAdministrativePosition"`

	DirectionID   *int64 `json:"directionId"`
	ServiceID     *int64 `json:"serviceId"`
	DivisionID    *int64 `json:"divisionId"`
	JobTemplateID *int64 `json:"jobTemplateId"`
}

func (p employeeRequest) input(v *shared.Validator) employee.Input {
	return employee.Input{
		Matricule:   p.Matricule,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Gender:      p.Gender,
		Age:         p.Age,
		DateOfBirth: v.OptionalDate("dateOfBirth", p.DateOfBirth),
		SSN:         p.SSN,

		Street:           p.Street,
		ZipCode:          p.ZipCode,
		City:             p.City,
		Country:          p.Country,
		MobilePhone:      p.MobilePhone,
		HomePhone:        p.HomePhone,
		EmergencyContact: p.EmergencyContact,

		JobTitle:                      p.JobTitle,
		HireDate:                      v.OptionalDate("hireDate", p.HireDate),
		PublicServiceEntryDate:        v.OptionalDate("publicServiceEntryDate", p.PublicServiceEntryDate),
		CurrentPostEntryDate:          v.OptionalDate("currentPostEntryDate", p.CurrentPostEntryDate),
		PreviousPosition:              p.PreviousPosition,
		AdministrativeStatus:          p.AdministrativeStatus,
		StatusCategory:                p.StatusCategory,
		HighestDiploma:                p.HighestDiploma,
		CurrentAdministrativePosition: p.CurrentAdministrativePosition,

		Target: employee.OrgTarget{
			DirectionID:   p.DirectionID,
			ServiceUnitID: p.ServiceID,
			DivisionID:    p.DivisionID,
		},
		JobTemplateID: p.JobTemplateID,
	}
}

// decodeInput writes the failure itself and reports false when the payload
// cannot be used.
func decodeInput(w http.ResponseWriter, r *http.Request) (employee.Input, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employeeRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return employee.Input{}, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	in := payload.input(v)
	if v.Reject(w, requestID) {
		return employee.Input{}, false
	}
	return in, true
}

func respond(w http.ResponseWriter, r *http.Request, data any, err error) {
	requestID := middleware.GetRequestID(r.Context())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, data, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Registry.List(r.Context())
	respond(w, r, employees, err)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	divisionID, err := shared.QueryID(r, "divisionId")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	page := shared.ParsePageRequest(r, defaultPageSize, maxPageSize)
	result, err := h.Registry.Search(r.Context(), employee.Query{
		Search:     r.URL.Query().Get("q"),
		DivisionID: divisionID,
		SortField:  page.SortField,
		SortDesc:   page.SortDesc,
		Limit:      page.Size,
		Offset:     page.Offset(),
	})
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	respond(w, r, map[string]any{
		"content":       result.Items,
		"totalElements": result.Total,
		"page":          page.Page,
		"size":          page.Size,
	}, nil)
}

func (h *Handler) handleLastUpdated(w http.ResponseWriter, r *http.Request) {
	last, err := h.Registry.LastUpdatedAt(r.Context())
	respond(w, r, map[string]*time.Time{"lastUpdated": last}, err)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	emp, err := h.Registry.Get(r.Context(), id)
	respond(w, r, emp, err)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	emp, err := h.Registry.Create(r.Context(), in, requestctx.Actor(r.Context()))
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Created(w, emp, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	emp, err := h.Registry.Update(r.Context(), id, in, requestctx.Actor(r.Context()))
	respond(w, r, emp, err)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	if err := h.Registry.Delete(r.Context(), id, requestctx.Actor(r.Context())); err != nil {
		respond(w, r, nil, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleActions(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	actions, err := h.Registry.Actions(r.Context(), id)
	respond(w, r, actions, err)
}

type photoResponse struct {
	EmployeeID  int64  `json:"employeeId"`
	ContentType string `json:"contentType"`
	Photo       string `json:"photo"`
}

func encodePhoto(p employee.Photo) photoResponse {
	return photoResponse{
		EmployeeID:  p.EmployeeID,
		ContentType: p.ContentType,
		Photo:       base64.StdEncoding.EncodeToString(p.Data),
	}
}

func (h *Handler) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	photo, err := h.Registry.Photo(r.Context(), id)
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	respond(w, r, encodePhoto(photo), nil)
}

func (h *Handler) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		respond(w, r, nil, apperr.Validation("multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, employee.MaxPhotoBytes+1))
	if err != nil {
		respond(w, r, nil, apperr.Validation("photo could not be read"))
		return
	}
	photo, err := h.Registry.UploadPhoto(r.Context(), id, data, requestctx.Actor(r.Context()))
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	respond(w, r, encodePhoto(photo), nil)
}

func (h *Handler) handleChangeDivision(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	divisionID, err := shared.ParseID(r, "divisionId")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	emp, err := h.Registry.AssignToDivision(r.Context(), id, divisionID, requestctx.Actor(r.Context()))
	respond(w, r, emp, err)
}

// The document is rendered fully before the first byte is sent so a failure
// still produces an error envelope.
func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r, "id")
	if err != nil {
		respond(w, r, nil, err)
		return
	}
	var buf bytes.Buffer
	if err := h.Reports.EmployeeSheet(r.Context(), id, &buf); err != nil {
		respond(w, r, nil, err)
		return
	}
	sendFile(w, "application/pdf", "fiche-employe-"+strconv.FormatInt(id, 10)+".pdf", &buf)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Reports.ExportEmployees(r.Context(), &buf); err != nil {
		respond(w, r, nil, err)
		return
	}
	sendFile(w, xlsxContentType, "employes.xlsx", &buf)
}

func sendFile(w http.ResponseWriter, contentType, name string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logrus.WithError(err).WithField("file", name).Warn("file download interrupted")
	}
}
