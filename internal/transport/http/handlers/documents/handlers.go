package documentshandler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"personnel/internal/apperr"
	"personnel/internal/domain/auth"
	"personnel/internal/domain/documents"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
	"personnel/internal/transport/http/shared"
)

// Library is satisfied by *documents.Service.
type Library interface {
	ListByEmployee(ctx context.Context, employeeID int64) ([]documents.Document, error)
	Upload(ctx context.Context, in documents.Upload) (documents.Document, error)
	Open(ctx context.Context, id int64) (documents.Document, io.ReadCloser, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	Library Library
	Perms   middleware.PermissionStore
}

func NewHandler(library Library, perms middleware.PermissionStore) *Handler {
	return &Handler{Library: library, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermDocumentsRead, h.Perms)
	write := middleware.RequirePermission(auth.PermDocumentsWrite, h.Perms)

	r.Route("/documents", func(r chi.Router) {
		r.With(write).Post("/", h.handleUpload)
		r.With(read).Get("/employee/{employeeId}", h.handleList)
		r.With(read).Get("/download/{id}", h.handleDownload)
		r.With(write).Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	file, header, err := r.FormFile("file")
	if err != nil {
		api.FailError(w, apperr.Validation("multipart field \"file\" is required"), requestID)
		return
	}
	defer file.Close()

	v := shared.NewValidator()
	v.Required("title", r.FormValue("title"), "is required")
	v.Required("type", r.FormValue("type"), "is required")
	employeeID, err := strconv.ParseInt(r.FormValue("employeeId"), 10, 64)
	if err != nil || employeeID <= 0 {
		v.Add("employeeId", "must be a positive integer")
	}
	if v.Reject(w, requestID) {
		return
	}

	doc, err := h.Library.Upload(r.Context(), documents.Upload{
		EmployeeID: employeeID,
		Type:       r.FormValue("type"),
		Title:      r.FormValue("title"),
		FileName:   header.Filename,
		Body:       file,
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Created(w, doc, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID, err := shared.ParseID(r, "employeeId")
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	docs, err := h.Library.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, docs, requestID)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "id")
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	doc, body, err := h.Library.Open(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(doc.FileName))
	if doc.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		logrus.WithError(err).WithField("document_id", id).Warn("document download interrupted")
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "id")
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if err := h.Library.Delete(r.Context(), id); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.NoContent(w)
}
