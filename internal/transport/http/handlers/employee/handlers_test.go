package employeehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/apperr"
	"personnel/internal/domain/auth"
	"personnel/internal/domain/employee"
	"personnel/internal/transport/http/middleware"
)

type fakeRegistry struct {
	Registry
	lastQuery employee.Query
	lastInput employee.Input
	lastActor string
	photo     []byte
	creates   int
}

func (f *fakeRegistry) Search(_ context.Context, q employee.Query) (employee.Page, error) {
	f.lastQuery = q
	return employee.Page{Items: []employee.Employee{{ID: 1, FirstName: "Awa"}}, Total: 41}, nil
}

func (f *fakeRegistry) Create(_ context.Context, in employee.Input, actor string) (employee.Employee, error) {
	f.creates++
	f.lastInput = in
	f.lastActor = actor
	if in.Email == "taken@example.org" {
		return employee.Employee{}, employee.ErrEmailTaken
	}
	return employee.Employee{ID: int64(f.creates), FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}, nil
}

func (f *fakeRegistry) UploadPhoto(_ context.Context, id int64, data []byte, _ string) (employee.Photo, error) {
	f.photo = data
	return employee.Photo{EmployeeID: id, Data: data, ContentType: "image/png"}, nil
}

func (f *fakeRegistry) Photo(_ context.Context, id int64) (employee.Photo, error) {
	if f.photo == nil {
		return employee.Photo{}, apperr.NotFoundf("Photo not found for employee with id: %d", id)
	}
	return employee.Photo{EmployeeID: id, Data: f.photo, ContentType: "image/png"}, nil
}

type fakeRenderer struct {
	err error
}

func (f fakeRenderer) EmployeeSheet(_ context.Context, _ int64, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := w.Write([]byte("%PDF-1.3"))
	return err
}

func (f fakeRenderer) ExportEmployees(_ context.Context, w io.Writer) error {
	_, err := w.Write([]byte("PK"))
	return err
}

type memIdempotency struct {
	saved map[string]middleware.StoredResponse
}

func (m *memIdempotency) Check(_ context.Context, userID, endpoint, key, _ string) (middleware.StoredResponse, bool, error) {
	resp, ok := m.saved[userID+endpoint+key]
	return resp, ok, nil
}

func (m *memIdempotency) Save(_ context.Context, userID, endpoint, key, _ string, response middleware.StoredResponse) error {
	m.saved[userID+endpoint+key] = response
	return nil
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: 1, RoleName: auth.RoleHR})))
		})
	})
	r.Use(middleware.Actor)
	h.RegisterRoutes(r)
	return r
}

const validEmployee = `{"firstName":"Awa","lastName":"Traoré","email":"awa@example.org","gender":"F","age":31,"hireDate":"2020-02-01","divisionId":4}`

func TestCreateEmployee(t *testing.T) {
	registry := &fakeRegistry{}
	router := newRouter(NewHandler(registry, fakeRenderer{}, nil, auth.StaticPermissions{}))

	req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(validEmployee))
	req.Header.Set(middleware.HeaderActor, "ADMIN")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ADMIN", registry.lastActor)
	require.NotNil(t, registry.lastInput.HireDate)
	assert.Equal(t, "2020-02-01", registry.lastInput.HireDate.Format("2006-01-02"))
	require.NotNil(t, registry.lastInput.Target.DivisionID)
	assert.Equal(t, int64(4), *registry.lastInput.Target.DivisionID)
}

func TestCreateEmployeeValidation(t *testing.T) {
	registry := &fakeRegistry{}
	router := newRouter(NewHandler(registry, fakeRenderer{}, nil, auth.StaticPermissions{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"firstName":"Awa","email":"nope","hireDate":"01/02/2020"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	for _, field := range []string{"lastName", "email", "gender", "hireDate"} {
		assert.Contains(t, body, `"field":"`+field+`"`)
	}
	assert.Zero(t, registry.creates)
}

func TestCreateEmployeeConflict(t *testing.T) {
	router := newRouter(NewHandler(&fakeRegistry{}, fakeRenderer{}, nil, auth.StaticPermissions{}))
	payload := strings.Replace(validEmployee, "awa@example.org", "taken@example.org", 1)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(payload)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateEmployeeIdempotent(t *testing.T) {
	registry := &fakeRegistry{}
	store := &memIdempotency{saved: map[string]middleware.StoredResponse{}}
	router := newRouter(NewHandler(registry, fakeRenderer{}, store, auth.StaticPermissions{}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(validEmployee))
		req.Header.Set(middleware.HeaderIdempotencyKey, "create-awa")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}
	first := send()
	second := send()

	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, 1, registry.creates)
}

func TestSearchPaging(t *testing.T) {
	registry := &fakeRegistry{}
	router := newRouter(NewHandler(registry, fakeRenderer{}, nil, auth.StaticPermissions{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/paged?page=2&size=500&sort=lastName,desc&q=tra&divisionId=4", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, employee.Query{Search: "tra", DivisionID: 4, SortField: "lastName", SortDesc: true, Limit: 100, Offset: 200}, registry.lastQuery)
	assert.Equal(t, "41", rec.Header().Get("X-Total-Count"))
	assert.Contains(t, rec.Body.String(), `"totalElements":41`)
}

func TestPhotoRoundTrip(t *testing.T) {
	registry := &fakeRegistry{}
	router := newRouter(NewHandler(registry, fakeRenderer{}, nil, auth.StaticPermissions{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/3/photo", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\nrest"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/employees/3/photo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/3/photo", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data photoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "image/png", envelope.Data.ContentType)
	assert.Equal(t, "iVBORw0KGgpyZXN0", envelope.Data.Photo)
}

func TestPDFDownload(t *testing.T) {
	router := newRouter(NewHandler(&fakeRegistry{}, fakeRenderer{}, nil, auth.StaticPermissions{}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/5/pdf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "fiche-employe-5.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	router = newRouter(NewHandler(&fakeRegistry{}, fakeRenderer{err: apperr.NotFound("Employee", 5)}, nil, auth.StaticPermissions{}))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/5/pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
