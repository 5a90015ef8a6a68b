package organizationhandler

import (
	"context"
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
	"personnel/internal/domain/organization"
	"personnel/internal/transport/http/middleware"
)

// treeAPI aliases Tree so the embedded field name does not clash with the
// promoted Tree method.
type treeAPI = Tree

type fakeTree struct {
	treeAPI
	directions map[int64]organization.Direction
	created    []organization.Details
	unitParent int64
	countLevel organization.Level
}

func (f *fakeTree) GetDirection(_ context.Context, id int64) (organization.Direction, error) {
	d, ok := f.directions[id]
	if !ok {
		return organization.Direction{}, apperr.NotFound("Direction", id)
	}
	return d, nil
}

func (f *fakeTree) CreateDirection(_ context.Context, details organization.Details) (organization.Direction, error) {
	f.created = append(f.created, details)
	return organization.Direction{ID: 7, Details: details}, nil
}

func (f *fakeTree) CreateServiceUnit(_ context.Context, directionID int64, details organization.Details) (organization.ServiceUnit, error) {
	f.unitParent = directionID
	if directionID <= 0 {
		return organization.ServiceUnit{}, apperr.Validation("directionId is required")
	}
	return organization.ServiceUnit{ID: 4, DirectionID: directionID, Details: details}, nil
}

func (f *fakeTree) EmployeeCount(_ context.Context, level organization.Level, _ int64) (int, error) {
	f.countLevel = level
	return 5, nil
}

type fakeRoster struct {
	Roster
	actor string
}

func (f *fakeRoster) AssignToDivision(_ context.Context, employeeID, divisionID int64, actor string) (employee.Employee, error) {
	f.actor = actor
	if err := employee.CheckActorAuthorized(actor); err != nil {
		return employee.Employee{}, err
	}
	return employee.Employee{ID: employeeID, Ancestry: employee.Ancestry{DivisionID: &divisionID}}, nil
}

func newRouter(tree Tree, roster Roster) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: 1, RoleName: auth.RoleManager})))
		})
	})
	r.Use(middleware.Actor)
	NewHandler(tree, roster, permitAll{}).RegisterRoutes(r)
	return r
}

type permitAll struct{}

func (permitAll) HasPermission(context.Context, string, string) (bool, error) { return true, nil }

func serve(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateDirectionRequiresName(t *testing.T) {
	tree := &fakeTree{}
	router := newRouter(tree, &fakeRoster{})

	rec := serve(router, http.MethodPost, "/organization/directions", `{"description":"x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"name"`)
	assert.Empty(t, tree.created)

	rec = serve(router, http.MethodPost, "/organization/directions", `{"name":"DGI","managerName":"M. Diallo"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, tree.created, 1)
	assert.Equal(t, "M. Diallo", tree.created[0].ManagerName)
}

func TestGetDirectionNotFound(t *testing.T) {
	rec := serve(newRouter(&fakeTree{}, &fakeRoster{}), http.MethodGet, "/organization/directions/3", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Direction not found with id: 3")
}

func TestCreateServiceUnitUsesQueryParent(t *testing.T) {
	tree := &fakeTree{}
	rec := serve(newRouter(tree, &fakeRoster{}), http.MethodPost, "/organization/services?directionId=2", `{"name":"Recouvrement"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(2), tree.unitParent)
}

func TestEmployeeCountPerLevel(t *testing.T) {
	tree := &fakeTree{}
	router := newRouter(tree, &fakeRoster{})

	rec := serve(router, http.MethodGet, "/organization/services/4/employee-count", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, organization.LevelServiceUnit, tree.countLevel)
	assert.Contains(t, rec.Body.String(), `"count":5`)
}

func TestAssignUsesActor(t *testing.T) {
	roster := &fakeRoster{}
	router := newRouter(&fakeTree{}, roster)

	rec := serve(router, http.MethodPost, "/organization/divisions/9/assign/3", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, auth.RoleManager, roster.actor)
	assert.Contains(t, rec.Body.String(), employee.MsgUnauthorized)

	rec = serve(router, http.MethodPost, "/organization/divisions/9/assign/3", "", map[string]string{middleware.HeaderActor: "rh"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"divisionId":9`)
}
