package statshandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/domain/auth"
	"personnel/internal/domain/stats"
	"personnel/internal/transport/http/middleware"
)

type fixedDashboard struct {
	out stats.Dashboard
	err error
}

func (f fixedDashboard) Dashboard(context.Context) (stats.Dashboard, error) {
	return f.out, f.err
}

func serve(d Dashboarder) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: 1, RoleName: auth.RoleEmployee})))
		})
	})
	NewHandler(d, auth.StaticPermissions{}).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats/dashboard", nil))
	return rec
}

func TestDashboard(t *testing.T) {
	rec := serve(fixedDashboard{out: stats.Dashboard{
		TotalEmployees:          6,
		AverageAge:              34.5,
		TotalOrganizations:      4,
		AverageTeamSize:         1.5,
		EmployeesByOrganization: map[string]int64{"Paie": 2},
		GrowthByMonth:           []stats.MonthlyCount{{Month: "2024-03", Count: 6}},
		FemaleCount:             4,
		MaleCount:               2,
	}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"totalEmployees":6`)
	assert.Contains(t, body, `"averageTeamSize":1.5`)
	assert.Contains(t, body, `"Paie":2`)
	assert.Contains(t, body, `"month":"2024-03"`)
}

func TestDashboardFailure(t *testing.T) {
	rec := serve(fixedDashboard{err: errors.New("db down")})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}
