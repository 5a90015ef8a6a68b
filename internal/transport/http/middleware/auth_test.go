package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/domain/auth"
	"personnel/internal/requestctx"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: 7, Username: "rh1", RoleName: auth.RoleHR}, time.Hour)
	require.NoError(t, err)

	called := false
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := GetUser(r.Context())
		require.True(t, ok, "expected user in context")
		assert.Equal(t, int64(7), user.UserID)
		assert.Equal(t, auth.RoleHR, user.RoleName)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestAuthMiddlewareIgnoresBadTokens(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := GetUser(r.Context())
		assert.False(t, ok, "did not expect user in context")
	}))

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestRequirePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	guarded := RequirePermission(auth.PermEmployeesWrite, auth.StaticPermissions{})(ok)

	cases := []struct {
		name   string
		user   *auth.UserContext
		status int
	}{
		{name: "anonymous", status: http.StatusUnauthorized},
		{name: "employee", user: &auth.UserContext{UserID: 1, RoleName: auth.RoleEmployee}, status: http.StatusForbidden},
		{name: "hr", user: &auth.UserContext{UserID: 2, RoleName: auth.RoleHR}, status: http.StatusNoContent},
		{name: "admin", user: &auth.UserContext{UserID: 3, RoleName: auth.RoleAdmin}, status: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tc.user != nil {
				req = req.WithContext(WithUser(req.Context(), *tc.user))
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestActorMiddleware(t *testing.T) {
	var got string
	handler := Actor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestctx.Actor(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPut, "/", nil)
	req.Header.Set(HeaderActor, " admin ")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "admin", got)

	req = httptest.NewRequest(http.MethodPut, "/", nil)
	req = req.WithContext(WithUser(context.Background(), auth.UserContext{UserID: 1, RoleName: auth.RoleManager}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, auth.RoleManager, got)

	req = httptest.NewRequest(http.MethodPut, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "", got)
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}
