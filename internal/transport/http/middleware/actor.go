package middleware

import (
	"net/http"

	"personnel/internal/requestctx"
)

const HeaderActor = "X-Actor"

// Actor records who is acting: the X-Actor header, else the authenticated
// user's role. Empty means the audit default applies.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(HeaderActor)
		if actor == "" {
			if user, ok := GetUser(r.Context()); ok {
				actor = user.RoleName
			}
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithActor(r.Context(), actor)))
	})
}
