package route

import (
	"context"
	"net/http"
	"strings"

	"weddinvite/src-server/auth"
	"weddinvite/src-server/utils"
)

type AdminCtxKeyType string

const AdminCtxKey AdminCtxKeyType = "admin-claims"

// AdminAuthMiddleware guards the admin surface with a bearer token
// issued by the login route.
func AdminAuthMiddleware(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := func() string {
			header := r.Header.Get("Authorization")
			if after, found := strings.CutPrefix(header, "Bearer "); found {
				return strings.TrimSpace(after)
			}
			return ""
		}()
		if tokenString == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Authorization token required"))
			return
		}

		claims, err := as.JWT.Verify(tokenString)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), AdminCtxKey, claims)
		next(w, r.WithContext(ctx))
	}
}

func adminClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(AdminCtxKey).(*auth.Claims)
	return claims, ok
}
