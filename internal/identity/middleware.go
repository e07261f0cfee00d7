package identity

import (
	"context"
	"net/http"
	"strings"

	"github.com/deezprints/deezprints/pkg/httpapi"
)

type contextKey string

const claimsContextKey = contextKey("claims")

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// Optional attaches claims when a valid bearer token is present and
// lets anonymous requests through untouched. Invalid tokens are
// treated as anonymous, not rejected: a shopper with a stale token
// keeps browsing as a guest.
func (v *Verifier) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := v.Parse(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin guards the admin dashboard routes.
func (v *Verifier) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpapi.Error(w, r, http.StatusUnauthorized, "authorization required")
			return
		}
		claims, err := v.Parse(token)
		if err != nil {
			httpapi.Error(w, r, http.StatusUnauthorized, "invalid token")
			return
		}
		if claims.Role != RoleAdmin {
			httpapi.Error(w, r, http.StatusForbidden, "admin access required")
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
