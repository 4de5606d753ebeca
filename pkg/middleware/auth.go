package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/pkg/auth"
	"github.com/storefront/backend/pkg/authz"
	"github.com/storefront/backend/pkg/response"
)

type principalKey struct{}

// Auth validates the bearer token and stores the resulting principal in the
// request context. Every non-public route sits behind this middleware.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			response.Error(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		p := authz.Principal{ID: id, Role: claims.Role}
		ctx := context.WithValue(r.Context(), principalKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects principals without the admin role. Must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromCtx(r.Context())
		if !ok || !p.IsAdmin() {
			response.Error(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFromCtx extracts the authenticated principal stored by Auth.
func PrincipalFromCtx(ctx context.Context) (authz.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(authz.Principal)
	return p, ok
}

// WithPrincipal stores a principal in ctx. Exported for handler tests.
func WithPrincipal(ctx context.Context, p authz.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}
