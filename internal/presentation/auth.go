package presentation

import (
	"context"
	"net/http"
	"strings"

	"github.com/RaikyD/laundry-intake-service/internal/presentation/helpers"
	"golang.org/x/crypto/bcrypt"
)

type claimsContextKey struct{}

// Claims describes the caller. Admin is the only claim the service checks.
type Claims struct {
	Admin bool
}

func ClaimsFrom(ctx context.Context) Claims {
	c, _ := ctx.Value(claimsContextKey{}).(Claims)
	return c
}

// Authenticate attaches claims to every request. A bearer token matching the bcrypt
// hash grants Admin; with an empty hash nobody is admin.
func Authenticate(adminTokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var c Claims
			if token := bearerToken(r.Header.Get("Authorization")); token != "" && adminTokenHash != "" {
				c.Admin = bcrypt.CompareHashAndPassword([]byte(adminTokenHash), []byte(token)) == nil
			}
			ctx := context.WithValue(r.Context(), claimsContextKey{}, c)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ClaimsFrom(r.Context()).Admin {
			next.ServeHTTP(w, r)
			return
		}
		if bearerToken(r.Header.Get("Authorization")) == "" {
			helpers.HttpError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		helpers.HttpError(w, http.StatusForbidden, "admin access required")
	})
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
