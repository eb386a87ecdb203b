package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/exchange-admin/internal/domain"
	jwtinfra "github.com/exchange-admin/internal/infrastructure/jwt"
)

type contextKey string

const principalKey contextKey = "principal"

type TokenVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

type AdminLookup interface {
	GetByID(ctx context.Context, adminID string) (*domain.Admin, error)
}

// Principal is the authenticated admin for the current request. Role is the
// role stored at request time, not the one baked into the token.
type Principal struct {
	AdminID string
	Email   string
	Role    domain.Role
}

// Authenticate validates the Bearer token and reloads the admin it names.
// Bad or expired tokens get 401; accounts that vanished or lost their admin
// role get 403.
func Authenticate(verifier TokenVerifier, admins AdminLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			a, err := admins.GetByID(r.Context(), claims.Subject)
			if errors.Is(err, domain.ErrNotFound) {
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			if err != nil {
				slog.Error("admin lookup failed", "admin_id", claims.Subject, "err", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !a.Role.IsAdmin() {
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}

			p := Principal{AdminID: a.AdminID, Email: a.Email, Role: a.Role}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	t := strings.TrimSpace(h[len(prefix):])
	return t, t != ""
}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
