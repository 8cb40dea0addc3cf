package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/buscadorpelut/buscadorpelut/internal/apperror"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
)

// Authenticator resolves an email/password pair to a user.
//
// It returns an error wrapping apperror.ErrUnauthorized when the
// credentials are wrong or the email is unknown. Any other error is a
// storage failure. service.UsuarioService satisfies this interface.
type Authenticator interface {
	AuthenticateUser(ctx context.Context, email, password string) (*model.Usuario, error)
}

// contextKey is an unexported type used for context keys in this package.
//
// CONTEXT KEYS:
// Only this package can build a contextKey, so only this package reads or
// writes the authenticated user.
type contextKey string

const userKey contextKey = "usuario"

// basicRealm is sent in the WWW-Authenticate header of 401 responses.
const basicRealm = `Basic realm="buscadorpelut", charset="UTF-8"`

// RequireRole guards routes with HTTP Basic authentication.
//
// STATELESS AUTH:
// No session or token is ever issued. Every request carries the email and
// password in the Authorization header and is re-checked against the
// stored bcrypt hash. That costs one bcrypt comparison per request, which
// is acceptable for the low-traffic admin surface it protects.
//
// OUTCOMES:
//   - no header, unknown email, wrong password -> 401 + WWW-Authenticate
//   - valid user whose role is not in roles     -> 403
//   - storage failure                           -> 500
//   - otherwise the user is stored in the request context
func RequireRole(authn Authenticator, logger *slog.Logger, roles ...model.Rol) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}

			user, err := authn.AuthenticateUser(r.Context(), email, password)
			if err != nil {
				if errors.Is(err, apperror.ErrUnauthorized) {
					unauthorized(w)
					return
				}
				logger.Error("basic auth lookup failed", slog.String("error", err.Error()))
				writeJSONError(w, http.StatusInternalServerError, `{"error":"internal_error","message":"An internal error occurred"}`)
				return
			}

			if !slices.Contains(roles, user.Rol) {
				writeJSONError(w, http.StatusForbidden, `{"error":"forbidden","message":"insufficient role"}`)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser is RequireRole for any signed-in account, whatever its role.
func RequireUser(authn Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return RequireRole(authn, logger, model.RolAdmin, model.RolAdoptant)
}

// UserFromContext returns the user authenticated by RequireRole.
// Returns (nil, false) on routes that are not guarded.
func UserFromContext(ctx context.Context) (*model.Usuario, bool) {
	u, ok := ctx.Value(userKey).(*model.Usuario)
	return u, ok && u != nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", basicRealm)
	writeJSONError(w, http.StatusUnauthorized, `{"error":"unauthorized","message":"valid credentials required"}`)
}

// writeJSONError sends a preformatted JSON error body. http.Error would
// label it text/plain.
func writeJSONError(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body+"\n")
}
