package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront/internal/common"
)

var errNoToken = errors.New("auth: token missing")

// RoleLookup resolves the roles granted to a user.
type RoleLookup interface {
	Roles(ctx context.Context, userID string) ([]string, error)
}

// Middleware wires authentication context into HTTP handlers.
type Middleware struct {
	Verifier *Verifier
	Roles    RoleLookup
	Logger   zerolog.Logger
}

// Authenticate attaches the user to the request context when a valid token is
// present and passes anonymous requests through unchanged.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := m.authenticateRequest(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth enforces that a valid token is present before executing the next handler.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := m.authenticateRequest(r)
		if err != nil {
			var appErr *common.AppError
			if errors.As(err, &appErr) {
				common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
				return
			}
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole lets the request through when the authenticated user holds any
// of the given roles. It must run after RequireAuth.
func (m Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := common.UserID(r.Context()); !ok {
				common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
				return
			}
			if !common.HasAnyRole(r.Context(), roles...) {
				common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) authenticateRequest(r *http.Request) (context.Context, error) {
	if m.Verifier == nil {
		return r.Context(), errors.New("auth: verifier not configured")
	}
	token := extractToken(r)
	if token == "" {
		return r.Context(), errNoToken
	}
	claims, err := m.Verifier.Verify(token)
	if err != nil {
		return r.Context(), err
	}
	ctx := common.WithUserID(r.Context(), claims.Subject)
	zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("user_id", claims.Subject)
	})
	if claims.Email != "" {
		ctx = common.WithEmail(ctx, claims.Email)
	}
	if m.Roles != nil {
		roles, err := m.Roles.Roles(ctx, claims.Subject)
		if err != nil {
			m.Logger.Warn().Err(err).Str("user_id", claims.Subject).Msg("role lookup failed")
			return r.Context(), common.NewAppError("ROLE_LOOKUP_FAILED", "unable to resolve roles", http.StatusServiceUnavailable, err)
		}
		ctx = common.WithRoles(ctx, roles)
	}
	return ctx, nil
}

func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
