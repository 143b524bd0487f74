package common

import (
	"context"
	"slices"
)

type ctxKey string

const (
	userIDKey    ctxKey = "auth/user-id"
	userEmailKey ctxKey = "auth/email"
	userRolesKey ctxKey = "auth/roles"
)

// Roles recognised by the storefront.
const (
	RoleAdmin    = "admin"
	RoleCashier  = "cashier"
	RoleCustomer = "customer"
)

// WithUserID stores the authenticated user identifier on the provided context.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID extracts the authenticated user identifier from the context if present.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithEmail stores the email claim of the authenticated user.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, email)
}

// Email returns the email claim, or an empty string.
func Email(ctx context.Context) string {
	email, _ := ctx.Value(userEmailKey).(string)
	return email
}

// WithRoles stores the resolved roles of the authenticated user.
func WithRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, userRolesKey, roles)
}

// Roles returns the roles resolved for the current request.
func Roles(ctx context.Context) []string {
	roles, _ := ctx.Value(userRolesKey).([]string)
	return roles
}

// HasAnyRole reports whether the request carries one of the wanted roles.
func HasAnyRole(ctx context.Context, wanted ...string) bool {
	roles := Roles(ctx)
	for _, w := range wanted {
		if slices.Contains(roles, w) {
			return true
		}
	}
	return false
}
