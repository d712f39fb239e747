// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains authenticated caller information. Guard predicates
// receive it as a plain map, see GuardInputs.
type UserContext struct {
	UserID   string
	TenantID string
	Email    string
	Roles    []string
	IsAdmin  bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasRole checks if user has specific role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GuardInputs flattens the user context into the variable map guard
// expressions evaluate against. An anonymous request yields an empty map.
func GuardInputs(ctx context.Context) map[string]any {
	u := GetUser(ctx)
	if u == nil {
		return map[string]any{}
	}
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	return map[string]any{
		"user_id":   u.UserID,
		"tenant_id": u.TenantID,
		"email":     u.Email,
		"roles":     roles,
		"admin":     u.IsAdmin,
	}
}
