package api_context

import "context"

type ctxKey string

const (
	AuthUserIDKey ctxKey = "authUserID"
	AuthRolesKey  ctxKey = "authRoles"
	IdentityKey   ctxKey = "identity"
	OriginKey     ctxKey = "origin"
)

func AuthUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AuthUserIDKey).(string)
	return id, ok && id != ""
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}

// IdentityFromContext returns the quota identity resolved by the identity middleware.
func IdentityFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(IdentityKey).(string)
	return id, ok && id != ""
}

func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func OriginFromContext(ctx context.Context) (string, bool) {
	o, ok := ctx.Value(OriginKey).(string)
	return o, ok && o != ""
}

func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, OriginKey, origin)
}
