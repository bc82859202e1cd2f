package authx

import "context"

type principalContextKey struct{}

// ContextWithPrincipal returns a context.Context that has been augmented with
// the authenticated User.
func ContextWithPrincipal(
	ctx context.Context,
	principal *User,
) context.Context {
	return context.WithValue(
		ctx,
		principalContextKey{},
		principal,
	)
}

// PrincipalFromContext extracts the authenticated User from the provided
// context.Context and returns it. It returns nil if the request was not
// authenticated.
func PrincipalFromContext(ctx context.Context) *User {
	principal, ok := ctx.Value(principalContextKey{}).(*User)
	if !ok {
		return nil
	}
	return principal
}
