package privmedia

import "context"

// Identity is the caller of a single request. It is resolved per request and
// never persisted by this package.
type Identity struct {
	UserID        string
	Authenticated bool
	Staff         bool
	Superuser     bool
}

// Anonymous returns the unauthenticated identity.
func Anonymous() Identity {
	return Identity{}
}

func (id Identity) String() string {
	if !id.Authenticated {
		return "anonymous"
	}
	return id.UserID
}

type identityKey struct{}

// WithIdentity returns a new context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored in ctx, or the anonymous
// identity if none was set.
func IdentityFromContext(ctx context.Context) Identity {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok {
		return Anonymous()
	}
	return id
}
