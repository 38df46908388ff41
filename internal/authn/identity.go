// Package authn establishes the identity behind an API credential.
package authn

import (
	"context"

	"github.com/lyceumd/lyceumd/internal/roles"
)

// Identity is the verified actor behind a request. It is built once per
// request and immutable afterwards. An empty Role means the directory holds
// no record for the account: the identity carries no privilege, but its
// self-access rights remain intact.
type Identity struct {
	User   string
	Role   roles.Role
	School string
}

type identityContextKey struct{}

// ContextWithIdentity stores the request identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the request identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
