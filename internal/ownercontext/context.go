package ownercontext

import (
	"context"
	"strings"
)

// OwnerContextKey is the request context key for the authenticated owner ID.
type OwnerContextKey struct{}

// Owner is the identity resolved by the request authorization boundary.
type Owner struct {
	ID    string
	Email string
	Name  string
}

// WithOwner stores the authenticated owner in the context.
func WithOwner(ctx context.Context, owner Owner) context.Context {
	owner.ID = strings.TrimSpace(owner.ID)
	return context.WithValue(ctx, OwnerContextKey{}, owner)
}

// WithOwnerID stores a bare owner ID in the context.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return WithOwner(ctx, Owner{ID: ownerID})
}

// OwnerFromContext returns the owner from context, if set.
func OwnerFromContext(ctx context.Context) (Owner, bool) {
	if ctx == nil {
		return Owner{}, false
	}
	owner, ok := ctx.Value(OwnerContextKey{}).(Owner)
	if !ok || owner.ID == "" {
		return Owner{}, false
	}
	return owner, true
}

// OwnerIDFromContext returns the owner ID from context, if set.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	owner, ok := OwnerFromContext(ctx)
	if !ok {
		return "", false
	}
	return owner.ID, true
}
