package domain

import "context"

type Repository interface {
	FindByOwner(ctx context.Context, ownerID string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
}
