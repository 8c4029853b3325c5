package domain

import "context"

type Repository interface {
	FindByOwner(ctx context.Context, ownerID string) (*VatSetting, error)
	Upsert(ctx context.Context, setting *VatSetting) error
}
