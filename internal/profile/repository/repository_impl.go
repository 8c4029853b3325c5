package repository

import (
	"context"

	"github.com/smallbiznis/invoicer/internal/profile/domain"
	"github.com/smallbiznis/invoicer/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	store repository.Repository[domain.Profile]
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{store: repository.ProvideStore[domain.Profile](db)}
}

func (r *repo) FindByOwner(ctx context.Context, ownerID string) (*domain.Profile, error) {
	if ownerID == "" {
		return nil, nil
	}
	return r.store.FindOne(ctx, &domain.Profile{OwnerID: ownerID})
}

func (r *repo) Upsert(ctx context.Context, profile *domain.Profile) error {
	return r.store.Upsert(ctx, profile,
		[]string{"owner_id"},
		[]string{"business_name", "country_code", "currency", "email_from", "updated_at"},
	)
}
