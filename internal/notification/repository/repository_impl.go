package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicer/internal/notification/domain"
	"github.com/smallbiznis/invoicer/pkg/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) CreateTarget(ctx context.Context, target *domain.Target) error {
	err := r.db.WithContext(ctx).Create(target).Error
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrTargetExists
	}
	return err
}

func (r *repo) ListTargets(ctx context.Context, identityID string) ([]domain.Target, error) {
	var targets []domain.Target
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, identity_id, provider_type, identifier, created_at
		 FROM notification_targets WHERE identity_id = ?
		 ORDER BY created_at ASC, id ASC`,
		identityID,
	).Scan(&targets).Error
	if err != nil {
		return nil, err
	}
	return targets, nil
}

func (r *repo) CreateDelivery(ctx context.Context, delivery *domain.Delivery) error {
	err := r.db.WithContext(ctx).Create(delivery).Error
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrAlreadyDelivered
	}
	return err
}

func (r *repo) UpdateDeliveryStatus(ctx context.Context, id snowflake.ID, status domain.DeliveryStatus, metadata datatypes.JSONMap, updatedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Delivery{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"metadata":   metadata,
			"updated_at": updatedAt,
		}).Error
}
