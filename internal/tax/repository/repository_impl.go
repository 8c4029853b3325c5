package repository

import (
	"context"

	taxdomain "github.com/smallbiznis/invoicer/internal/tax/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) taxdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByOwner(ctx context.Context, ownerID string) (*taxdomain.VatSetting, error) {
	var setting taxdomain.VatSetting
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, owner_id, country_code, is_vat_registered, vat_rate, created_at, updated_at
		 FROM vat_settings
		 WHERE owner_id = ?
		 LIMIT 1`,
		ownerID,
	).Scan(&setting).Error
	if err != nil {
		return nil, err
	}
	if setting.ID == 0 {
		return nil, nil
	}
	return &setting, nil
}

func (r *repository) Upsert(ctx context.Context, setting *taxdomain.VatSetting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"country_code", "is_vat_registered", "vat_rate", "updated_at"}),
	}).Create(setting).Error
}
