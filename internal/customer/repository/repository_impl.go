package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicer/internal/customer/domain"
	"github.com/smallbiznis/invoicer/pkg/db/option"
	"github.com/smallbiznis/invoicer/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, owner_id, name, email, country_code, is_business, vat_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.OwnerID,
		customer.Name,
		customer.Email,
		customer.CountryCode,
		customer.IsBusiness,
		customer.VatID,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID string, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, name, email, country_code, is_business, vat_id, created_at, updated_at
		 FROM customers WHERE owner_id = ? AND id = ?`,
		ownerID,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 || customer.OwnerID != ownerID {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID string, filter domain.ListCustomerFilter, page pagination.Page) ([]*domain.Customer, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("owner_id = ?", ownerID)
	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.Email != "" {
		stmt = stmt.Where("email = ?", filter.Email)
	}

	var total int64
	if err := stmt.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []*domain.Customer
	page = page.Normalize()
	for _, opt := range []option.QueryOption{
		option.WithOrder("created_at", true),
		option.WithOrder("id", true),
		option.WithLimit(page.Limit),
		option.WithOffset(page.Offset()),
	} {
		stmt = opt.Apply(stmt)
	}
	if err := stmt.Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}
