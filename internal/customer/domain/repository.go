package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicer/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID string, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, ownerID string, filter ListCustomerFilter, page pagination.Page) ([]*Customer, int64, error)
}
