package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicer/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status      *InvoiceStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Currency    string
}

// PaymentUpdate carries the fields written by the UNPAID to PAID transition.
type PaymentUpdate struct {
	PaidAt         time.Time
	VatRateApplied float64
	VatAmount      float64
	Total          float64
	UpdatedAt      time.Time
}

// Repository is owner-scoped: every call takes the caller's owner id and
// treats records of other owners as absent.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice, items []InvoiceItem) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID string, id snowflake.ID) (*Invoice, error)
	ListItems(ctx context.Context, db *gorm.DB, ownerID string, invoiceID snowflake.ID) ([]InvoiceItem, error)
	List(ctx context.Context, db *gorm.DB, ownerID string, filter ListFilter, page pagination.Page) ([]Invoice, int64, error)
	// UpdatePayment reports false when the owner's invoice is already PAID and
	// ErrNotFound when the owner has no such invoice.
	UpdatePayment(ctx context.Context, db *gorm.DB, ownerID string, id snowflake.ID, update PaymentUpdate) (bool, error)
	AttachPDF(ctx context.Context, db *gorm.DB, ownerID string, id snowflake.ID, fileID string, updatedAt time.Time) error
}
