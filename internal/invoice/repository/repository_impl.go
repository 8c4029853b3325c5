package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/smallbiznis/invoicer/internal/invoice/domain"
	"github.com/smallbiznis/invoicer/pkg/db"
	"github.com/smallbiznis/invoicer/pkg/db/option"
	"github.com/smallbiznis/invoicer/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const invoiceColumns = `id, owner_id, customer_id, number, sub_total, vat_rate_applied, vat_amount, total,
	currency, tax_reason, status, notes, due_date, paid_at, pdf_file_id, payment_method, created_at, updated_at`

type repo struct{}

func Provide() invoicedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, tx *gorm.DB, invoice *invoicedomain.Invoice, items []invoicedomain.InvoiceItem) error {
	err := tx.WithContext(ctx).Exec(
		`INSERT INTO invoices (`+invoiceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.OwnerID,
		invoice.CustomerID,
		invoice.Number,
		invoice.SubTotal,
		invoice.VatRateApplied,
		invoice.VatAmount,
		invoice.Total,
		invoice.Currency,
		invoice.TaxReason,
		invoice.Status,
		invoice.Notes,
		invoice.DueDate,
		invoice.PaidAt,
		invoice.PdfFileID,
		invoice.PaymentMethod,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Error
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return invoicedomain.ErrConflict
		}
		return err
	}

	return insertItems(ctx, tx, items)
}

// insertItems skips lines already stored under (invoice_id, position).
func insertItems(ctx context.Context, tx *gorm.DB, items []invoicedomain.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "invoice_id"}, {Name: "position"}},
			DoNothing: true,
		}).
		Create(&items).Error
}

func (r *repo) FindByID(ctx context.Context, tx *gorm.DB, ownerID string, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := tx.WithContext(ctx).Raw(
		`SELECT `+invoiceColumns+` FROM invoices WHERE owner_id = ? AND id = ?`,
		ownerID,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 || invoice.OwnerID != ownerID {
		return nil, invoicedomain.ErrNotFound
	}
	return &invoice, nil
}

func (r *repo) ListItems(ctx context.Context, tx *gorm.DB, ownerID string, invoiceID snowflake.ID) ([]invoicedomain.InvoiceItem, error) {
	var items []invoicedomain.InvoiceItem
	err := tx.WithContext(ctx).Raw(
		`SELECT invoice_id, position, owner_id, name, quantity, unit_price, total, created_at
		 FROM invoice_items WHERE owner_id = ? AND invoice_id = ?
		 ORDER BY position ASC`,
		ownerID,
		invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	owned := items[:0]
	for _, item := range items {
		if item.OwnerID == ownerID {
			owned = append(owned, item)
		}
	}
	return owned, nil
}

func (r *repo) List(ctx context.Context, tx *gorm.DB, ownerID string, filter invoicedomain.ListFilter, page pagination.Page) ([]invoicedomain.Invoice, int64, error) {
	stmt := tx.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("owner_id = ?", ownerID)

	conditions := make([]option.QueryOption, 0, 4)
	if filter.Status != nil {
		conditions = append(conditions, option.ApplyOperator(option.Condition{
			Field: "status", Operator: option.EQ, Value: *filter.Status,
		}))
	}
	if filter.CreatedFrom != nil {
		conditions = append(conditions, option.ApplyOperator(option.Condition{
			Field: "created_at", Operator: option.GTE, Value: *filter.CreatedFrom,
		}))
	}
	if filter.CreatedTo != nil {
		conditions = append(conditions, option.ApplyOperator(option.Condition{
			Field: "created_at", Operator: option.LTE, Value: *filter.CreatedTo,
		}))
	}
	if filter.Currency != "" {
		conditions = append(conditions, option.ApplyOperator(option.Condition{
			Field: "currency", Operator: option.EQ, Value: filter.Currency,
		}))
	}
	for _, opt := range conditions {
		stmt = opt.Apply(stmt)
	}

	var total int64
	if err := stmt.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	for _, opt := range []option.QueryOption{
		option.WithOrder("created_at", true),
		option.WithOrder("id", true),
		option.WithLimit(page.Limit),
		option.WithOffset(page.Offset()),
	} {
		stmt = opt.Apply(stmt)
	}

	var invoices []invoicedomain.Invoice
	if err := stmt.Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *repo) UpdatePayment(ctx context.Context, tx *gorm.DB, ownerID string, id snowflake.ID, update invoicedomain.PaymentUpdate) (bool, error) {
	res := tx.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET status = ?, paid_at = ?, vat_rate_applied = ?, vat_amount = ?, total = ?, updated_at = ?
		 WHERE owner_id = ? AND id = ? AND status = ?`,
		invoicedomain.InvoiceStatusPaid,
		update.PaidAt,
		update.VatRateApplied,
		update.VatAmount,
		update.Total,
		update.UpdatedAt,
		ownerID,
		id,
		invoicedomain.InvoiceStatusUnpaid,
	)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	var exists int64
	if err := tx.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM invoices WHERE owner_id = ? AND id = ?`,
		ownerID,
		id,
	).Scan(&exists).Error; err != nil {
		return false, err
	}
	if exists == 0 {
		return false, invoicedomain.ErrNotFound
	}
	return false, nil
}

func (r *repo) AttachPDF(ctx context.Context, tx *gorm.DB, ownerID string, id snowflake.ID, fileID string, updatedAt time.Time) error {
	res := tx.WithContext(ctx).Exec(
		`UPDATE invoices SET pdf_file_id = ?, updated_at = ? WHERE owner_id = ? AND id = ?`,
		fileID,
		updatedAt,
		ownerID,
		id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return invoicedomain.ErrNotFound
	}
	return nil
}
