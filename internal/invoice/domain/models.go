// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smallbiznis/invoicer/internal/tax/domain"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "UNPAID"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
)

func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusPaid
}

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

func (m PaymentMethod) OrDefault() PaymentMethod {
	if m == "" {
		return PaymentMethodOther
	}
	return m
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCard, PaymentMethodOther:
		return true
	default:
		return false
	}
}

// Invoice represents an issued invoice.
type Invoice struct {
	ID             snowflake.ID        `gorm:"primaryKey" json:"id"`
	OwnerID        string              `gorm:"type:varchar(128);not null;uniqueIndex:ux_invoices_owner_number,priority:1" json:"owner_id"`
	CustomerID     snowflake.ID        `gorm:"not null;index" json:"customer_id"`
	Number         string              `gorm:"type:varchar(64);not null;uniqueIndex:ux_invoices_owner_number,priority:2" json:"number"`
	SubTotal       float64             `gorm:"type:numeric(18,2);not null" json:"sub_total"`
	VatRateApplied float64             `gorm:"type:numeric(7,4);not null" json:"vat_rate_applied"`
	VatAmount      float64             `gorm:"type:numeric(18,2);not null" json:"vat_amount"`
	Total          float64             `gorm:"type:numeric(18,2);not null" json:"total"`
	Currency       string              `gorm:"type:varchar(3);not null" json:"currency"`
	TaxReason      taxdomain.TaxReason `gorm:"type:varchar(32);not null" json:"tax_reason"`
	Status         InvoiceStatus       `gorm:"type:varchar(16);not null;default:'UNPAID';index" json:"status"`
	Notes          string              `gorm:"type:text;not null;default:''" json:"notes"`
	DueDate        *time.Time          `json:"due_date"`
	PaidAt         *time.Time          `json:"paid_at"`
	PdfFileID      *string             `gorm:"type:text" json:"pdf_file_id"`
	PaymentMethod  PaymentMethod       `gorm:"type:varchar(32);not null" json:"payment_method"`
	CreatedAt      time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) IsPaid() bool {
	return i != nil && i.Status == InvoiceStatusPaid
}

// InvoiceItem represents a line on an invoice. It is keyed by
// (invoice_id, position) so rewriting an invoice's lines never duplicates them.
type InvoiceItem struct {
	InvoiceID snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"invoice_id"`
	Position  int          `gorm:"primaryKey;autoIncrement:false" json:"position"`
	OwnerID   string       `gorm:"type:varchar(128);not null" json:"owner_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Quantity  float64      `gorm:"type:numeric(18,4);not null" json:"quantity"`
	UnitPrice float64      `gorm:"type:numeric(18,2);not null" json:"unit_price"`
	Total     float64      `gorm:"type:numeric(18,2);not null" json:"total"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// InvoiceDetail is an invoice with its line items.
type InvoiceDetail struct {
	Invoice
	Items []InvoiceItem `json:"items"`
}
