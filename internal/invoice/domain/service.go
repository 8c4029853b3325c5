package domain

import (
	"context"
	"errors"
	"time"

	customerdomain "github.com/smallbiznis/invoicer/internal/customer/domain"
	taxdomain "github.com/smallbiznis/invoicer/internal/tax/domain"
	"github.com/smallbiznis/invoicer/pkg/db/pagination"
)

type CreateInvoiceItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
}

type CreateInvoiceRequest struct {
	CustomerID    string                                `json:"customer_id"`
	Customer      *customerdomain.CreateCustomerRequest `json:"customer"`
	Currency      string                                `json:"currency" binding:"required,len=3"`
	Items         []CreateInvoiceItemRequest            `json:"items" binding:"required,min=1,dive"`
	TaxReason     taxdomain.TaxReason                   `json:"tax_reason" binding:"omitempty,oneof=domestic export_zero reverse_charge"`
	Notes         *string                               `json:"notes" binding:"omitempty,max=255"`
	DueDate       *time.Time                            `json:"due_date"`
	PaymentMethod PaymentMethod                         `json:"payment_method" binding:"omitempty,oneof=BANK_TRANSFER CASH CARD OTHER"`
}

type MarkPaidRequest struct {
	PaidAt *time.Time `json:"paid_at"`
}

type ListInvoiceRequest struct {
	pagination.Page
	Status *InvoiceStatus
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (InvoiceDetail, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (InvoiceDetail, error)
	MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (Invoice, error)
}

var (
	ErrInvalidOwner         = errors.New("invalid_owner")
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidCurrency      = errors.New("invalid_currency")
	ErrInvalidItems         = errors.New("invalid_items")
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidNotes         = errors.New("invalid_notes")
	ErrCustomerRequired     = errors.New("customer_required")
	ErrConflict             = errors.New("conflict")
	ErrNotFound             = errors.New("not_found")
)
