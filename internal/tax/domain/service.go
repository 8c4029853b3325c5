package domain

import "context"

// Resolver decides the effective VAT rate (0..100) for an owner and reason.
type Resolver interface {
	Resolve(ctx context.Context, ownerID string, reason TaxReason) (float64, error)
}

type Service interface {
	Upsert(ctx context.Context, req UpsertVatSettingsRequest) (VatSetting, error)
	Get(ctx context.Context) (VatSetting, error)
}

type UpsertVatSettingsRequest struct {
	IsVatRegistered *bool    `json:"is_vat_registered" binding:"required"`
	VatRate         *float64 `json:"vat_rate" binding:"required,min=0"`
}
