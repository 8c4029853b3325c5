package domain

import (
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
)

// TaxReason classifies a sale for VAT purposes.
// Values are persisted on invoices; do not rename.
type TaxReason string

const (
	TaxReasonDomestic      TaxReason = "domestic"
	TaxReasonExportZero    TaxReason = "export_zero"
	TaxReasonReverseCharge TaxReason = "reverse_charge"
)

// OrDefault maps the empty reason to domestic.
func (r TaxReason) OrDefault() TaxReason {
	if r == "" {
		return TaxReasonDomestic
	}
	return r
}

func (r TaxReason) Valid() bool {
	switch r.OrDefault() {
	case TaxReasonDomestic, TaxReasonExportZero, TaxReasonReverseCharge:
		return true
	default:
		return false
	}
}

// ZeroRated reports whether the reason forces a 0% rate.
func (r TaxReason) ZeroRated() bool {
	return r == TaxReasonExportZero || r == TaxReasonReverseCharge
}

// VatSetting is the owner's flat VAT configuration. One per owner.
type VatSetting struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID         string       `gorm:"type:varchar(128);not null;uniqueIndex:ux_vat_settings_owner" json:"owner_id"`
	CountryCode     string       `gorm:"type:varchar(2);not null" json:"country_code"`
	IsVatRegistered bool         `gorm:"column:is_vat_registered;not null;default:false" json:"is_vat_registered"`
	VatRate         float64      `gorm:"column:vat_rate;type:numeric(7,4);not null;default:0" json:"vat_rate"` // percent, e.g. 7.5
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (VatSetting) TableName() string { return "vat_settings" }

// Usable reports whether the setting can back a VAT computation.
func (v *VatSetting) Usable() bool {
	if v == nil || !v.IsVatRegistered {
		return false
	}
	return ValidRate(v.VatRate)
}

func ValidRate(rate float64) bool {
	return !math.IsNaN(rate) && !math.IsInf(rate, 0) && rate >= 0
}

// Result is the outcome of applying a rate to a subtotal.
type Result struct {
	VatRateApplied float64 `json:"vat_rate_applied"`
	VatAmount      float64 `json:"vat_amount"`
	Total          float64 `json:"total"`
}
