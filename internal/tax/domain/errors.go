package domain

import "errors"

var (
	ErrInvalidOwner        = errors.New("invalid_owner")
	ErrInvalidTaxReason    = errors.New("invalid_tax_reason")
	ErrInvalidVatRate      = errors.New("invalid_vat_rate")
	ErrInvalidRegistration = errors.New("invalid_is_vat_registered")
	ErrMissingVatSettings  = errors.New("missing_vat_settings")
	ErrProfileRequired     = errors.New("profile_required")
	ErrNotFound            = errors.New("not_found")
)
