package domain

import (
	"context"
	"errors"
)

type UpsertProfileRequest struct {
	BusinessName string  `json:"business_name" binding:"required"`
	CountryCode  string  `json:"country_code" binding:"required,len=2"`
	Currency     string  `json:"currency" binding:"required,len=3"`
	EmailFrom    *string `json:"email_from" binding:"omitempty,email"`
}

type Service interface {
	Upsert(ctx context.Context, req UpsertProfileRequest) (Profile, error)
	Get(ctx context.Context) (Profile, error)
}

var (
	ErrInvalidOwner        = errors.New("invalid_owner")
	ErrInvalidBusinessName = errors.New("invalid_business_name")
	ErrInvalidCountryCode  = errors.New("invalid_country_code")
	ErrInvalidCurrency     = errors.New("invalid_currency")
	ErrInvalidEmailFrom    = errors.New("invalid_email_from")
	ErrNotFound            = errors.New("not_found")
)
