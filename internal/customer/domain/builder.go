package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// NewCustomer validates req and applies creation defaults.
func NewCustomer(id snowflake.ID, ownerID string, req CreateCustomerRequest, now time.Time) (Customer, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Customer{}, ErrInvalidOwner
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Customer{}, ErrInvalidName
	}

	email := trimmedOrNil(req.Email)
	if email != nil {
		if _, err := mail.ParseAddress(*email); err != nil {
			return Customer{}, ErrInvalidEmail
		}
	}

	country := DefaultCountryCode
	if req.CountryCode != nil && strings.TrimSpace(*req.CountryCode) != "" {
		country = strings.ToUpper(strings.TrimSpace(*req.CountryCode))
		if len(country) != 2 {
			return Customer{}, ErrInvalidCountryCode
		}
	}

	isBusiness := false
	if req.IsBusiness != nil {
		isBusiness = *req.IsBusiness
	}

	return Customer{
		ID:          id,
		OwnerID:     ownerID,
		Name:        name,
		Email:       email,
		CountryCode: country,
		IsBusiness:  isBusiness,
		VatID:       trimmedOrNil(req.VatID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
