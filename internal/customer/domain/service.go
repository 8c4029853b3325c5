package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/invoicer/pkg/db/pagination"
)

type ListCustomerRequest struct {
	pagination.Page
	Name  string
	Email string
}

type ListCustomerFilter struct {
	Name  string
	Email string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

// CreateCustomerRequest is also the inline customer payload on invoice creation.
type CreateCustomerRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       *string `json:"email" binding:"omitempty,email"`
	CountryCode *string `json:"country_code" binding:"omitempty,len=2"`
	IsBusiness  *bool   `json:"is_business"`
	VatID       *string `json:"vat_id"`
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(ctx context.Context, id string) (Customer, error)
}

var (
	ErrInvalidOwner       = errors.New("invalid_owner")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidCountryCode = errors.New("invalid_country_code")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
)
