package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicer/internal/providers/email"
	"gorm.io/datatypes"
)

type Repository interface {
	CreateTarget(ctx context.Context, target *Target) error
	ListTargets(ctx context.Context, identityID string) ([]Target, error)
	CreateDelivery(ctx context.Context, delivery *Delivery) error
	UpdateDeliveryStatus(ctx context.Context, id snowflake.ID, status DeliveryStatus, metadata datatypes.JSONMap, updatedAt time.Time) error
}

type DispatchRequest struct {
	OwnerID   string
	InvoiceID snowflake.ID
	Target    Target
	Message   email.Message
}

type Service interface {
	// EnsureTarget returns nil when the target can neither be created nor found.
	EnsureTarget(ctx context.Context, identityID string, providerType ProviderType, identifier string) (*Target, error)
	Dispatch(ctx context.Context, req DispatchRequest) (Delivery, error)
}

var (
	ErrInvalidTarget    = errors.New("invalid_target")
	ErrTargetExists     = errors.New("target_exists")
	ErrAlreadyDelivered = errors.New("already_delivered")
)
