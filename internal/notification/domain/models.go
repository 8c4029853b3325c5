package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type ProviderType string

const ProviderTypeEmail ProviderType = "email"

// Target is a contact channel registered for an identity.
type Target struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	IdentityID   string       `gorm:"type:varchar(128);not null;uniqueIndex:ux_notification_targets_identity,priority:1" json:"identity_id"`
	ProviderType ProviderType `gorm:"type:varchar(32);not null;uniqueIndex:ux_notification_targets_identity,priority:2" json:"provider_type"`
	Identifier   string       `gorm:"type:varchar(320);not null;uniqueIndex:ux_notification_targets_identity,priority:3" json:"identifier"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Target) TableName() string { return "notification_targets" }

type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "PENDING"
	DeliveryStatusSent    DeliveryStatus = "SENT"
	DeliveryStatusFailed  DeliveryStatus = "FAILED"
)

// Delivery records one dispatch of an invoice message to a target.
type Delivery struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	OwnerID   string            `gorm:"type:varchar(128);not null;index" json:"owner_id"`
	InvoiceID snowflake.ID      `gorm:"not null;uniqueIndex:ux_notification_deliveries_invoice_target,priority:1" json:"invoice_id"`
	TargetID  snowflake.ID      `gorm:"not null;uniqueIndex:ux_notification_deliveries_invoice_target,priority:2" json:"target_id"`
	Subject   string            `gorm:"type:text;not null" json:"subject"`
	Status    DeliveryStatus    `gorm:"type:varchar(16);not null" json:"status"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Delivery) TableName() string { return "notification_deliveries" }
