package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const DefaultCountryCode = "NG"

type Customer struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID     string       `gorm:"type:varchar(128);not null;index" json:"owner_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Email       *string      `gorm:"type:text" json:"email"`
	CountryCode string       `gorm:"type:varchar(2);not null" json:"country_code"`
	IsBusiness  bool         `gorm:"not null;default:false" json:"is_business"`
	VatID       *string      `gorm:"column:vat_id;type:text" json:"vat_id"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// HasEmail reports whether the customer can receive notifications.
func (c *Customer) HasEmail() bool {
	return c != nil && c.Email != nil && *c.Email != ""
}
