package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Profile is the business identity of an owner. One per owner.
type Profile struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID      string       `gorm:"type:varchar(128);not null;uniqueIndex:ux_profiles_owner" json:"owner_id"`
	BusinessName string       `gorm:"type:text;not null" json:"business_name"`
	CountryCode  string       `gorm:"type:varchar(2);not null" json:"country_code"`
	Currency     string       `gorm:"type:varchar(3);not null" json:"currency"`
	EmailFrom    *string      `gorm:"type:text" json:"email_from,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
