package model

import (
	"fmt"
	"time"
)

// Entitlement is a user's contact-unlock grant for one provider. There is at
// most one row per (user, provider); a repurchase overwrites it.
type Entitlement struct {
	ID              string     `gorm:"primaryKey;size:64" json:"id"`
	UserID          int64      `gorm:"not null;index" json:"user_id"`
	ProviderID      int64      `gorm:"not null;index" json:"provider_id"`
	AccessType      string     `gorm:"size:20;not null" json:"access_type"`
	GrantedAt       time.Time  `gorm:"not null" json:"granted_at"`
	ExpiresAt       *time.Time `gorm:"index" json:"expires_at"`
	PaymentID       *string    `gorm:"size:100;index" json:"payment_id,omitempty"`
	ReviewRequested bool       `gorm:"not null" json:"review_requested"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Provider *Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (Entitlement) TableName() string {
	return "entitlements"
}

// EntitlementKey builds the composite document key for a (user, provider) pair.
func EntitlementKey(userID, providerID int64) string {
	return fmt.Sprintf("%d_%d", userID, providerID)
}
