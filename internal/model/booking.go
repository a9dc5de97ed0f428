package model

import (
	"time"
)

// Booking sources
const (
	BookingSourceConnectionExpiry = "connection_expiry"
)

// Booking is a minimal booking-like record. Rows created when a connection
// lapses act as pending-review placeholders until the customer reviews.
type Booking struct {
	ID                   string    `gorm:"primaryKey;size:36" json:"id"`
	UserID               int64     `gorm:"not null;index:idx_bookings_user_reviewed" json:"user_id"`
	ProviderID           int64     `gorm:"not null;index" json:"provider_id"`
	Source               string    `gorm:"size:30;not null" json:"source"`
	IsReviewedByCustomer bool      `gorm:"not null;index:idx_bookings_user_reviewed" json:"is_reviewed_by_customer"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	Provider *Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}
