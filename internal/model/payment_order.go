package model

import (
	"time"
)

// Payment order statuses
const (
	OrderStatusCreated             = "created"
	OrderStatusPaid                = "paid"
	OrderStatusFailed              = "failed"
	OrderStatusCancelled           = "cancelled"
	OrderStatusAbandoned           = "abandoned"
	OrderStatusNeedsReconciliation = "needs_reconciliation"
)

// PaymentOrder tracks one hosted checkout from creation to verification.
type PaymentOrder struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	OrderID       string    `gorm:"size:100;uniqueIndex;not null" json:"order_id"`
	Receipt       string    `gorm:"size:64;not null" json:"receipt"`
	UserID        int64     `gorm:"not null;index" json:"user_id"`
	ProviderID    int64     `gorm:"not null;index" json:"provider_id"`
	TierID        string    `gorm:"size:20;not null" json:"tier_id"`
	Amount        int64     `gorm:"not null" json:"amount"`
	Currency      string    `gorm:"size:10;not null" json:"currency"`
	Status        string    `gorm:"size:30;default:created;index" json:"status"`
	PaymentID     *string   `gorm:"size:100;uniqueIndex" json:"payment_id,omitempty"`
	FailureReason string    `gorm:"size:500" json:"failure_reason,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}
