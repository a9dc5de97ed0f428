package model

import (
	"time"
)

// Notification types
const (
	NotificationNewConnection  = "new_connection"
	NotificationProviderReview = "provider_review"
	NotificationProviderStatus = "provider_status"
)

// Notification is an in-app inbox entry.
type Notification struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"size:30;not null" json:"type"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
