package model

import (
	"time"
)

// Complaint statuses
const (
	ComplaintStatusOpen     = "open"
	ComplaintStatusResolved = "resolved"
)

type Complaint struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	UserID     int64      `gorm:"not null;index" json:"user_id"`
	ProviderID int64      `gorm:"not null;index" json:"provider_id"`
	Subject    string     `gorm:"size:200;not null" json:"subject"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	Status     string     `gorm:"size:20;default:open;index" json:"status"`
	Resolution string     `gorm:"type:text" json:"resolution,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Complaint) TableName() string {
	return "complaints"
}
