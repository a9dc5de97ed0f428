package model

import (
	"time"
)

type Review struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	BookingID  string    `gorm:"size:36;uniqueIndex" json:"booking_id"`
	UserID     int64     `gorm:"not null;index" json:"user_id"`
	ProviderID int64     `gorm:"not null;index" json:"provider_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
