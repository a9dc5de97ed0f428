package model

import (
	"time"
)

const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

type User struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Email         *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	Phone         string    `gorm:"size:20" json:"phone,omitempty"`
	PasswordHash  *string   `gorm:"size:255" json:"-"`
	AvatarURL     string    `gorm:"size:500" json:"avatar_url"`
	GoogleID      *string   `gorm:"column:google_id;size:64;uniqueIndex" json:"-"`
	Role          string    `gorm:"size:20;default:customer;index" json:"role"`
	EmailVerified bool      `gorm:"default:false" json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
