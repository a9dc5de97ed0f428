package model

import (
	"time"
)

type Category struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Slug           string    `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Description    string    `gorm:"type:text" json:"description"`
	IconURL        string    `gorm:"size:500" json:"icon_url,omitempty"`
	SEOTitle       string    `gorm:"column:seo_title;size:200" json:"seo_title,omitempty"`
	SEODescription string    `gorm:"column:seo_description;type:text" json:"seo_description,omitempty"`
	IsActive       bool      `gorm:"not null;index" json:"is_active"`
	SortOrder      int       `gorm:"default:0" json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
