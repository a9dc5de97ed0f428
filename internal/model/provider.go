package model

import (
	"time"
)

// Provider statuses
const (
	ProviderStatusDraft    = "draft"
	ProviderStatusPending  = "pending"
	ProviderStatusApproved = "approved"
	ProviderStatusRejected = "rejected"
)

// OnboardingSteps is the number of wizard steps a provider has to complete
// before the profile can be submitted for approval.
const OnboardingSteps = 3

type Provider struct {
	ID             int64  `gorm:"primaryKey" json:"id"`
	UserID         int64  `gorm:"not null;uniqueIndex" json:"user_id"`
	CategoryID     int64  `gorm:"index" json:"category_id"`
	BusinessName   string `gorm:"size:200" json:"business_name"`
	Description    string `gorm:"type:text" json:"description"`
	ExperienceYrs  int    `json:"experience_years"`
	City           string `gorm:"size:100;index" json:"city"`
	Area           string `gorm:"size:100;index" json:"area"`
	PhotoURL       string `gorm:"size:500" json:"photo_url,omitempty"`
	Status         string `gorm:"size:20;default:draft;index" json:"status"`
	OnboardingStep int    `gorm:"default:0" json:"onboarding_step"`
	RejectReason   string `gorm:"size:500" json:"reject_reason,omitempty"`

	// Private contact details, only revealed to viewers holding an active
	// connection.
	Phone    string `gorm:"size:20" json:"-"`
	WhatsApp string `gorm:"column:whatsapp;size:20" json:"-"`
	Email    string `gorm:"size:100" json:"-"`
	Address  string `gorm:"size:500" json:"-"`

	RatingAvg   float64    `gorm:"default:0" json:"rating_avg"`
	RatingCount int        `gorm:"default:0" json:"rating_count"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Provider) TableName() string {
	return "providers"
}
