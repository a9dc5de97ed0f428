package model

import (
	"time"
)

// Access tier ids. Only these may exist in the catalog.
const (
	TierOneTime   = "one_time"
	TierSevenDay  = "seven_day"
	TierThirtyDay = "thirty_day"
	TierLifetime  = "lifetime"
	TierFree      = "free"
)

// PaidTierIDs lists the purchasable tiers in display order.
var PaidTierIDs = []string{TierOneTime, TierSevenDay, TierThirtyDay, TierLifetime}

// IsKnownTier reports whether id is one of the enumerated tier ids.
func IsKnownTier(id string) bool {
	switch id {
	case TierOneTime, TierSevenDay, TierThirtyDay, TierLifetime, TierFree:
		return true
	}
	return false
}

// AccessTier is a catalog entry. Price is in whole currency units; the
// gateway is charged in subunits. DurationDays is nil for lifetime.
type AccessTier struct {
	ID           string    `gorm:"primaryKey;size:20" json:"id" validate:"required,oneof=one_time seven_day thirty_day lifetime"`
	Label        string    `gorm:"size:100;not null" json:"label" validate:"required,max=100"`
	Price        int64     `gorm:"not null" json:"price" validate:"gte=0"`
	DurationDays *int      `json:"duration_days,omitempty" validate:"omitempty,gt=0"`
	Enabled      bool      `gorm:"not null" json:"enabled"`
	SortOrder    int       `gorm:"default:0" json:"sort_order"`
	UpdatedAt    time.Time `json:"updated_at"`

	// DurationMinutes is only set on the synthesized free tier.
	DurationMinutes int `gorm:"-" json:"duration_minutes,omitempty" validate:"-"`
}

func (AccessTier) TableName() string {
	return "access_tiers"
}

func (t *AccessTier) IsLifetime() bool {
	return t.ID == TierLifetime
}

// SiteSettings is the single-row global settings record.
type SiteSettings struct {
	ID                        int64     `gorm:"primaryKey" json:"-"`
	FreeAccessFallbackEnabled bool      `gorm:"not null" json:"free_access_fallback_enabled"`
	FreeAccessDurationMinutes int       `gorm:"not null" json:"free_access_duration_minutes"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

func (SiteSettings) TableName() string {
	return "site_settings"
}
