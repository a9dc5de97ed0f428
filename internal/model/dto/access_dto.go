package dto

import "time"

// Call-to-action hints for the access view
const (
	ActionLogin      = "login"
	ActionChooseTier = "choose_tier"
	ActionRenew      = "renew"
	ActionNone       = "none"
)

type TierInfo struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Price           int64  `json:"price"`
	Currency        string `json:"currency"`
	DurationDays    *int   `json:"duration_days,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	IsLifetime      bool   `json:"is_lifetime"`
	IsFree          bool   `json:"is_free"`
}

type TierListResponse struct {
	Tiers []TierInfo `json:"tiers"`
	// FreeFallback is true when the only option is the free tier.
	FreeFallback bool `json:"free_fallback"`
}

// AccessView is the evaluated access state of the viewer for one provider.
type AccessView struct {
	ProviderID       int64      `json:"provider_id"`
	State            string     `json:"state"`
	AccessType       string     `json:"access_type,omitempty"`
	GrantedAt        *time.Time `json:"granted_at,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	RemainingSeconds int64      `json:"remaining_seconds,omitempty"`
	Remaining        string     `json:"remaining,omitempty"`
	Lifetime         bool       `json:"lifetime"`
	CallToAction     string     `json:"call_to_action"`
}

type CreateOrderRequest struct {
	TierID string `json:"tier_id" binding:"required"`
}

// CheckoutResponse carries what the checkout widget needs to open.
type CheckoutResponse struct {
	OrderID    string `json:"order_id"`
	KeyID      string `json:"key_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	TierID     string `json:"tier_id"`
	TierLabel  string `json:"tier_label"`
	ProviderID int64  `json:"provider_id"`
	Reused     bool   `json:"reused"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// Checkout outcomes reported by the client
const (
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

type CheckoutOutcomeRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Outcome string `json:"outcome" binding:"required,oneof=cancelled failed"`
	Reason  string `json:"reason" binding:"max=500"`
}

type ConnectionItem struct {
	Provider *ProviderCard `json:"provider"`
	Access   *AccessView   `json:"access"`
}

type AdminConnectionListRequest struct {
	PageRequest
	UserID     int64  `form:"user_id"`
	ProviderID int64  `form:"provider_id"`
	AccessType string `form:"access_type"`
}

type UpdateTierRequest struct {
	Label        *string `json:"label,omitempty"`
	Price        *int64  `json:"price,omitempty"`
	DurationDays *int    `json:"duration_days,omitempty"`
	Enabled      *bool   `json:"enabled,omitempty"`
	SortOrder    *int    `json:"sort_order,omitempty"`
}

type UpdateSettingsRequest struct {
	FreeAccessFallbackEnabled *bool `json:"free_access_fallback_enabled,omitempty"`
	FreeAccessDurationMinutes *int  `json:"free_access_duration_minutes,omitempty" binding:"omitempty,gt=0"`
}

type AdminOrderListRequest struct {
	PageRequest
	Status string `form:"status"`
}

// AdminConnectionItem is a stored grant with its state evaluated now.
type AdminConnectionItem struct {
	UserID          int64      `json:"user_id"`
	ProviderID      int64      `json:"provider_id"`
	AccessType      string     `json:"access_type"`
	GrantedAt       time.Time  `json:"granted_at"`
	ExpiresAt       *time.Time `json:"expires_at"`
	PaymentID       *string    `json:"payment_id,omitempty"`
	ReviewRequested bool       `json:"review_requested"`
	State           string     `json:"state"`
}
