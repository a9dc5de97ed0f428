package dto

// ProviderCard is the public summary shown in listings.
type ProviderCard struct {
	ID              int64   `json:"id"`
	BusinessName    string  `json:"business_name"`
	CategorySlug    string  `json:"category_slug,omitempty"`
	CategoryName    string  `json:"category_name,omitempty"`
	City            string  `json:"city"`
	Area            string  `json:"area"`
	PhotoURL        string  `json:"photo_url,omitempty"`
	ExperienceYears int     `json:"experience_years"`
	RatingAvg       float64 `json:"rating_avg"`
	RatingCount     int     `json:"rating_count"`
}

// ContactInfo is only present when the viewer holds an active connection.
type ContactInfo struct {
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
}

type ProviderDetail struct {
	ProviderCard
	Description    string       `json:"description"`
	Status         string       `json:"status,omitempty"`
	OnboardingStep int          `json:"onboarding_step,omitempty"`
	RejectReason   string       `json:"reject_reason,omitempty"`
	Contact        *ContactInfo `json:"contact"`
	Access         *AccessView  `json:"access,omitempty"`
}

type ProviderListRequest struct {
	PageRequest
	City string `form:"city"`
	Area string `form:"area"`
}

type OnboardingBusinessRequest struct {
	BusinessName    string `json:"business_name" binding:"required,min=2,max=200"`
	CategoryID      int64  `json:"category_id" binding:"required,gt=0"`
	Description     string `json:"description" binding:"max=5000"`
	ExperienceYears int    `json:"experience_years" binding:"gte=0,lte=80"`
}

type OnboardingLocationRequest struct {
	City string `json:"city" binding:"required,max=100"`
	Area string `json:"area" binding:"required,max=100"`
}

type OnboardingContactRequest struct {
	Phone    string `json:"phone" binding:"required,max=20"`
	WhatsApp string `json:"whatsapp" binding:"max=20"`
	Email    string `json:"email" binding:"omitempty,email"`
	Address  string `json:"address" binding:"max=500"`
}

type AdminProviderListRequest struct {
	PageRequest
	Status string `form:"status"`
}

type RejectProviderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type PhotoUploadResponse struct {
	PhotoURL string `json:"photo_url"`
}
