package dto

import "time"

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type PendingReviewItem struct {
	BookingID string        `json:"booking_id"`
	Provider  *ProviderCard `json:"provider"`
	CreatedAt time.Time     `json:"created_at"`
}

type ReviewItem struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}
