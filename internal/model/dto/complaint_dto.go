package dto

type CreateComplaintRequest struct {
	ProviderID int64  `json:"provider_id" binding:"required,gt=0"`
	Subject    string `json:"subject" binding:"required,max=200"`
	Message    string `json:"message" binding:"required,max=5000"`
}

type ResolveComplaintRequest struct {
	Resolution string `json:"resolution" binding:"required,max=5000"`
}

type AdminComplaintListRequest struct {
	PageRequest
	Status string `form:"status"`
}
