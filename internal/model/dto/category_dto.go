package dto

type CategoryRequest struct {
	Name           string `json:"name" binding:"required,max=100"`
	Slug           string `json:"slug" binding:"required,max=120"`
	Description    string `json:"description"`
	IconURL        string `json:"icon_url" binding:"omitempty,url"`
	SEOTitle       string `json:"seo_title" binding:"max=200"`
	SEODescription string `json:"seo_description"`
	IsActive       *bool  `json:"is_active"`
	SortOrder      int    `json:"sort_order"`
}
