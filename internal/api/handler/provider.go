package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sevalink/marketplace_server/internal/api/middleware"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/response"
	"github.com/sevalink/marketplace_server/internal/service"
)

type ProviderHandler struct {
	providerService *service.ProviderService
	reviewService   *service.ReviewService
}

func NewProviderHandler(providerService *service.ProviderService, reviewService *service.ReviewService) *ProviderHandler {
	return &ProviderHandler{
		providerService: providerService,
		reviewService:   reviewService,
	}
}

// ListByCategory lists approved providers in a category.
// GET /api/v1/categories/:slug/providers?city=&area=&page=
func (h *ProviderHandler) ListByCategory(c *gin.Context) {
	var req dto.ProviderListRequest
	bindPage(c, &req.PageRequest)
	req.City = c.Query("city")
	req.Area = c.Query("area")

	items, total, err := h.providerService.ListByCategory(c.Param("slug"), &req)
	if err != nil {
		providerError(c, err)
		return
	}

	response.SuccessPage(c, total, req.Page, req.PageSize, items)
}

// Get returns a public profile with contact details when the viewer's
// connection is active.
// GET /api/v1/providers/:id
func (h *ProviderHandler) Get(c *gin.Context) {
	providerID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	detail, err := h.providerService.GetDetail(c.Request.Context(), providerID, service.Viewer{
		UserID: userID,
		Role:   middleware.GetRole(c),
	})
	if err != nil {
		providerError(c, err)
		return
	}

	response.Success(c, detail)
}

// Reviews lists a provider's reviews.
// GET /api/v1/providers/:id/reviews
func (h *ProviderHandler) Reviews(c *gin.Context) {
	providerID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var page dto.PageRequest
	bindPage(c, &page)

	items, total, err := h.reviewService.ListByProvider(providerID, page.Page, page.PageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page.Page, page.PageSize, items)
}

// Mine returns the signed-in provider's own profile.
// GET /api/v1/providers/me
func (h *ProviderHandler) Mine(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	detail, err := h.providerService.GetMine(userID)
	if err != nil {
		providerError(c, err)
		return
	}

	response.Success(c, detail)
}

// SaveStep saves one onboarding step: 1 business, 2 location, 3 contact.
// PUT /api/v1/providers/me/onboarding/:step
func (h *ProviderHandler) SaveStep(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var (
		detail *dto.ProviderDetail
		err    error
	)
	switch c.Param("step") {
	case "1", "business":
		var req dto.OnboardingBusinessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ParamError(c, err.Error())
			return
		}
		detail, err = h.providerService.SaveBusiness(userID, &req)
	case "2", "location":
		var req dto.OnboardingLocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ParamError(c, err.Error())
			return
		}
		detail, err = h.providerService.SaveLocation(userID, &req)
	case "3", "contact":
		var req dto.OnboardingContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ParamError(c, err.Error())
			return
		}
		detail, err = h.providerService.SaveContact(userID, &req)
	default:
		response.ParamError(c, "unknown onboarding step")
		return
	}
	if err != nil {
		providerError(c, err)
		return
	}

	response.SuccessWithMessage(c, "saved", detail)
}

// UploadPhoto replaces the profile photo.
// POST /api/v1/providers/me/photo
func (h *ProviderHandler) UploadPhoto(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "please choose a file")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.ServerError(c, "failed to read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.ServerError(c, "failed to read file")
		return
	}

	url, err := h.providerService.UploadPhoto(c.Request.Context(), userID, file.Filename, data)
	if err != nil {
		providerError(c, err)
		return
	}

	response.SuccessWithMessage(c, "uploaded", dto.PhotoUploadResponse{PhotoURL: url})
}

// Submit sends the completed profile for review.
// POST /api/v1/providers/me/submit
func (h *ProviderHandler) Submit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	detail, err := h.providerService.Submit(userID)
	if err != nil {
		providerError(c, err)
		return
	}

	response.SuccessWithMessage(c, "submitted for review", detail)
}

func providerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProviderNotFound),
		errors.Is(err, service.ErrCategoryNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrNotProvider):
		response.PermissionError(c, err.Error())
	case errors.Is(err, service.ErrOnboardingStep),
		errors.Is(err, service.ErrOnboardingLocked),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidFileType),
		errors.Is(err, service.ErrFileTooLarge):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrProviderExists):
		response.DuplicateError(c, err.Error())
	case errors.Is(err, service.ErrUploadUnavailable):
		response.Error(c, response.CodeFeatureUnavailable, err.Error())
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("provider request failed")
		response.ServerError(c, "")
	}
}
