package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/response"
	"github.com/sevalink/marketplace_server/internal/service"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Pending lists review requests waiting for the user.
// GET /api/v1/reviews/pending
func (h *ReviewHandler) Pending(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	items, err := h.reviewService.ListPending(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, items)
}

// Submit rates a provider against a pending review request.
// POST /api/v1/reviews/pending/:id
func (h *ReviewHandler) Submit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	review, err := h.reviewService.Submit(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.SuccessWithMessage(c, "thanks for your review", review)
}
