package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/response"
	"github.com/sevalink/marketplace_server/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var page dto.PageRequest
	bindPage(c, &page)

	items, total, unread, err := h.notificationService.List(userID, page.Page, page.PageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"total":     total,
		"page":      page.Page,
		"page_size": page.PageSize,
		"items":     items,
		"unread":    unread,
	})
}

// MarkRead POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(userID, id); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.Success(c, nil)
}
