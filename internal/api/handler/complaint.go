package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/response"
	"github.com/sevalink/marketplace_server/internal/service"
)

type ComplaintHandler struct {
	complaintService *service.ComplaintService
}

func NewComplaintHandler(complaintService *service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// Create files a complaint about a provider.
// POST /api/v1/complaints
func (h *ComplaintHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	complaint, err := h.complaintService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrProviderNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.SuccessWithMessage(c, "complaint received", complaint)
}

// AdminList GET /api/v1/admin/complaints?status=
func (h *ComplaintHandler) AdminList(c *gin.Context) {
	var req dto.AdminComplaintListRequest
	bindPage(c, &req.PageRequest)
	req.Status = c.Query("status")

	items, total, err := h.complaintService.List(req.Status, req.Page, req.PageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, items)
}

// Resolve POST /api/v1/admin/complaints/:id/resolve
func (h *ComplaintHandler) Resolve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.ResolveComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.complaintService.Resolve(id, req.Resolution); err != nil {
		switch {
		case errors.Is(err, service.ErrComplaintNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrComplaintResolved):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.SuccessWithMessage(c, "resolved", nil)
}
