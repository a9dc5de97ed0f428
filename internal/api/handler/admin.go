package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/response"
	"github.com/sevalink/marketplace_server/internal/repository"
	"github.com/sevalink/marketplace_server/internal/service"
)

// AdminHandler serves the back-office: pricing, connections, orders and
// provider moderation.
type AdminHandler struct {
	catalogService  *service.CatalogService
	accessService   *service.AccessService
	providerService *service.ProviderService
}

func NewAdminHandler(
	catalogService *service.CatalogService,
	accessService *service.AccessService,
	providerService *service.ProviderService,
) *AdminHandler {
	return &AdminHandler{
		catalogService:  catalogService,
		accessService:   accessService,
		providerService: providerService,
	}
}

// Tiers returns every tier, enabled or not, plus the free-fallback settings.
// GET /api/v1/admin/access/tiers
func (h *AdminHandler) Tiers(c *gin.Context) {
	tiers, settings, err := h.catalogService.ListAllTiers(c.Request.Context())
	if err != nil {
		accessError(c, err, 0)
		return
	}
	response.Success(c, gin.H{"tiers": tiers, "settings": settings})
}

// UpdateTier PUT /api/v1/admin/access/tiers/:id
func (h *AdminHandler) UpdateTier(c *gin.Context) {
	var req dto.UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	tier, err := h.catalogService.UpdateTier(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTier) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	log.Info().Str("tier_id", tier.ID).Bool("enabled", tier.Enabled).Int64("price", tier.Price).Msg("tier updated")
	response.SuccessWithMessage(c, "updated", tier)
}

// UpdateSettings PUT /api/v1/admin/access/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	settings, err := h.catalogService.UpdateSettings(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTier) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.SuccessWithMessage(c, "updated", settings)
}

// Connections GET /api/v1/admin/connections?user_id=&provider_id=&access_type=
func (h *AdminHandler) Connections(c *gin.Context) {
	var req dto.AdminConnectionListRequest
	bindPage(c, &req.PageRequest)
	req.UserID, _ = strconv.ParseInt(c.Query("user_id"), 10, 64)
	req.ProviderID, _ = strconv.ParseInt(c.Query("provider_id"), 10, 64)
	req.AccessType = c.Query("access_type")

	items, total, err := h.accessService.AdminList(repository.EntitlementFilter{
		UserID:     req.UserID,
		ProviderID: req.ProviderID,
		AccessType: req.AccessType,
	}, req.Page, req.PageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, items)
}

// DeleteConnection revokes a grant.
// DELETE /api/v1/admin/connections/:user_id/:provider_id
func (h *AdminHandler) DeleteConnection(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	providerID, ok := idParam(c, "provider_id")
	if !ok {
		return
	}

	if err := h.accessService.AdminDelete(c.Request.Context(), userID, providerID); err != nil {
		accessError(c, err, providerID)
		return
	}
	response.SuccessWithMessage(c, "revoked", nil)
}

// Orders lists payment orders, e.g. ?status=needs_reconciliation
// GET /api/v1/admin/orders
func (h *AdminHandler) Orders(c *gin.Context) {
	var req dto.AdminOrderListRequest
	bindPage(c, &req.PageRequest)
	req.Status = c.Query("status")

	items, total, err := h.accessService.AdminListOrders(req.Status, req.Page, req.PageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, items)
}

// Providers GET /api/v1/admin/providers?status=pending
func (h *AdminHandler) Providers(c *gin.Context) {
	var req dto.AdminProviderListRequest
	bindPage(c, &req.PageRequest)
	req.Status = c.Query("status")

	items, total, err := h.providerService.AdminList(req.Status, req.Page, req.PageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, items)
}

// ApproveProvider POST /api/v1/admin/providers/:id/approve
func (h *AdminHandler) ApproveProvider(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.providerService.Approve(c.Request.Context(), id); err != nil {
		providerError(c, err)
		return
	}
	response.SuccessWithMessage(c, "approved", nil)
}

// RejectProvider POST /api/v1/admin/providers/:id/reject
func (h *AdminHandler) RejectProvider(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.RejectProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.providerService.Reject(c.Request.Context(), id, req.Reason); err != nil {
		providerError(c, err)
		return
	}
	response.SuccessWithMessage(c, "rejected", nil)
}
