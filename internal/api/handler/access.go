package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sevalink/marketplace_server/internal/api/middleware"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/entitlement"
	"github.com/sevalink/marketplace_server/internal/pkg/jwt"
	"github.com/sevalink/marketplace_server/internal/pkg/response"
	"github.com/sevalink/marketplace_server/internal/service"
)

const (
	streamKeepAlive = 25 * time.Second
	// past expires_at so the re-check lands on the expired side
	streamExpirySlack = 50 * time.Millisecond
)

type AccessHandler struct {
	accessService  *service.AccessService
	catalogService *service.CatalogService
	jwtSecret      string
}

func NewAccessHandler(accessService *service.AccessService, catalogService *service.CatalogService, jwtSecret string) *AccessHandler {
	return &AccessHandler{
		accessService:  accessService,
		catalogService: catalogService,
		jwtSecret:      jwtSecret,
	}
}

// Tiers lists the tiers a user can buy, or the free fallback tier.
// GET /api/v1/access/tiers
func (h *AccessHandler) Tiers(c *gin.Context) {
	resp, err := h.catalogService.ListEnabledTiers(c.Request.Context())
	if err != nil {
		accessError(c, err, 0)
		return
	}
	response.Success(c, resp)
}

// Check evaluates the viewer's access to a provider.
// GET /api/v1/providers/:id/access
func (h *AccessHandler) Check(c *gin.Context) {
	providerID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	view, err := h.accessService.Check(c.Request.Context(), userID, providerID)
	if err != nil {
		accessError(c, err, providerID)
		return
	}
	response.Success(c, view)
}

// CreateOrder opens a checkout for the chosen tier.
// POST /api/v1/providers/:id/access/orders
func (h *AccessHandler) CreateOrder(c *gin.Context) {
	providerID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.accessService.CreateOrder(c.Request.Context(), userID, providerID, req.TierID)
	if err != nil {
		accessError(c, err, providerID)
		return
	}
	response.Success(c, resp)
}

// Verify checks the gateway callback and grants the connection.
// POST /api/v1/providers/:id/access/verify
func (h *AccessHandler) Verify(c *gin.Context) {
	providerID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	if _, err := h.accessService.VerifyAndGrant(ctx, userID, providerID, &req); err != nil {
		accessError(c, err, providerID)
		return
	}
	h.respondView(c, userID, providerID, "connected")
}

// Cancel records a dismissed or declined checkout. A cancellation is
// silent; a failure carries the gateway's reason.
// POST /api/v1/providers/:id/access/cancel
func (h *AccessHandler) Cancel(c *gin.Context) {
	providerID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req dto.CheckoutOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.accessService.CancelCheckout(c.Request.Context(), userID, providerID, &req); err != nil {
		accessError(c, err, providerID)
		return
	}
	h.respondView(c, userID, providerID, "success")
}

// Free grants the free fallback tier when no paid tier is offered.
// POST /api/v1/providers/:id/access/free
func (h *AccessHandler) Free(c *gin.Context) {
	providerID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	if _, err := h.accessService.FreeGrant(c.Request.Context(), userID, providerID); err != nil {
		accessError(c, err, providerID)
		return
	}
	h.respondView(c, userID, providerID, "connected")
}

// respondView answers with the freshly evaluated access view.
func (h *AccessHandler) respondView(c *gin.Context, userID, providerID int64, message string) {
	view, err := h.accessService.Check(c.Request.Context(), userID, providerID)
	if err != nil {
		accessError(c, err, providerID)
		return
	}
	response.SuccessWithMessage(c, message, view)
}

// Stream pushes the access view whenever the connection changes. Browsers'
// EventSource cannot set headers, so the token may come as ?token=.
// GET /api/v1/providers/:id/access/stream
func (h *AccessHandler) Stream(c *gin.Context) {
	providerID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		claims, err := jwt.ParseToken(c.Query("token"), h.jwtSecret)
		if err != nil {
			response.AuthRedirect(c, connectRedirect(providerID))
			return
		}
		userID = claims.UserID
	}

	ctx := c.Request.Context()
	updates, cancel := h.accessService.Subscribe(userID, providerID)
	defer cancel()

	view, err := h.accessService.Check(ctx, userID, providerID)
	if err != nil {
		accessError(c, err, providerID)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.SSEvent("access", view)
	c.Writer.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	// A timed grant lapses without any write, so the stream re-checks at
	// expires_at. That re-check is an observation and runs the review trigger.
	var expiry *time.Timer
	watchExpiry := func(v *dto.AccessView) <-chan time.Time {
		if expiry != nil {
			expiry.Stop()
			expiry = nil
		}
		if v.State != string(entitlement.ActiveTimed) || v.ExpiresAt == nil {
			return nil
		}
		expiry = time.NewTimer(time.Until(*v.ExpiresAt) + streamExpirySlack)
		return expiry.C
	}
	defer func() {
		if expiry != nil {
			expiry.Stop()
		}
	}()
	expiryC := watchExpiry(view)

	recheck := func(reason string) bool {
		view, err := h.accessService.Check(ctx, userID, providerID)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).
				Int64("user_id", userID).
				Int64("provider_id", providerID).
				Str("event", reason).
				Msg("access stream evaluation failed")
			return false
		}
		c.SSEvent("access", view)
		expiryC = watchExpiry(view)
		return true
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case update, ok := <-updates:
			if !ok {
				return false
			}
			return recheck(update.Type)
		case <-expiryC:
			return recheck("expiry")
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		}
	})
}

// Connections lists the signed-in user's connections.
// GET /api/v1/user/connections
func (h *AccessHandler) Connections(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	items, err := h.accessService.ListConnections(c.Request.Context(), userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, items)
}

// connectRedirect is where the client resumes after signing in.
func connectRedirect(providerID int64) string {
	return fmt.Sprintf("/providers/%d?connect=1", providerID)
}

// accessError maps connection-access errors to response codes.
func accessError(c *gin.Context, err error, providerID int64) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		response.AuthRedirect(c, connectRedirect(providerID))
	case errors.Is(err, service.ErrInvalidTier):
		response.Error(c, response.CodeInvalidTier, "")
	case errors.Is(err, service.ErrPaymentFailed):
		response.Error(c, response.CodePaymentFailed, err.Error())
	case errors.Is(err, service.ErrConfigUnavailable):
		response.Error(c, response.CodeFeatureUnavailable, "")
	case errors.Is(err, service.ErrGatewayUnavailable):
		response.Error(c, response.CodeFeatureUnavailable, "payment is temporarily unavailable, please try again")
	case errors.Is(err, service.ErrWriteFailed):
		response.Error(c, response.CodeWriteFailed, "")
	case errors.Is(err, service.ErrDuplicatePayment):
		response.DuplicateError(c, err.Error())
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProviderNotFound),
		errors.Is(err, service.ErrConnectionNotFound):
		response.NotFoundError(c, err.Error())
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Int64("provider_id", providerID).Msg("access request failed")
		response.ServerError(c, "")
	}
}
