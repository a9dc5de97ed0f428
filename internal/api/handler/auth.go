package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/response"
	"github.com/sevalink/marketplace_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register signs up with email and password.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.ParamError(c, err.Error())
		default:
			log.Error().Err(err).Msg("register failed")
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "account created", resp)
}

// Login signs in with email and password.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "signed in", resp)
}

// GoogleAuth returns the Google consent URL. return_to is the page to resume
// after sign-in.
// GET /api/v1/auth/google?return_to=/providers/12?connect=1
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	url, err := h.authService.GoogleAuthURL(c.Request.Context(), c.Query("return_to"))
	if err != nil {
		log.Error().Err(err).Msg("failed to start google sign-in")
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"url": url})
}

// GoogleCallback finishes Google sign-in.
// GET /api/v1/auth/google/callback?code=xxx&state=xxx
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		response.ParamError(c, "missing code or state")
		return
	}

	resp, err := h.authService.GoogleCallback(c.Request.Context(), code, state)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOAuthFailed):
			log.Warn().Err(err).Msg("google sign-in rejected")
			response.AuthError(c, service.ErrOAuthFailed.Error())
		default:
			log.Error().Err(err).Msg("google sign-in failed")
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "signed in", resp)
}
