package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/oauth"
	"github.com/sevalink/marketplace_server/internal/pkg/response"
	"github.com/sevalink/marketplace_server/internal/repository"
	"github.com/sevalink/marketplace_server/internal/service"
	"github.com/sevalink/marketplace_server/internal/testutil"
)

func setupAuthHandler(t *testing.T) *gin.Engine {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	_, rdb := testutil.SetupTestRedis(t)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:      testJWTSecret,
			ExpireHours: 24,
		},
		OAuth: config.OAuthConfig{
			Google: config.GoogleOAuthConfig{
				ClientID:    "test-client-id",
				RedirectURI: "http://localhost:8080/api/v1/auth/google/callback",
			},
		},
	}

	authService := service.NewAuthService(repository.NewUserRepository(db), oauth.NewStateStore(rdb), cfg)
	handler := NewAuthHandler(authService)

	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)
	router.GET("/google", handler.GoogleAuth)
	router.GET("/google/callback", handler.GoogleCallback)
	return router
}

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	router := setupAuthHandler(t)

	w := performRequest(router, "POST", "/register", dto.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "POST", "/login", dto.LoginRequest{Email: "asha@example.com", Password: "password123"})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var login dto.LoginResponse
	decodeData(t, resp, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, model.RoleCustomer, login.User.Role)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	router := setupAuthHandler(t)

	req := dto.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "password123"}
	w := performRequest(router, "POST", "/register", req)
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "POST", "/register", req)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
}

func TestAuthHandler_Register_InvalidRequest(t *testing.T) {
	router := setupAuthHandler(t)

	tests := []struct {
		name string
		body dto.RegisterRequest
	}{
		{"bad email", dto.RegisterRequest{Name: "Asha", Email: "not-an-email", Password: "password123"}},
		{"short password", dto.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "short"}},
		{"admin role", dto.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "password123", Role: model.RoleAdmin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/register", tt.body)
			assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
		})
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	router := setupAuthHandler(t)

	performRequest(router, "POST", "/register", dto.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "password123"})

	w := performRequest(router, "POST", "/login", dto.LoginRequest{Email: "asha@example.com", Password: "wrong-password"})
	assert.Equal(t, response.CodeAuthFailed, parseResponse(t, w).Code)
}

func TestAuthHandler_GoogleAuth(t *testing.T) {
	router := setupAuthHandler(t)

	w := performRequest(router, "GET", "/google?return_to="+url.QueryEscape("/providers/7?connect=1"), nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var data map[string]string
	decodeData(t, resp, &data)
	authURL, err := url.Parse(data["url"])
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", authURL.Host)
	assert.NotEmpty(t, authURL.Query().Get("state"))
	assert.Equal(t, "test-client-id", authURL.Query().Get("client_id"))
}

func TestAuthHandler_GoogleCallback_Rejected(t *testing.T) {
	router := setupAuthHandler(t)

	w := performRequest(router, "GET", "/google/callback", nil)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)

	w = performRequest(router, "GET", "/google/callback?code=abc&state=forged", nil)
	assert.Equal(t, response.CodeAuthFailed, parseResponse(t, w).Code)
}
