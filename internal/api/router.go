package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/api/handler"
	"github.com/sevalink/marketplace_server/internal/api/middleware"
	"github.com/sevalink/marketplace_server/internal/model"
)

type Router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	accessHandler       *handler.AccessHandler
	providerHandler     *handler.ProviderHandler
	categoryHandler     *handler.CategoryHandler
	reviewHandler       *handler.ReviewHandler
	notificationHandler *handler.NotificationHandler
	complaintHandler    *handler.ComplaintHandler
	adminHandler        *handler.AdminHandler
	websocketHandler    *handler.WebSocketHandler
	orderLimiter        *middleware.RateLimiter
	cfg                 *config.Config
}

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Access       *handler.AccessHandler
	Provider     *handler.ProviderHandler
	Category     *handler.CategoryHandler
	Review       *handler.ReviewHandler
	Notification *handler.NotificationHandler
	Complaint    *handler.ComplaintHandler
	Admin        *handler.AdminHandler
	WebSocket    *handler.WebSocketHandler
}

func NewRouter(h Handlers, cfg *config.Config) *Router {
	return &Router{
		authHandler:         h.Auth,
		userHandler:         h.User,
		accessHandler:       h.Access,
		providerHandler:     h.Provider,
		categoryHandler:     h.Category,
		reviewHandler:       h.Review,
		notificationHandler: h.Notification,
		complaintHandler:    h.Complaint,
		adminHandler:        h.Admin,
		websocketHandler:    h.WebSocket,
		orderLimiter:        middleware.NewRateLimiter(cfg.Payment.OrdersPerMinute, cfg.Payment.OrderBurst),
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(200, "ok")
	})

	secret := r.cfg.JWT.Secret
	api := engine.Group("/api/v1")
	{
		api.GET("/ws", r.websocketHandler.Handle)

		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/google", r.authHandler.GoogleAuth)
			auth.GET("/google/callback", r.authHandler.GoogleCallback)
		}

		// Public pages. Signed-in viewers are identified when a token is sent.
		public := api.Group("")
		public.Use(middleware.OptionalAuth(secret))
		{
			public.GET("/categories", r.categoryHandler.List)
			public.GET("/categories/:slug", r.categoryHandler.Get)
			public.GET("/categories/:slug/providers", r.providerHandler.ListByCategory)
			public.GET("/providers/:id", r.providerHandler.Get)
			public.GET("/providers/:id/reviews", r.providerHandler.Reviews)

			// Anonymous calls get a sign-in redirect back to the connect
			// intent instead of a bare auth error.
			public.GET("/access/tiers", r.accessHandler.Tiers)
			public.GET("/providers/:id/access", r.accessHandler.Check)
			public.GET("/providers/:id/access/stream", r.accessHandler.Stream)
			public.POST("/providers/:id/access/orders", middleware.RateLimit(r.orderLimiter), r.accessHandler.CreateOrder)
			public.POST("/providers/:id/access/verify", r.accessHandler.Verify)
			public.POST("/providers/:id/access/cancel", r.accessHandler.Cancel)
			public.POST("/providers/:id/access/free", r.accessHandler.Free)
		}

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(secret))
		{
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.GET("/connections", r.accessHandler.Connections)
			}

			reviews := authenticated.Group("/reviews")
			{
				reviews.GET("/pending", r.reviewHandler.Pending)
				reviews.POST("/pending/:id", r.reviewHandler.Submit)
			}

			notifications := authenticated.Group("/notifications")
			{
				notifications.GET("", r.notificationHandler.List)
				notifications.POST("/:id/read", r.notificationHandler.MarkRead)
			}

			authenticated.POST("/complaints", r.complaintHandler.Create)

			me := authenticated.Group("/providers/me")
			me.Use(middleware.RequireRole(model.RoleProvider, model.RoleAdmin))
			{
				me.GET("", r.providerHandler.Mine)
				me.PUT("/onboarding/:step", r.providerHandler.SaveStep)
				me.POST("/photo", r.providerHandler.UploadPhoto)
				me.POST("/submit", r.providerHandler.Submit)
			}
		}

		admin := api.Group("/admin")
		admin.Use(middleware.Auth(secret), middleware.AdminOnly())
		{
			admin.GET("/access/tiers", r.adminHandler.Tiers)
			admin.PUT("/access/tiers/:id", r.adminHandler.UpdateTier)
			admin.PUT("/access/settings", r.adminHandler.UpdateSettings)

			admin.GET("/connections", r.adminHandler.Connections)
			admin.DELETE("/connections/:user_id/:provider_id", r.adminHandler.DeleteConnection)
			admin.GET("/orders", r.adminHandler.Orders)

			admin.GET("/providers", r.adminHandler.Providers)
			admin.POST("/providers/:id/approve", r.adminHandler.ApproveProvider)
			admin.POST("/providers/:id/reject", r.adminHandler.RejectProvider)

			admin.GET("/categories", r.categoryHandler.AdminList)
			admin.POST("/categories", r.categoryHandler.Create)
			admin.PUT("/categories/:id", r.categoryHandler.Update)
			admin.DELETE("/categories/:id", r.categoryHandler.Delete)

			admin.GET("/complaints", r.complaintHandler.AdminList)
			admin.POST("/complaints/:id/resolve", r.complaintHandler.Resolve)
		}
	}

	return engine
}
