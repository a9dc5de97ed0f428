package handler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/api/middleware"
	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/pkg/lock"
	"github.com/sevalink/marketplace_server/internal/pkg/payment"
	"github.com/sevalink/marketplace_server/internal/pkg/pubsub"
	"github.com/sevalink/marketplace_server/internal/pkg/queue"
	"github.com/sevalink/marketplace_server/internal/repository"
	"github.com/sevalink/marketplace_server/internal/service"
	"github.com/sevalink/marketplace_server/internal/testutil"
)

type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (u *fakeUploader) UploadProviderPhoto(providerID int64, data []byte, ext string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	url := fmt.Sprintf("https://cdn.example.com/providers/%d/%d%s", providerID, len(u.uploaded)+1, ext)
	u.uploaded = append(u.uploaded, url)
	return url, nil
}

func (u *fakeUploader) DeleteByURL(url string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, url)
	return nil
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []*queue.NotificationJob
}

func (q *recordingQueue) Push(ctx context.Context, job *queue.NotificationJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

// appFixture wires every service and mounts the routes the way the server does.
type appFixture struct {
	db       *gorm.DB
	router   *gin.Engine
	access   *service.AccessService
	uploader *fakeUploader
	jobs     *recordingQueue
	category *model.Category
	admin    *model.User
}

func setupApp(t *testing.T) *appFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	_, rdb := testutil.SetupTestRedis(t)

	gateway := newFakeGatewayServer(t)
	f := &appFixture{
		db:       db,
		uploader: &fakeUploader{},
		jobs:     &recordingQueue{},
	}

	userRepo := repository.NewUserRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	notifications := service.NewNotificationService(
		repository.NewNotificationRepository(db), userRepo, providerRepo, f.jobs,
		&config.SiteConfig{OperatorEmail: "ops@example.com"},
	)
	catalog := service.NewCatalogService(repository.NewCatalogRepository(db), "INR")
	f.access = service.NewAccessService(service.AccessDeps{
		DB:      db,
		Catalog: catalog,
		Gateway: payment.NewClient(&config.PaymentConfig{
			BaseURL: gateway.URL, KeyID: "rzp_test_key", KeySecret: gatewaySecret,
		}),
		Locker:   lock.NewLocker(rdb, 5*time.Second),
		Broker:   pubsub.NewBroker(),
		Notifier: notifications,
		Config:   &config.AccessConfig{PendingOrderReuseMinutes: 15},
		Currency: "INR",
	})
	providers := service.NewProviderService(providerRepo, categoryRepo, userRepo, f.access, f.uploader, notifications, &config.UploadConfig{
		MaxSize:           1024,
		AllowedExtensions: []string{".jpg", ".png"},
	})
	reviews := service.NewReviewService(db, notifications)

	providerHandler := NewProviderHandler(providers, reviews)
	categoryHandler := NewCategoryHandler(service.NewCategoryService(categoryRepo))
	reviewHandler := NewReviewHandler(reviews)
	notificationHandler := NewNotificationHandler(notifications)
	complaintHandler := NewComplaintHandler(service.NewComplaintService(repository.NewComplaintRepository(db), providerRepo))
	adminHandler := NewAdminHandler(catalog, f.access, providers)

	router := gin.New()
	public := router.Group("")
	public.Use(middleware.OptionalAuth(testJWTSecret))
	public.GET("/categories", categoryHandler.List)
	public.GET("/categories/:slug", categoryHandler.Get)
	public.GET("/categories/:slug/providers", providerHandler.ListByCategory)
	public.GET("/providers/:id", providerHandler.Get)
	public.GET("/providers/:id/reviews", providerHandler.Reviews)

	authed := router.Group("")
	authed.Use(middleware.Auth(testJWTSecret))
	authed.GET("/reviews/pending", reviewHandler.Pending)
	authed.POST("/reviews/pending/:id", reviewHandler.Submit)
	authed.GET("/notifications", notificationHandler.List)
	authed.POST("/notifications/:id/read", notificationHandler.MarkRead)
	authed.POST("/complaints", complaintHandler.Create)
	me := authed.Group("/providers/me")
	me.Use(middleware.RequireRole(model.RoleProvider, model.RoleAdmin))
	me.GET("", providerHandler.Mine)
	me.PUT("/onboarding/:step", providerHandler.SaveStep)
	me.POST("/photo", providerHandler.UploadPhoto)
	me.POST("/submit", providerHandler.Submit)

	admin := router.Group("/admin")
	admin.Use(middleware.Auth(testJWTSecret), middleware.AdminOnly())
	admin.GET("/access/tiers", adminHandler.Tiers)
	admin.PUT("/access/tiers/:id", adminHandler.UpdateTier)
	admin.PUT("/access/settings", adminHandler.UpdateSettings)
	admin.GET("/connections", adminHandler.Connections)
	admin.DELETE("/connections/:user_id/:provider_id", adminHandler.DeleteConnection)
	admin.GET("/orders", adminHandler.Orders)
	admin.GET("/providers", adminHandler.Providers)
	admin.POST("/providers/:id/approve", adminHandler.ApproveProvider)
	admin.POST("/providers/:id/reject", adminHandler.RejectProvider)
	admin.GET("/categories", categoryHandler.AdminList)
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)
	admin.GET("/complaints", complaintHandler.AdminList)
	admin.POST("/complaints/:id/resolve", complaintHandler.Resolve)
	f.router = router

	f.category = testutil.TestCategory(t, db, testutil.WithSlug("plumbers"))
	f.admin = testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	testutil.TestSettings(t, db, false, 30)
	return f
}

func (f *appFixture) adminToken(t *testing.T) string {
	return tokenFor(t, f.admin.ID, model.RoleAdmin)
}
