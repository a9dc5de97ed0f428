package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/internal/model"
)

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestUser creates a customer.
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := nextSeq()
	email := fmt.Sprintf("user_%d@example.com", n)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Name:          fmt.Sprintf("User %d", n),
		Email:         &email,
		PasswordHash:  &passwordHash,
		Role:          model.RoleCustomer,
		EmailVerified: true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

func WithName(name string) func(*model.User) {
	return func(u *model.User) {
		u.Name = name
	}
}

func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

func WithPasswordHash(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = &hash
	}
}

// TestCategory creates an active category.
func TestCategory(t *testing.T, db *gorm.DB, opts ...func(*model.Category)) *model.Category {
	t.Helper()

	n := nextSeq()
	category := &model.Category{
		Name:     fmt.Sprintf("Category %d", n),
		Slug:     fmt.Sprintf("category-%d", n),
		IsActive: true,
	}

	for _, opt := range opts {
		opt(category)
	}

	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	return category
}

func WithSlug(slug string) func(*model.Category) {
	return func(c *model.Category) {
		c.Slug = slug
	}
}

func WithInactive() func(*model.Category) {
	return func(c *model.Category) {
		c.IsActive = false
	}
}

// TestProvider creates an approved provider owned by a fresh provider user.
func TestProvider(t *testing.T, db *gorm.DB, categoryID int64, opts ...func(*model.Provider)) *model.Provider {
	t.Helper()

	owner := TestUser(t, db, WithRole(model.RoleProvider))
	now := time.Now().UTC()
	provider := &model.Provider{
		UserID:         owner.ID,
		CategoryID:     categoryID,
		BusinessName:   fmt.Sprintf("Provider %d", owner.ID),
		City:           "Pune",
		Area:           "Kothrud",
		Status:         model.ProviderStatusApproved,
		OnboardingStep: model.OnboardingSteps,
		Phone:          "+919800000000",
		WhatsApp:       "+919800000000",
		Email:          fmt.Sprintf("provider_%d@example.com", owner.ID),
		Address:        "12 MG Road",
		ApprovedAt:     &now,
	}

	for _, opt := range opts {
		opt(provider)
	}

	if err := db.Create(provider).Error; err != nil {
		t.Fatalf("Failed to create test provider: %v", err)
	}

	return provider
}

func WithProviderStatus(status string) func(*model.Provider) {
	return func(p *model.Provider) {
		p.Status = status
	}
}

func WithCity(city, area string) func(*model.Provider) {
	return func(p *model.Provider) {
		p.City = city
		p.Area = area
	}
}

// TestTier upserts a catalog tier.
func TestTier(t *testing.T, db *gorm.DB, id string, price int64, durationDays int, enabled bool) *model.AccessTier {
	t.Helper()

	tier := &model.AccessTier{
		ID:      id,
		Label:   id,
		Price:   price,
		Enabled: enabled,
	}
	if durationDays > 0 {
		tier.DurationDays = &durationDays
	}

	if err := db.Save(tier).Error; err != nil {
		t.Fatalf("Failed to create test tier: %v", err)
	}

	return tier
}

// TestSettings writes the global free-access settings row.
func TestSettings(t *testing.T, db *gorm.DB, fallback bool, minutes int) *model.SiteSettings {
	t.Helper()

	settings := &model.SiteSettings{
		ID:                        1,
		FreeAccessFallbackEnabled: fallback,
		FreeAccessDurationMinutes: minutes,
	}
	if err := db.Save(settings).Error; err != nil {
		t.Fatalf("Failed to save test settings: %v", err)
	}

	return settings
}

// TestEntitlement stores a grant directly, bypassing the access flow.
func TestEntitlement(t *testing.T, db *gorm.DB, userID, providerID int64, accessType string, grantedAt time.Time, expiresAt *time.Time) *model.Entitlement {
	t.Helper()

	e := &model.Entitlement{
		ID:         model.EntitlementKey(userID, providerID),
		UserID:     userID,
		ProviderID: providerID,
		AccessType: accessType,
		GrantedAt:  grantedAt.UTC(),
		ExpiresAt:  expiresAt,
	}
	if err := db.Save(e).Error; err != nil {
		t.Fatalf("Failed to create test entitlement: %v", err)
	}

	return e
}

// TestPendingBooking creates an unreviewed placeholder.
func TestPendingBooking(t *testing.T, db *gorm.DB, userID, providerID int64) *model.Booking {
	t.Helper()

	b := &model.Booking{
		ID:         fmt.Sprintf("00000000-0000-4000-8000-%012d", nextSeq()),
		UserID:     userID,
		ProviderID: providerID,
		Source:     model.BookingSourceConnectionExpiry,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("Failed to create test booking: %v", err)
	}

	return b
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func StringPtr(s string) *string {
	return &s
}
