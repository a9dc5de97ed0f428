package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/repository"
	"github.com/sevalink/marketplace_server/internal/testutil"
)

type fakeUploader struct {
	uploaded []string
	deleted  []string
}

func (u *fakeUploader) UploadProviderPhoto(providerID int64, data []byte, ext string) (string, error) {
	url := fmt.Sprintf("https://cdn.example.com/providers/%d/photo_%d%s", providerID, len(u.uploaded)+1, ext)
	u.uploaded = append(u.uploaded, url)
	return url, nil
}

func (u *fakeUploader) DeleteByURL(url string) error {
	u.deleted = append(u.deleted, url)
	return nil
}

type providerFixture struct {
	db       *gorm.DB
	svc      *ProviderService
	access   *accessFixture
	uploader *fakeUploader
}

func setupProviderService(t *testing.T) *providerFixture {
	t.Helper()

	af := setupAccessService(t, nil)
	db := af.db
	uploader := &fakeUploader{}
	notifications := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		repository.NewProviderRepository(db),
		nil, nil,
	)
	svc := NewProviderService(
		repository.NewProviderRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewUserRepository(db),
		af.svc,
		uploader,
		notifications,
		&config.UploadConfig{MaxSize: 1024, AllowedExtensions: []string{".jpg", ".png"}},
	)
	return &providerFixture{db: db, svc: svc, access: af, uploader: uploader}
}

func TestProviderService_DetailMasksContactWithoutAccess(t *testing.T) {
	f := setupProviderService(t)
	withPaidTiers(t, f.db)
	ctx := context.Background()
	af := f.access

	detail, err := f.svc.GetDetail(ctx, af.provider.ID, Viewer{})
	require.NoError(t, err)
	assert.Nil(t, detail.Contact)
	assert.Equal(t, dto.ActionLogin, detail.Access.CallToAction)
	assert.Empty(t, detail.Status)

	detail, err = f.svc.GetDetail(ctx, af.provider.ID, Viewer{UserID: af.user.ID, Role: model.RoleCustomer})
	require.NoError(t, err)
	assert.Nil(t, detail.Contact)
	assert.Equal(t, dto.ActionChooseTier, detail.Access.CallToAction)

	_, err = af.svc.Grant(ctx, af.user.ID, af.provider.ID, model.TierOneTime, nil)
	require.NoError(t, err)

	detail, err = f.svc.GetDetail(ctx, af.provider.ID, Viewer{UserID: af.user.ID, Role: model.RoleCustomer})
	require.NoError(t, err)
	require.NotNil(t, detail.Contact)
	assert.Equal(t, "+919800000000", detail.Contact.Phone)

	af.advance(25 * time.Hour)
	detail, err = f.svc.GetDetail(ctx, af.provider.ID, Viewer{UserID: af.user.ID, Role: model.RoleCustomer})
	require.NoError(t, err)
	assert.Nil(t, detail.Contact)
	assert.Equal(t, dto.ActionRenew, detail.Access.CallToAction)
	assert.Equal(t, int64(1), af.pendingBookings(af.user.ID))
}

func TestProviderService_DetailVisibility(t *testing.T) {
	f := setupProviderService(t)
	ctx := context.Background()

	draft := testutil.TestProvider(t, f.db, f.access.provider.CategoryID, testutil.WithProviderStatus(model.ProviderStatusPending))

	_, err := f.svc.GetDetail(ctx, draft.ID, Viewer{UserID: f.access.user.ID, Role: model.RoleCustomer})
	assert.ErrorIs(t, err, ErrProviderNotFound)

	detail, err := f.svc.GetDetail(ctx, draft.ID, Viewer{UserID: draft.UserID, Role: model.RoleProvider})
	require.NoError(t, err)
	require.NotNil(t, detail.Contact)
	assert.Equal(t, model.ProviderStatusPending, detail.Status)

	admin := testutil.TestUser(t, f.db, testutil.WithRole(model.RoleAdmin))
	detail, err = f.svc.GetDetail(ctx, draft.ID, Viewer{UserID: admin.ID, Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.NotNil(t, detail.Contact)

	_, err = f.svc.GetDetail(ctx, 99999, Viewer{})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestProviderService_OnboardingFlow(t *testing.T) {
	f := setupProviderService(t)
	ctx := context.Background()
	categoryID := f.access.provider.CategoryID

	owner := testutil.TestUser(t, f.db, testutil.WithRole(model.RoleProvider))

	_, err := f.svc.SaveLocation(owner.ID, &dto.OnboardingLocationRequest{City: "Pune", Area: "Baner"})
	assert.ErrorIs(t, err, ErrOnboardingStep)

	detail, err := f.svc.SaveBusiness(owner.ID, &dto.OnboardingBusinessRequest{
		BusinessName: "Sharma Plumbing", CategoryID: categoryID, ExperienceYears: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, detail.OnboardingStep)
	assert.Equal(t, model.ProviderStatusDraft, detail.Status)

	_, err = f.svc.SaveContact(owner.ID, &dto.OnboardingContactRequest{Phone: "+919811111111"})
	assert.ErrorIs(t, err, ErrOnboardingStep)

	_, err = f.svc.Submit(owner.ID)
	assert.ErrorIs(t, err, ErrOnboardingStep)

	_, err = f.svc.SaveLocation(owner.ID, &dto.OnboardingLocationRequest{City: "Pune", Area: "Baner"})
	require.NoError(t, err)
	detail, err = f.svc.SaveContact(owner.ID, &dto.OnboardingContactRequest{Phone: "+919811111111", WhatsApp: "+919811111111"})
	require.NoError(t, err)
	assert.Equal(t, 3, detail.OnboardingStep)
	assert.Equal(t, "+919811111111", detail.Contact.Phone)

	url, err := f.svc.UploadPhoto(ctx, owner.ID, "me.PNG", []byte("png"))
	require.NoError(t, err)
	second, err := f.svc.UploadPhoto(ctx, owner.ID, "me.jpg", []byte("jpg"))
	require.NoError(t, err)
	assert.Equal(t, []string{url}, f.uploader.deleted)

	detail, err = f.svc.Submit(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProviderStatusPending, detail.Status)
	assert.Equal(t, second, detail.PhotoURL)

	_, err = f.svc.SaveLocation(owner.ID, &dto.OnboardingLocationRequest{City: "Mumbai", Area: "Andheri"})
	assert.ErrorIs(t, err, ErrOnboardingLocked)

	_, err = f.svc.Submit(owner.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	require.NoError(t, f.svc.Reject(ctx, detail.ID, "Add a clearer photo"))
	mine, err := f.svc.GetMine(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProviderStatusRejected, mine.Status)
	assert.Equal(t, "Add a clearer photo", mine.RejectReason)

	_, err = f.svc.Submit(owner.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Approve(ctx, detail.ID))

	mine, err = f.svc.GetMine(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProviderStatusApproved, mine.Status)

	assert.ErrorIs(t, f.svc.Approve(ctx, detail.ID), ErrInvalidStatus)

	inbox, _, _, err := NewNotificationService(repository.NewNotificationRepository(f.db), nil, nil, nil, nil).List(owner.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)
}

func TestProviderService_OnboardingGuards(t *testing.T) {
	f := setupProviderService(t)
	ctx := context.Background()

	customer := testutil.TestUser(t, f.db)
	_, err := f.svc.SaveBusiness(customer.ID, &dto.OnboardingBusinessRequest{
		BusinessName: "Not a provider", CategoryID: f.access.provider.CategoryID,
	})
	assert.ErrorIs(t, err, ErrNotProvider)

	owner := testutil.TestUser(t, f.db, testutil.WithRole(model.RoleProvider))
	_, err = f.svc.SaveBusiness(owner.ID, &dto.OnboardingBusinessRequest{BusinessName: "Tutor", CategoryID: 99999})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = f.svc.SaveBusiness(owner.ID, &dto.OnboardingBusinessRequest{BusinessName: "Tutor", CategoryID: f.access.provider.CategoryID})
	require.NoError(t, err)

	_, err = f.svc.UploadPhoto(ctx, owner.ID, "cv.pdf", []byte("pdf"))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = f.svc.UploadPhoto(ctx, owner.ID, "big.jpg", make([]byte, 2048))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestProviderService_ListByCategory(t *testing.T) {
	f := setupProviderService(t)

	category := testutil.TestCategory(t, f.db, testutil.WithSlug("electricians"))
	testutil.TestProvider(t, f.db, category.ID, testutil.WithCity("Pune", "Baner"))
	testutil.TestProvider(t, f.db, category.ID, testutil.WithCity("Mumbai", "Andheri"))
	testutil.TestProvider(t, f.db, category.ID, testutil.WithProviderStatus(model.ProviderStatusPending))

	cards, total, err := f.svc.ListByCategory("electricians", &dto.ProviderListRequest{
		PageRequest: dto.PageRequest{Page: 1, PageSize: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, cards, 2)
	assert.Equal(t, "electricians", cards[0].CategorySlug)

	cards, total, err = f.svc.ListByCategory("electricians", &dto.ProviderListRequest{
		PageRequest: dto.PageRequest{Page: 1, PageSize: 20}, City: "Pune",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Baner", cards[0].Area)

	inactive := testutil.TestCategory(t, f.db, testutil.WithInactive())
	_, _, err = f.svc.ListByCategory(inactive.Slug, &dto.ProviderListRequest{PageRequest: dto.PageRequest{Page: 1, PageSize: 20}})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	items, total, err := f.svc.AdminList(model.ProviderStatusPending, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.NotNil(t, items[0].Contact)
}

func TestProviderService_UploadPhotoWithoutStorage(t *testing.T) {
	f := setupProviderService(t)
	f.svc.uploader = nil
	category := testutil.TestCategory(t, f.db)
	p := testutil.TestProvider(t, f.db, category.ID)

	_, err := f.svc.UploadPhoto(context.Background(), p.UserID, "me.jpg", []byte("jpg"))
	assert.ErrorIs(t, err, ErrUploadUnavailable)
}
