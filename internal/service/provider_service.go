package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/repository"
)

// PhotoUploader stores provider photos in object storage.
type PhotoUploader interface {
	UploadProviderPhoto(providerID int64, data []byte, ext string) (string, error)
	DeleteByURL(url string) error
}

// Viewer identifies who is looking at a profile. A zero UserID is anonymous.
type Viewer struct {
	UserID int64
	Role   string
}

type ProviderService struct {
	providerRepo  *repository.ProviderRepository
	categoryRepo  *repository.CategoryRepository
	userRepo      *repository.UserRepository
	access        *AccessService
	uploader      PhotoUploader
	notifications *NotificationService
	upload        *config.UploadConfig
}

func NewProviderService(
	providerRepo *repository.ProviderRepository,
	categoryRepo *repository.CategoryRepository,
	userRepo *repository.UserRepository,
	access *AccessService,
	uploader PhotoUploader,
	notifications *NotificationService,
	upload *config.UploadConfig,
) *ProviderService {
	return &ProviderService{
		providerRepo:  providerRepo,
		categoryRepo:  categoryRepo,
		userRepo:      userRepo,
		access:        access,
		uploader:      uploader,
		notifications: notifications,
		upload:        upload,
	}
}

// ListByCategory lists approved providers in an active category.
func (s *ProviderService) ListByCategory(slug string, req *dto.ProviderListRequest) ([]*dto.ProviderCard, int64, error) {
	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCategoryNotFound
		}
		return nil, 0, err
	}
	if !category.IsActive {
		return nil, 0, ErrCategoryNotFound
	}

	providers, total, err := s.providerRepo.List(repository.ProviderFilter{
		CategoryID: category.ID,
		City:       strings.TrimSpace(req.City),
		Area:       strings.TrimSpace(req.Area),
		Status:     model.ProviderStatusApproved,
	}, req.Page, req.PageSize)
	if err != nil {
		return nil, 0, err
	}

	cards := make([]*dto.ProviderCard, len(providers))
	for i, p := range providers {
		cards[i] = toProviderCard(p)
	}
	return cards, total, nil
}

// GetDetail returns a public profile. Contact details are only included when
// the viewer's connection is active, or for the owner and admins. Every view
// by a signed-in customer evaluates the connection.
func (s *ProviderService) GetDetail(ctx context.Context, providerID int64, viewer Viewer) (*dto.ProviderDetail, error) {
	p, err := s.providerRepo.GetByID(providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	privileged := viewer.Role == model.RoleAdmin || (viewer.UserID != 0 && viewer.UserID == p.UserID)
	if p.Status != model.ProviderStatusApproved && !privileged {
		return nil, ErrProviderNotFound
	}

	detail := toProviderDetail(p, privileged)
	if privileged {
		detail.Contact = toContactInfo(p)
		return detail, nil
	}

	view, err := s.access.Check(ctx, viewer.UserID, p.ID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Int64("user_id", viewer.UserID).
			Int64("provider_id", p.ID).
			Msg("access check failed, hiding contact")
		return detail, nil
	}
	detail.Access = view
	if view.CallToAction == dto.ActionNone {
		detail.Contact = toContactInfo(p)
	}
	return detail, nil
}

// GetMine returns the signed-in provider's own profile.
func (s *ProviderService) GetMine(userID int64) (*dto.ProviderDetail, error) {
	p, err := s.providerRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	detail := toProviderDetail(p, true)
	detail.Contact = toContactInfo(p)
	return detail, nil
}

// SaveBusiness is onboarding step 1. It creates the profile on first use.
func (s *ProviderService) SaveBusiness(userID int64, req *dto.OnboardingBusinessRequest) (*dto.ProviderDetail, error) {
	category, err := s.categoryRepo.GetByID(req.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if !category.IsActive {
		return nil, ErrCategoryNotFound
	}

	p, err := s.providerRepo.GetByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if p == nil {
		user, err := s.userRepo.GetByID(userID)
		if err != nil {
			return nil, err
		}
		if user.Role != model.RoleProvider {
			return nil, ErrNotProvider
		}
		p = &model.Provider{UserID: userID, Status: model.ProviderStatusDraft}
	}

	return s.saveStep(p, 1, func(p *model.Provider) {
		p.BusinessName = strings.TrimSpace(req.BusinessName)
		p.CategoryID = category.ID
		p.Description = req.Description
		p.ExperienceYrs = req.ExperienceYears
	})
}

// SaveLocation is onboarding step 2.
func (s *ProviderService) SaveLocation(userID int64, req *dto.OnboardingLocationRequest) (*dto.ProviderDetail, error) {
	p, err := s.ownProvider(userID)
	if err != nil {
		return nil, err
	}
	return s.saveStep(p, 2, func(p *model.Provider) {
		p.City = strings.TrimSpace(req.City)
		p.Area = strings.TrimSpace(req.Area)
	})
}

// SaveContact is onboarding step 3, the private details a connection unlocks.
func (s *ProviderService) SaveContact(userID int64, req *dto.OnboardingContactRequest) (*dto.ProviderDetail, error) {
	p, err := s.ownProvider(userID)
	if err != nil {
		return nil, err
	}
	return s.saveStep(p, 3, func(p *model.Provider) {
		p.Phone = strings.TrimSpace(req.Phone)
		p.WhatsApp = strings.TrimSpace(req.WhatsApp)
		p.Email = strings.TrimSpace(req.Email)
		p.Address = req.Address
	})
}

func (s *ProviderService) saveStep(p *model.Provider, step int, apply func(*model.Provider)) (*dto.ProviderDetail, error) {
	if p.Status == model.ProviderStatusPending {
		return nil, ErrOnboardingLocked
	}
	if p.OnboardingStep < step-1 {
		return nil, ErrOnboardingStep
	}

	apply(p)
	if p.OnboardingStep < step {
		p.OnboardingStep = step
	}
	if p.Status == model.ProviderStatusRejected {
		p.Status = model.ProviderStatusDraft
	}

	var err error
	if p.ID == 0 {
		err = s.providerRepo.Create(p)
	} else {
		err = s.providerRepo.Update(p)
	}
	if err != nil {
		return nil, err
	}
	return s.GetMine(p.UserID)
}

// UploadPhoto stores a new profile photo and replaces the old one.
func (s *ProviderService) UploadPhoto(ctx context.Context, userID int64, filename string, data []byte) (string, error) {
	p, err := s.ownProvider(userID)
	if err != nil {
		return "", err
	}

	if s.uploader == nil {
		return "", ErrUploadUnavailable
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !s.allowedExtension(ext) {
		return "", ErrInvalidFileType
	}
	if s.upload != nil && s.upload.MaxSize > 0 && int64(len(data)) > s.upload.MaxSize {
		return "", ErrFileTooLarge
	}

	url, err := s.uploader.UploadProviderPhoto(p.ID, data, ext)
	if err != nil {
		return "", err
	}
	if err := s.providerRepo.UpdateFields(p.ID, map[string]interface{}{"photo_url": url}); err != nil {
		return "", err
	}

	if p.PhotoURL != "" {
		if err := s.uploader.DeleteByURL(p.PhotoURL); err != nil {
			log.Ctx(ctx).Warn().Err(err).Int64("provider_id", p.ID).Msg("failed to delete old photo")
		}
	}
	return url, nil
}

func (s *ProviderService) allowedExtension(ext string) bool {
	if s.upload == nil || len(s.upload.AllowedExtensions) == 0 {
		return ext != ""
	}
	for _, allowed := range s.upload.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

// Submit sends a completed profile for admin approval.
func (s *ProviderService) Submit(userID int64) (*dto.ProviderDetail, error) {
	p, err := s.ownProvider(userID)
	if err != nil {
		return nil, err
	}
	if p.OnboardingStep < model.OnboardingSteps {
		return nil, ErrOnboardingStep
	}
	if p.Status != model.ProviderStatusDraft && p.Status != model.ProviderStatusRejected {
		return nil, ErrInvalidStatus
	}

	if err := s.providerRepo.UpdateFields(p.ID, map[string]interface{}{
		"status":        model.ProviderStatusPending,
		"reject_reason": "",
	}); err != nil {
		return nil, err
	}
	return s.GetMine(userID)
}

// AdminList lists providers by status for moderation.
func (s *ProviderService) AdminList(status string, page, pageSize int) ([]*dto.ProviderDetail, int64, error) {
	providers, total, err := s.providerRepo.List(repository.ProviderFilter{Status: status}, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*dto.ProviderDetail, len(providers))
	for i, p := range providers {
		items[i] = toProviderDetail(p, true)
		items[i].Contact = toContactInfo(p)
	}
	return items, total, nil
}

// Approve publishes a pending profile.
func (s *ProviderService) Approve(ctx context.Context, providerID int64) error {
	p, err := s.pendingProvider(providerID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.providerRepo.UpdateFields(p.ID, map[string]interface{}{
		"status":      model.ProviderStatusApproved,
		"approved_at": now,
	}); err != nil {
		return err
	}

	p.Status = model.ProviderStatusApproved
	p.ApprovedAt = &now
	if s.notifications != nil {
		s.notifications.ProviderStatusChanged(ctx, p)
	}
	return nil
}

// Reject sends a pending profile back to the provider with a reason.
func (s *ProviderService) Reject(ctx context.Context, providerID int64, reason string) error {
	p, err := s.pendingProvider(providerID)
	if err != nil {
		return err
	}

	if err := s.providerRepo.UpdateFields(p.ID, map[string]interface{}{
		"status":        model.ProviderStatusRejected,
		"reject_reason": reason,
	}); err != nil {
		return err
	}

	p.Status = model.ProviderStatusRejected
	p.RejectReason = reason
	if s.notifications != nil {
		s.notifications.ProviderStatusChanged(ctx, p)
	}
	return nil
}

func (s *ProviderService) pendingProvider(id int64) (*model.Provider, error) {
	p, err := s.providerRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	if p.Status != model.ProviderStatusPending {
		return nil, ErrInvalidStatus
	}
	return p, nil
}

func (s *ProviderService) ownProvider(userID int64) (*model.Provider, error) {
	p, err := s.providerRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOnboardingStep
		}
		return nil, err
	}
	return p, nil
}

func toProviderCard(p *model.Provider) *dto.ProviderCard {
	card := &dto.ProviderCard{
		ID:              p.ID,
		BusinessName:    p.BusinessName,
		City:            p.City,
		Area:            p.Area,
		PhotoURL:        p.PhotoURL,
		ExperienceYears: p.ExperienceYrs,
		RatingAvg:       p.RatingAvg,
		RatingCount:     p.RatingCount,
	}
	if p.Category != nil {
		card.CategorySlug = p.Category.Slug
		card.CategoryName = p.Category.Name
	}
	return card
}

func toProviderDetail(p *model.Provider, privileged bool) *dto.ProviderDetail {
	detail := &dto.ProviderDetail{
		ProviderCard: *toProviderCard(p),
		Description:  p.Description,
	}
	if privileged {
		detail.Status = p.Status
		detail.OnboardingStep = p.OnboardingStep
		detail.RejectReason = p.RejectReason
	}
	return detail
}

func toContactInfo(p *model.Provider) *dto.ContactInfo {
	return &dto.ContactInfo{
		Phone:    p.Phone,
		WhatsApp: p.WhatsApp,
		Email:    p.Email,
		Address:  p.Address,
	}
}
