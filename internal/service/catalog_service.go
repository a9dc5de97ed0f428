package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/repository"
)

// Snapshot is an immutable view of the pricing catalog taken at one instant.
// It is loaded per request and passed down explicitly.
type Snapshot struct {
	tiers    []model.AccessTier
	settings model.SiteSettings
}

// NewSnapshot builds a snapshot from stored rows.
func NewSnapshot(tiers []model.AccessTier, settings model.SiteSettings) *Snapshot {
	copied := make([]model.AccessTier, len(tiers))
	copy(copied, tiers)
	return &Snapshot{tiers: copied, settings: settings}
}

func (s *Snapshot) paidEnabled() []model.AccessTier {
	var out []model.AccessTier
	for _, t := range s.tiers {
		if t.Enabled && t.ID != model.TierFree {
			out = append(out, t)
		}
	}
	return out
}

// FreeOffered reports whether the free fallback tier is on offer: the flag is
// on and no paid tier is enabled.
func (s *Snapshot) FreeOffered() bool {
	return s.settings.FreeAccessFallbackEnabled &&
		s.settings.FreeAccessDurationMinutes > 0 &&
		len(s.paidEnabled()) == 0
}

// FreeTier synthesizes the free tier from the settings.
func (s *Snapshot) FreeTier() model.AccessTier {
	return model.AccessTier{
		ID:              model.TierFree,
		Label:           "Free access",
		Price:           0,
		Enabled:         s.FreeOffered(),
		DurationMinutes: s.settings.FreeAccessDurationMinutes,
	}
}

// EnabledTiers lists the purchasable tiers in display order, or only the
// free tier when it is the fallback.
func (s *Snapshot) EnabledTiers() []model.AccessTier {
	if paid := s.paidEnabled(); len(paid) > 0 {
		return paid
	}
	if s.FreeOffered() {
		return []model.AccessTier{s.FreeTier()}
	}
	return nil
}

// Tier returns an enabled tier by id.
func (s *Snapshot) Tier(id string) (*model.AccessTier, bool) {
	for _, t := range s.EnabledTiers() {
		if t.ID == id {
			tier := t
			return &tier, true
		}
	}
	return nil, false
}

// AnyTier returns a stored tier by id whether or not it is enabled. Paid
// checkouts use it so a tier disabled mid-checkout still honours the payment.
func (s *Snapshot) AnyTier(id string) (*model.AccessTier, bool) {
	for _, t := range s.tiers {
		if t.ID == id {
			tier := t
			return &tier, true
		}
	}
	return nil, false
}

func (s *Snapshot) Settings() model.SiteSettings {
	return s.settings
}

type CatalogService struct {
	repo     *repository.CatalogRepository
	currency string
	validate *validator.Validate
}

func NewCatalogService(repo *repository.CatalogRepository, currency string) *CatalogService {
	return &CatalogService{
		repo:     repo,
		currency: currency,
		validate: validator.New(),
	}
}

// Load reads the catalog. Backend failures surface as ErrConfigUnavailable.
func (s *CatalogService) Load(ctx context.Context) (*Snapshot, error) {
	tiers, err := s.repo.ListTiers()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to load access tiers")
		return nil, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	settings, err := s.repo.GetSettings()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to load site settings")
		return nil, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	return NewSnapshot(tiers, *settings), nil
}

// ListEnabledTiers returns the tiers a user can choose from right now.
func (s *CatalogService) ListEnabledTiers(ctx context.Context) (*dto.TierListResponse, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.TierListResponse{Tiers: []dto.TierInfo{}}
	for _, t := range snap.EnabledTiers() {
		resp.Tiers = append(resp.Tiers, s.TierInfo(&t))
	}
	resp.FreeFallback = snap.FreeOffered()
	return resp, nil
}

// ListAllTiers returns every stored tier plus the settings, for the back-office.
func (s *CatalogService) ListAllTiers(ctx context.Context) ([]model.AccessTier, *model.SiteSettings, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	settings := snap.Settings()
	return snap.tiers, &settings, nil
}

func (s *CatalogService) TierInfo(t *model.AccessTier) dto.TierInfo {
	return dto.TierInfo{
		ID:              t.ID,
		Label:           t.Label,
		Price:           t.Price,
		Currency:        s.currency,
		DurationDays:    t.DurationDays,
		DurationMinutes: t.DurationMinutes,
		IsLifetime:      t.IsLifetime(),
		IsFree:          t.ID == model.TierFree,
	}
}

// UpdateTier applies an admin edit to a paid tier.
func (s *CatalogService) UpdateTier(id string, req *dto.UpdateTierRequest) (*model.AccessTier, error) {
	if id == model.TierFree || !model.IsKnownTier(id) {
		return nil, ErrInvalidTier
	}

	tier, err := s.repo.GetTier(id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		tier = &model.AccessTier{ID: id, Label: id}
	}

	if req.Label != nil {
		tier.Label = *req.Label
	}
	if req.Price != nil {
		tier.Price = *req.Price
	}
	if req.DurationDays != nil {
		days := *req.DurationDays
		tier.DurationDays = &days
	}
	if req.Enabled != nil {
		tier.Enabled = *req.Enabled
	}
	if req.SortOrder != nil {
		tier.SortOrder = *req.SortOrder
	}
	if tier.IsLifetime() {
		tier.DurationDays = nil
	}

	if err := s.validate.Struct(tier); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTier, err)
	}
	if !tier.IsLifetime() && tier.DurationDays == nil {
		return nil, fmt.Errorf("%w: duration_days is required", ErrInvalidTier)
	}
	if tier.Enabled && tier.Price <= 0 {
		return nil, fmt.Errorf("%w: enabled paid tiers need a positive price", ErrInvalidTier)
	}

	if err := s.repo.SaveTier(tier); err != nil {
		return nil, err
	}
	return tier, nil
}

// UpdateSettings applies an admin edit to the free-access settings.
func (s *CatalogService) UpdateSettings(req *dto.UpdateSettingsRequest) (*model.SiteSettings, error) {
	settings, err := s.repo.GetSettings()
	if err != nil {
		return nil, err
	}
	if req.FreeAccessFallbackEnabled != nil {
		settings.FreeAccessFallbackEnabled = *req.FreeAccessFallbackEnabled
	}
	if req.FreeAccessDurationMinutes != nil {
		settings.FreeAccessDurationMinutes = *req.FreeAccessDurationMinutes
	}
	if settings.FreeAccessFallbackEnabled && settings.FreeAccessDurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: free access needs a positive duration", ErrInvalidTier)
	}

	if err := s.repo.SaveSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}
