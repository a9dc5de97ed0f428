package repository

import (
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/internal/model"
)

const settingsRowID = 1

// CatalogRepository stores access tiers and the global settings row.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListTiers returns every stored tier in display order.
func (r *CatalogRepository) ListTiers() ([]model.AccessTier, error) {
	var tiers []model.AccessTier
	err := r.db.Order("sort_order ASC, price ASC").Find(&tiers).Error
	return tiers, err
}

func (r *CatalogRepository) GetTier(id string) (*model.AccessTier, error) {
	var tier model.AccessTier
	err := r.db.Where("id = ?", id).First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *CatalogRepository) SaveTier(tier *model.AccessTier) error {
	return r.db.Save(tier).Error
}

// GetSettings returns the settings row. A missing row reads as fallback off.
func (r *CatalogRepository) GetSettings() (*model.SiteSettings, error) {
	var settings model.SiteSettings
	err := r.db.Where("id = ?", settingsRowID).Limit(1).Find(&settings).Error
	if err != nil {
		return nil, err
	}
	settings.ID = settingsRowID
	return &settings, nil
}

func (r *CatalogRepository) SaveSettings(settings *model.SiteSettings) error {
	settings.ID = settingsRowID
	return r.db.Save(settings).Error
}
