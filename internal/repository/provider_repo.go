package repository

import (
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/internal/model"
)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// ProviderFilter narrows provider listings. Zero values are ignored.
type ProviderFilter struct {
	CategoryID int64
	City       string
	Area       string
	Status     string
}

func (r *ProviderRepository) Create(provider *model.Provider) error {
	return r.db.Create(provider).Error
}

func (r *ProviderRepository) GetByID(id int64) (*model.Provider, error) {
	var provider model.Provider
	err := r.db.Preload("Category").Where("id = ?", id).First(&provider).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *ProviderRepository) GetByUserID(userID int64) (*model.Provider, error) {
	var provider model.Provider
	err := r.db.Preload("Category").Where("user_id = ?", userID).First(&provider).Error
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *ProviderRepository) Update(provider *model.Provider) error {
	return r.db.Omit("Category").Save(provider).Error
}

func (r *ProviderRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Provider{}).Where("id = ?", id).Updates(fields).Error
}

// List returns a page of providers matching filter, best rated first.
func (r *ProviderRepository) List(filter ProviderFilter, page, pageSize int) ([]*model.Provider, int64, error) {
	var providers []*model.Provider
	var total int64

	query := r.db.Model(&model.Provider{})
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Area != "" {
		query = query.Where("area = ?", filter.Area)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Category").
		Order("rating_avg DESC, rating_count DESC, id ASC").
		Offset(offset).Limit(pageSize).
		Find(&providers).Error
	if err != nil {
		return nil, 0, err
	}

	return providers, total, nil
}

// RefreshRating recomputes the rating summary from stored reviews.
func (r *ProviderRepository) RefreshRating(id int64) error {
	var summary struct {
		Avg   float64
		Count int
	}
	err := r.db.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("provider_id = ?", id).
		Scan(&summary).Error
	if err != nil {
		return err
	}

	return r.db.Model(&model.Provider{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating_avg":   summary.Avg,
		"rating_count": summary.Count,
	}).Error
}
