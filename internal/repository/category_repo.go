package repository

import (
	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *CategoryRepository) GetByID(id int64) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) GetBySlug(slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns categories in display order. activeOnly hides disabled ones.
func (r *CategoryRepository) List(activeOnly bool) ([]*model.Category, error) {
	var categories []*model.Category
	query := r.db.Model(&model.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Update(category *model.Category) error {
	return r.db.Save(category).Error
}

func (r *CategoryRepository) Delete(id int64) error {
	return r.db.Delete(&model.Category{}, id).Error
}

func (r *CategoryRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// CountProviders counts providers filed under the category.
func (r *CategoryRepository) CountProviders(id int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Provider{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}
