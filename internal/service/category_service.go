package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sevalink/marketplace_server/internal/model"
	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/repository"
)

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
}

func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List returns categories in display order. Inactive ones are admin-only.
func (s *CategoryService) List(includeInactive bool) ([]*model.Category, error) {
	return s.categoryRepo.List(!includeInactive)
}

func (s *CategoryService) GetBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if !category.IsActive {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *CategoryService) Create(req *dto.CategoryRequest) (*model.Category, error) {
	slug := normalizeSlug(req.Slug)
	exists, err := s.categoryRepo.ExistsBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategorySlugExists
	}

	category := &model.Category{IsActive: true}
	applyCategory(category, req, slug)
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(id int64, req *dto.CategoryRequest) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	slug := normalizeSlug(req.Slug)
	if slug != category.Slug {
		exists, err := s.categoryRepo.ExistsBySlug(slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCategorySlugExists
		}
	}

	applyCategory(category, req, slug)
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category that no provider uses.
func (s *CategoryService) Delete(id int64) error {
	if _, err := s.categoryRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	count, err := s.categoryRepo.CountProviders(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.categoryRepo.Delete(id)
}

func applyCategory(c *model.Category, req *dto.CategoryRequest, slug string) {
	c.Name = strings.TrimSpace(req.Name)
	c.Slug = slug
	c.Description = req.Description
	c.IconURL = req.IconURL
	c.SEOTitle = req.SEOTitle
	c.SEODescription = req.SEODescription
	c.SortOrder = req.SortOrder
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
}

// normalizeSlug lowercases and joins words with hyphens, e.g. "Home Tutors" -> "home-tutors".
func normalizeSlug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
