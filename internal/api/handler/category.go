package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sevalink/marketplace_server/internal/model/dto"
	"github.com/sevalink/marketplace_server/internal/pkg/response"
	"github.com/sevalink/marketplace_server/internal/service"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List returns active categories.
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.categoryService.List(false)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, list)
}

// Get returns one active category with its SEO copy.
// GET /api/v1/categories/:slug
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.categoryService.GetBySlug(c.Param("slug"))
	if err != nil {
		categoryError(c, err)
		return
	}
	response.Success(c, category)
}

// AdminList returns all categories including inactive ones.
// GET /api/v1/admin/categories
func (h *CategoryHandler) AdminList(c *gin.Context) {
	list, err := h.categoryService.List(true)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, list)
}

// Create POST /api/v1/admin/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	category, err := h.categoryService.Create(&req)
	if err != nil {
		categoryError(c, err)
		return
	}
	response.SuccessWithMessage(c, "created", category)
}

// Update PUT /api/v1/admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	category, err := h.categoryService.Update(id, &req)
	if err != nil {
		categoryError(c, err)
		return
	}
	response.SuccessWithMessage(c, "updated", category)
}

// Delete DELETE /api/v1/admin/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(id); err != nil {
		categoryError(c, err)
		return
	}
	response.SuccessWithMessage(c, "deleted", nil)
}

func categoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrCategorySlugExists):
		response.DuplicateError(c, err.Error())
	case errors.Is(err, service.ErrCategoryInUse):
		response.ParamError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
