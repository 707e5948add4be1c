package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/kaamwala-backend/internal/dto"
	"github.com/ignatzorin/kaamwala-backend/internal/http/handlers/common"
	"github.com/ignatzorin/kaamwala-backend/internal/http/response"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/service"
	"github.com/ignatzorin/kaamwala-backend/internal/validation"
)

// CategoryHandler управляет категориями каталога.
type CategoryHandler struct {
	taxonomy TaxonomyService
}

// NewCategoryHandler создаёт хэндлер категорий.
func NewCategoryHandler(taxonomy TaxonomyService) *CategoryHandler {
	return &CategoryHandler{taxonomy: taxonomy}
}

// Create POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := validation.ValidateCategory(&req.Name, req.Description, req.Icon, true).Err(); err != nil {
		response.Error(c, err)
		return
	}

	category, err := h.taxonomy.CreateCategory(c.Request.Context(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, category)
}

// Update PUT /categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := validation.ValidateCategory(req.Name, req.Description, req.Icon, false).Err(); err != nil {
		response.Error(c, err)
		return
	}

	category, err := h.taxonomy.UpdateCategory(c.Request.Context(), c.Param("id"), models.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, category)
}

// Deactivate DELETE /categories/:id
// Категория не удаляется физически: она и все её активные подкатегории выключаются.
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	id := c.Param("id")
	res, err := h.taxonomy.DeactivateCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.CategoryDeactivationResponse{
		ID:                     id,
		IsActive:               false,
		Changed:                res.Changed,
		CascadedSubCategoryIDs: res.Cascaded,
	})
}

// Reactivate POST /categories/:id/reactivate
func (h *CategoryHandler) Reactivate(c *gin.Context) {
	id := c.Param("id")
	changed, err := h.taxonomy.ReactivateCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.StatusChangeResponse{ID: id, IsActive: true, Changed: changed})
}

// Get GET /categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.taxonomy.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, category)
}

// List GET /categories
// Режим выбирается по параметрам: name, q, active=true или постраничный список всех категорий.
func (h *CategoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if name, ok := c.GetQuery("name"); ok {
		category, err := h.taxonomy.GetCategoryByName(ctx, name)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, category)
		return
	}

	if q, ok := c.GetQuery("q"); ok {
		if err := validation.ValidateKeyword(q); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		categories, err := h.taxonomy.SearchCategories(ctx, q)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, categories)
		return
	}

	if c.Query("active") == "true" {
		categories, err := h.taxonomy.ListActiveCategories(ctx)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, categories)
		return
	}

	page, size := common.PageParams(c)
	result, err := h.taxonomy.ListCategories(ctx, page, size, c.DefaultQuery("sortBy", "name"), c.DefaultQuery("sortDir", "asc"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
