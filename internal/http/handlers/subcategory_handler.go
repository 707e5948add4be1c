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

// SubCategoryHandler управляет подкатегориями: вложенные маршруты категории и плоские /subcategories.
type SubCategoryHandler struct {
	taxonomy TaxonomyService
	skills   SkillService
}

func NewSubCategoryHandler(taxonomy TaxonomyService, skills SkillService) *SubCategoryHandler {
	return &SubCategoryHandler{taxonomy: taxonomy, skills: skills}
}

// Create POST /categories/:id/subcategories
func (h *SubCategoryHandler) Create(c *gin.Context) {
	var req dto.CreateSubCategoryRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := validation.ValidateSubCategory(&req.Name, req.Description, true).Err(); err != nil {
		response.Error(c, err)
		return
	}

	sub, err := h.taxonomy.CreateSubCategory(c.Request.Context(), c.Param("id"), service.SubCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, sub)
}

// ListInCategory GET /categories/:id/subcategories
func (h *SubCategoryHandler) ListInCategory(c *gin.Context) {
	subs, err := h.taxonomy.ListSubCategories(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, subs)
}

// GetInCategory GET /categories/:id/subcategories/:subId
func (h *SubCategoryHandler) GetInCategory(c *gin.Context) {
	sub, err := h.taxonomy.GetSubCategoryInCategory(c.Request.Context(), c.Param("id"), c.Param("subId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, sub)
}

// Update PUT /categories/:id/subcategories/:subId
func (h *SubCategoryHandler) Update(c *gin.Context) {
	var req dto.UpdateSubCategoryRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := validation.ValidateSubCategory(req.Name, req.Description, false).Err(); err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.taxonomy.GetSubCategoryInCategory(ctx, c.Param("id"), c.Param("subId")); err != nil {
		response.Error(c, err)
		return
	}

	sub, err := h.taxonomy.UpdateSubCategory(ctx, c.Param("subId"), models.SubCategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, sub)
}

// Deactivate DELETE /categories/:id/subcategories/:subId
// Выключается только подкатегория, родитель и соседи не меняются.
func (h *SubCategoryHandler) Deactivate(c *gin.Context) {
	ctx := c.Request.Context()
	subID := c.Param("subId")
	if _, err := h.taxonomy.GetSubCategoryInCategory(ctx, c.Param("id"), subID); err != nil {
		response.Error(c, err)
		return
	}

	changed, err := h.taxonomy.DeactivateSubCategory(ctx, subID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.StatusChangeResponse{ID: subID, IsActive: false, Changed: changed})
}

// Reactivate POST /categories/:id/subcategories/:subId/reactivate
func (h *SubCategoryHandler) Reactivate(c *gin.Context) {
	ctx := c.Request.Context()
	subID := c.Param("subId")
	if _, err := h.taxonomy.GetSubCategoryInCategory(ctx, c.Param("id"), subID); err != nil {
		response.Error(c, err)
		return
	}

	changed, err := h.taxonomy.ReactivateSubCategory(ctx, subID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.StatusChangeResponse{ID: subID, IsActive: true, Changed: changed})
}

// List GET /subcategories?active=true или ?q=
func (h *SubCategoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if q, ok := c.GetQuery("q"); ok {
		if err := validation.ValidateKeyword(q); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		subs, err := h.taxonomy.SearchSubCategories(ctx, q)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, subs)
		return
	}

	// Плоский список отдаёт только активные подкатегории, active=true допускается для совместимости.
	subs, err := h.taxonomy.ListActiveSubCategories(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, subs)
}

// Get GET /subcategories/:id
func (h *SubCategoryHandler) Get(c *gin.Context) {
	sub, err := h.taxonomy.GetSubCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, sub)
}

// Workers GET /subcategories/:id/workers?proficiency=
func (h *SubCategoryHandler) Workers(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.taxonomy.GetSubCategory(ctx, id); err != nil {
		response.Error(c, err)
		return
	}

	skills, err := h.skills.ListForSkillWithProficiency(ctx, id, c.Query("proficiency"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, skills)
}
