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

// SkillHandler навыки текущего пользователя (/profile/skills) и публичный просмотр навыков.
type SkillHandler struct {
	skills SkillService
}

func NewSkillHandler(skills SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// ListMine GET /profile/skills
func (h *SkillHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	skills, err := h.skills.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.SkillListResponse{UserID: userID, Skills: skills})
}

// ListPrimary GET /profile/skills/primary
func (h *SkillHandler) ListPrimary(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	skills, err := h.skills.ListPrimaryForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.SkillListResponse{UserID: userID, Skills: skills})
}

// Assign POST /profile/skills
func (h *SkillHandler) Assign(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	var req dto.AssignSkillRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := validation.ValidateSkill(req.SubCategoryID, &req.ProficiencyLevel, req.ExperienceYears, req.HourlyRate, true).Err(); err != nil {
		response.Error(c, err)
		return
	}

	in := service.AssignInput{
		UserID:           userID,
		SubCategoryID:    req.SubCategoryID,
		ProficiencyLevel: req.ProficiencyLevel,
		HourlyRate:       req.HourlyRate,
		IsPrimary:        req.IsPrimary,
	}
	if req.ExperienceYears != nil {
		in.ExperienceYears = *req.ExperienceYears
	}

	skill, err := h.skills.Assign(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, skill)
}

// Update PUT /profile/skills/:id
func (h *SkillHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	var req dto.UpdateSkillRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := validation.ValidateSkill("", req.ProficiencyLevel, req.ExperienceYears, req.HourlyRate, false).Err(); err != nil {
		response.Error(c, err)
		return
	}

	skill, err := h.skills.UpdateOwned(c.Request.Context(), userID, c.Param("id"), models.SkillAssignmentUpdate{
		ProficiencyLevel: req.ProficiencyLevel,
		ExperienceYears:  req.ExperienceYears,
		HourlyRate:       req.HourlyRate,
		IsPrimary:        req.IsPrimary,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, skill)
}

// Unassign DELETE /profile/skills/:subCategoryId
func (h *SkillHandler) Unassign(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	subCategoryID := c.Param("subCategoryId")
	if err := h.skills.Unassign(c.Request.Context(), userID, subCategoryID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"user_id": userID, "sub_category_id": subCategoryID})
}

// ListForUser GET /users/:id/skills
func (h *SkillHandler) ListForUser(c *gin.Context) {
	userID := c.Param("id")
	skills, err := h.skills.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.SkillListResponse{UserID: userID, Skills: skills})
}
