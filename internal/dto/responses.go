package dto

import (
	"github.com/ignatzorin/kaamwala-backend/internal/models"
)

// StatusChangeResponse результат включения или выключения сущности.
type StatusChangeResponse struct {
	ID       string `json:"id"`
	IsActive bool   `json:"is_active"`
	// Changed false, если сущность уже была в нужном состоянии.
	Changed bool `json:"changed"`
}

// CategoryDeactivationResponse ответ DELETE /categories/:id.
type CategoryDeactivationResponse struct {
	ID                     string   `json:"id"`
	IsActive               bool     `json:"is_active"`
	Changed                bool     `json:"changed"`
	CascadedSubCategoryIDs []string `json:"cascaded_sub_category_ids"`
}

// SkillListResponse навыки пользователя.
type SkillListResponse struct {
	UserID string                   `json:"user_id"`
	Skills []models.SkillAssignment `json:"skills"`
}

// IconUploadResponse ответ на загрузку иконки категории.
type IconUploadResponse struct {
	Category *models.Category `json:"category"`
	URL      string           `json:"url"`
}
