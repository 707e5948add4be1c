package dto

// CreateCategoryRequest тело POST /categories.
type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

// UpdateCategoryRequest тело PUT /categories/:id. Отсутствующие поля не меняются.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

type CreateSubCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UpdateSubCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AssignSkillRequest тело POST /profile/skills.
type AssignSkillRequest struct {
	SubCategoryID    string   `json:"sub_category_id"`
	ProficiencyLevel string   `json:"proficiency_level"`
	ExperienceYears  *int     `json:"experience_years"`
	HourlyRate       *float64 `json:"hourly_rate"`
	IsPrimary        bool     `json:"is_primary"`
}

// UpdateSkillRequest тело PUT /profile/skills/:id.
type UpdateSkillRequest struct {
	ProficiencyLevel *string  `json:"proficiency_level"`
	ExperienceYears  *int     `json:"experience_years"`
	HourlyRate       *float64 `json:"hourly_rate"`
	IsPrimary        *bool    `json:"is_primary"`
}

// SeedRequest параметры генерации демо-данных.
type SeedRequest struct {
	NumWorkers int `json:"num_workers" form:"num_workers"`
}
