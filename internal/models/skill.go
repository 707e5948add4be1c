package models

import (
	"time"
)

// SkillAssignment связь исполнителя с подкатегорией. Пара (user, sub_category) уникальна.
type SkillAssignment struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	SubCategoryID    string    `db:"sub_category_id" json:"sub_category_id"`
	ProficiencyLevel string    `db:"proficiency_level" json:"proficiency_level"`
	ExperienceYears  int       `db:"experience_years" json:"experience_years"`
	HourlyRate       *float64  `db:"hourly_rate" json:"hourly_rate,omitempty"`
	IsPrimary        bool      `db:"is_primary" json:"is_primary"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	// Денормализованные поля для чтения, в user_skills не хранятся.
	SubCategoryName string `db:"sub_category_name" json:"sub_category_name,omitempty"`
	CategoryID      string `db:"category_id" json:"category_id,omitempty"`
	CategoryName    string `db:"category_name" json:"category_name,omitempty"`
}

// SkillAssignmentUpdate изменяемые атрибуты навыка. Пользователь и подкатегория не меняются.
type SkillAssignmentUpdate struct {
	ProficiencyLevel *string
	ExperienceYears  *int
	HourlyRate       *float64
	IsPrimary        *bool
}
