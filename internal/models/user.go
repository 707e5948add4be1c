package models

import (
	"time"
)

// User часть учётной записи, которая нужна таксономии и поиску.
// Регистрацию и пароли ведёт сервис аккаунтов.
type User struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Email             string    `db:"email" json:"email"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	Role              string    `db:"role" json:"role"`
	About             *string   `db:"about" json:"about,omitempty"`
	ExperienceYears   *int      `db:"experience_years" json:"experience_years,omitempty"`
	HourlyRate        *float64  `db:"hourly_rate" json:"hourly_rate,omitempty"`
	ServiceAreas      *string   `db:"service_areas" json:"service_areas,omitempty"`
	PreferredLocation *string   `db:"preferred_location" json:"preferred_location,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// WorkerSummary карточка исполнителя в результатах поиска.
type WorkerSummary struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Role            string    `db:"role" json:"role"`
	About           *string   `db:"about" json:"about,omitempty"`
	ExperienceYears *int      `db:"experience_years" json:"experience_years,omitempty"`
	HourlyRate      *float64  `db:"hourly_rate" json:"hourly_rate,omitempty"`
	ServiceAreas    *string   `db:"service_areas" json:"service_areas,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`

	Skills []SkillAssignment `db:"-" json:"skills"`
}
