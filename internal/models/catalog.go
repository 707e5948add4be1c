package models

import (
	"time"
)

// Category верхний уровень таксономии навыков.
type Category struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Icon        *string   `db:"icon" json:"icon,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Заполняется только в ответах с деталями категории.
	SubCategories []SubCategory `db:"-" json:"sub_categories,omitempty"`
}

// SubCategory конкретный навык внутри категории. Категорию сменить нельзя.
type SubCategory struct {
	ID           string    `db:"id" json:"id"`
	CategoryID   string    `db:"category_id" json:"category_id"`
	CategoryName string    `db:"category_name" json:"category_name,omitempty"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CategoryUpdate набор изменяемых полей категории. nil означает "не менять".
type CategoryUpdate struct {
	Name        *string
	Description *string
	Icon        *string
}

// SubCategoryUpdate набор изменяемых полей подкатегории.
type SubCategoryUpdate struct {
	Name        *string
	Description *string
}
