// Package search описывает фильтр поиска исполнителей и превращает его в набор независимых условий.
package search

import (
	"strings"

	"github.com/ignatzorin/kaamwala-backend/internal/models"
)

// Filter критерии поиска. Пустая строка или nil означает "любое значение".
type Filter struct {
	Role          string
	Category      string
	Skill         string
	Location      string
	MinRate       *float64
	MaxRate       *float64
	MinExperience *int

	Page      int
	Size      int
	SortBy    SortField
	Direction Direction
}

// Normalize подставляет значения по умолчанию и ограничивает размер страницы.
func (f Filter) Normalize(defaultSize, maxSize int) Filter {
	f.Role = strings.TrimSpace(f.Role)
	if f.Role == "" {
		f.Role = models.RoleWorker
	}
	f.Category = strings.TrimSpace(f.Category)
	f.Skill = strings.TrimSpace(f.Skill)
	f.Location = strings.TrimSpace(f.Location)

	if f.Size <= 0 {
		f.Size = defaultSize
	}
	if maxSize > 0 && f.Size > maxSize {
		f.Size = maxSize
	}
	f.Page = models.ClampPage(f.Page, f.Size)
	if _, ok := sortColumns[f.SortBy]; !ok {
		f.SortBy = SortByName
	}
	if f.Direction != Desc {
		f.Direction = Asc
	}
	return f
}

// Predicates строит условия для заполненных полей фильтра. Роль присутствует всегда.
func Predicates(f Filter) []Predicate {
	preds := []Predicate{RoleIs(f.Role)}
	if f.Category != "" {
		preds = append(preds, InCategory(f.Category))
	}
	if f.Skill != "" {
		preds = append(preds, HasSkill(f.Skill))
	}
	if f.Location != "" {
		preds = append(preds, ServesLocation(f.Location))
	}
	if f.MinRate != nil {
		preds = append(preds, RateAtLeast(*f.MinRate))
	}
	if f.MaxRate != nil {
		preds = append(preds, RateAtMost(*f.MaxRate))
	}
	if f.MinExperience != nil {
		preds = append(preds, ExperienceAtLeast(*f.MinExperience))
	}
	return preds
}

// Query готовый к выполнению запрос: условия, порядок и окно.
type Query struct {
	Predicates []Predicate
	SortBy     SortField
	Direction  Direction
	Limit      int
	Offset     int
}

// NewQuery строит запрос из нормализованного фильтра.
func NewQuery(f Filter) Query {
	return Query{
		Predicates: Predicates(f),
		SortBy:     f.SortBy,
		Direction:  f.Direction,
		Limit:      f.Size,
		Offset:     f.Page * f.Size,
	}
}

// Where рендерит условия запроса.
func (q Query) Where(a *Args) string {
	return Where(q.Predicates, a)
}

// OrderBy рендерит порядок запроса.
func (q Query) OrderBy() string {
	return OrderBy(q.SortBy, q.Direction)
}
