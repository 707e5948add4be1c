package search

import (
	"fmt"
	"strings"
)

// SortField поле сортировки исполнителей.
type SortField string

const (
	SortByName       SortField = "name"
	SortByExperience SortField = "experience"
	SortByHourlyRate SortField = "hourlyRate"
	SortByCreatedAt  SortField = "createdAt"
)

// Direction направление сортировки.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var sortColumns = map[SortField]string{
	SortByName:       "u.name",
	SortByExperience: "u.experience_years",
	SortByHourlyRate: "u.hourly_rate",
	SortByCreatedAt:  "u.created_at",
}

// Синонимы, которые принимает API: camelCase, snake_case и короткие имена.
var sortAliases = map[string]SortField{
	"name":            SortByName,
	"experience":      SortByExperience,
	"experienceyears": SortByExperience,
	"hourlyrate":      SortByHourlyRate,
	"rate":            SortByHourlyRate,
	"createdat":       SortByCreatedAt,
	"created":         SortByCreatedAt,
	"joined":          SortByCreatedAt,
}

// ParseSortField разбирает поле сортировки. Пустая строка означает сортировку по имени.
func ParseSortField(s string) (SortField, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	if key == "" {
		return SortByName, nil
	}
	if f, ok := sortAliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("недопустимое поле сортировки %q", s)
}

// ParseDirection разбирает направление. Пустая строка означает asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return "", fmt.Errorf("недопустимое направление сортировки %q", s)
	}
}

// OrderBy строит ORDER BY без ключевого слова. Последним всегда идёт u.id, чтобы порядок
// был полным и страницы не пересекались.
func OrderBy(field SortField, dir Direction) string {
	col, ok := sortColumns[field]
	if !ok {
		col = sortColumns[SortByName]
	}
	d := "ASC"
	if dir == Desc {
		d = "DESC"
	}
	return fmt.Sprintf("%s %s NULLS LAST, u.id ASC", col, d)
}
