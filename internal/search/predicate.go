package search

import (
	"fmt"
	"strings"
)

// Args накапливает параметры запроса и раздаёт позиционные плейсхолдеры Postgres.
type Args struct {
	values []any
}

// Bind добавляет значение и возвращает его плейсхолдер ($1, $2, ...).
func (a *Args) Bind(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

// Values возвращает копию накопленных параметров.
func (a *Args) Values() []any {
	out := make([]any, len(a.values))
	copy(out, a.values)
	return out
}

// Predicate одно условие фильтра над пользователем u.
type Predicate struct {
	Name string
	sql  func(a *Args) string
}

// SQL рендерит условие, регистрируя параметры в a.
func (p Predicate) SQL(a *Args) string {
	return p.sql(a)
}

// Where объединяет условия через AND. Пустой список даёт TRUE.
func Where(preds []Predicate, a *Args) string {
	if len(preds) == 0 {
		return "TRUE"
	}
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		parts = append(parts, "("+p.SQL(a)+")")
	}
	return strings.Join(parts, " AND ")
}

// RoleIs пользователь с ролью role.
func RoleIs(role string) Predicate {
	return Predicate{Name: "role", sql: func(a *Args) string {
		return "u.role = " + a.Bind(role)
	}}
}

// InCategory у пользователя есть хотя бы один навык в категории с таким именем.
// EXISTS не размножает строки, поэтому пользователь попадает в выборку один раз.
func InCategory(name string) Predicate {
	return Predicate{Name: "category", sql: func(a *Args) string {
		return `EXISTS (SELECT 1 FROM user_skills us
			JOIN sub_categories sc ON sc.id = us.sub_category_id
			JOIN categories c ON c.id = sc.category_id
			WHERE us.user_id = u.id AND LOWER(c.name) = LOWER(` + a.Bind(name) + `))`
	}}
}

// HasSkill у пользователя есть навык (подкатегория) с таким именем.
func HasSkill(name string) Predicate {
	return Predicate{Name: "skill", sql: func(a *Args) string {
		return `EXISTS (SELECT 1 FROM user_skills us
			JOIN sub_categories sc ON sc.id = us.sub_category_id
			WHERE us.user_id = u.id AND LOWER(sc.name) = LOWER(` + a.Bind(name) + `))`
	}}
}

// ServesLocation подстрока location входит в service_areas без учёта регистра.
func ServesLocation(location string) Predicate {
	return Predicate{Name: "location", sql: func(a *Args) string {
		return `u.service_areas ILIKE ` + a.Bind(ContainsPattern(location)) + ` ESCAPE '\'`
	}}
}

// RateAtLeast общая ставка пользователя не ниже min.
func RateAtLeast(min float64) Predicate {
	return Predicate{Name: "min_rate", sql: func(a *Args) string {
		return "u.hourly_rate >= " + a.Bind(min)
	}}
}

// RateAtMost общая ставка пользователя не выше max.
func RateAtMost(max float64) Predicate {
	return Predicate{Name: "max_rate", sql: func(a *Args) string {
		return "u.hourly_rate <= " + a.Bind(max)
	}}
}

// ExperienceAtLeast общий опыт пользователя не меньше years.
func ExperienceAtLeast(years int) Predicate {
	return Predicate{Name: "min_experience", sql: func(a *Args) string {
		return "u.experience_years >= " + a.Bind(years)
	}}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern шаблон ILIKE "содержит s" с экранированными %, _ и \.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
