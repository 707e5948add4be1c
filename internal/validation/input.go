package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
)

// Константы валидации
const (
	MinCategoryNameLength        = 2
	MaxCategoryNameLength        = 50
	MaxCategoryDescriptionLength = 500
	MinSubCategoryNameLength     = 2
	MaxSubCategoryNameLength     = 50
	MaxSubCategoryDescLength     = 300
	MaxIconRefLength             = 255
	MinSkillExperience           = 0
	MaxSkillExperience           = 50
	MinSkillHourlyRate           = 50.0
	MaxSkillHourlyRate           = 10000.0
	MinUserHourlyRate            = 50.0
	MaxUserHourlyRate            = 5000.0
	MaxLocationLength            = 100
	MaxKeywordLength             = 100
	MaxIDLength                  = 64
)

var idRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Errors собирает ошибки по полям. Пустой набор означает, что всё в порядке.
type Errors map[string]string

// Add запоминает первую ошибку поля.
func (e Errors) Add(field string, err error) {
	if err == nil {
		return
	}
	if _, ok := e[field]; !ok {
		e[field] = err.Error()
	}
}

// Err возвращает ошибку валидации с картой полей или nil.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return apperror.Validation(e)
}

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateID проверяет идентификатор из пути: uuid или фиксированный id каталога.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("идентификатор обязателен")
	}
	if len(id) > MaxIDLength || !idRegex.MatchString(id) {
		return fmt.Errorf("некорректный идентификатор")
	}
	return nil
}

// ValidateCategoryName проверяет название категории.
func ValidateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("название категории обязательно")
	}
	return ValidateLength("название категории", name, MinCategoryNameLength, MaxCategoryNameLength)
}

// ValidateSubCategoryName проверяет название подкатегории.
func ValidateSubCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("название подкатегории обязательно")
	}
	return ValidateLength("название подкатегории", name, MinSubCategoryNameLength, MaxSubCategoryNameLength)
}

func validateOptionalText(fieldName string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return ValidateLength(fieldName, strings.TrimSpace(*value), 0, max)
}

// ValidateCategory проверяет поля категории. На создании имя обязательно,
// на обновлении проверяются только переданные поля.
func ValidateCategory(name *string, description, icon *string, create bool) Errors {
	errs := Errors{}
	if name != nil || create {
		n := ""
		if name != nil {
			n = *name
		}
		errs.Add("name", ValidateCategoryName(n))
	}
	errs.Add("description", validateOptionalText("описание категории", description, MaxCategoryDescriptionLength))
	errs.Add("icon", validateOptionalText("иконка", icon, MaxIconRefLength))
	return errs
}

// ValidateSubCategory проверяет поля подкатегории.
func ValidateSubCategory(name *string, description *string, create bool) Errors {
	errs := Errors{}
	if name != nil || create {
		n := ""
		if name != nil {
			n = *name
		}
		errs.Add("name", ValidateSubCategoryName(n))
	}
	errs.Add("description", validateOptionalText("описание подкатегории", description, MaxSubCategoryDescLength))
	return errs
}

// ValidateProficiency проверяет уровень владения навыком.
func ValidateProficiency(level string) error {
	if level == "" {
		return fmt.Errorf("уровень владения обязателен")
	}
	if !models.IsValidProficiency(level) {
		return fmt.Errorf("уровень владения должен быть одним из BEGINNER, INTERMEDIATE, ADVANCED, EXPERT")
	}
	return nil
}

// ValidateSkillExperience проверяет опыт в годах для навыка.
func ValidateSkillExperience(years *int) error {
	if years == nil {
		return nil
	}
	if *years < MinSkillExperience || *years > MaxSkillExperience {
		return fmt.Errorf("опыт должен быть от %d до %d лет", MinSkillExperience, MaxSkillExperience)
	}
	return nil
}

// ValidateSkillHourlyRate проверяет ставку за навык.
func ValidateSkillHourlyRate(rate *float64) error {
	if rate == nil {
		return nil
	}
	if *rate < MinSkillHourlyRate || *rate > MaxSkillHourlyRate {
		return fmt.Errorf("ставка должна быть от %.0f до %.0f", MinSkillHourlyRate, MaxSkillHourlyRate)
	}
	return nil
}

// ValidateSkill проверяет назначение навыка. На создании обязательны подкатегория и уровень.
func ValidateSkill(subCategoryID string, proficiency *string, experience *int, rate *float64, create bool) Errors {
	errs := Errors{}
	if create {
		errs.Add("sub_category_id", ValidateNonEmpty("подкатегория", subCategoryID))
	}
	if proficiency != nil || create {
		p := ""
		if proficiency != nil {
			p = *proficiency
		}
		errs.Add("proficiency_level", ValidateProficiency(p))
	}
	errs.Add("experience_years", ValidateSkillExperience(experience))
	errs.Add("hourly_rate", ValidateSkillHourlyRate(rate))
	return errs
}

// ValidateRole проверяет роль пользователя.
func ValidateRole(role string) error {
	if _, ok := models.ValidRoles[role]; !ok {
		return fmt.Errorf("роль должна быть worker или customer")
	}
	return nil
}

// ValidateSearch проверяет параметры поиска исполнителей.
// minRate больше maxRate не ошибка: такой запрос просто ничего не найдёт.
func ValidateSearch(category, skill, location string, minRate, maxRate *float64, minExperience *int) Errors {
	errs := Errors{}
	errs.Add("category", ValidateLength("категория", category, 0, MaxCategoryNameLength))
	errs.Add("skill", ValidateLength("навык", skill, 0, MaxSubCategoryNameLength))
	errs.Add("location", ValidateLength("местоположение", location, 0, MaxLocationLength))
	if minRate != nil && *minRate < 0 {
		errs.Add("minRate", fmt.Errorf("минимальная ставка не может быть отрицательной"))
	}
	if maxRate != nil && *maxRate < 0 {
		errs.Add("maxRate", fmt.Errorf("максимальная ставка не может быть отрицательной"))
	}
	if minExperience != nil && *minExperience < 0 {
		errs.Add("minExperience", fmt.Errorf("опыт не может быть отрицательным"))
	}
	return errs
}

// ValidateKeyword проверяет строку поиска по каталогу.
func ValidateKeyword(keyword string) error {
	return ValidateLength("строка поиска", strings.TrimSpace(keyword), 0, MaxKeywordLength)
}
