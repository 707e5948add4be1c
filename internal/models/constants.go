package models

// Роли пользователей
const (
	RoleWorker   = "worker"
	RoleCustomer = "customer"
)

// RoleAdmin приходит только в клейме токена, в таблице users его нет.
const RoleAdmin = "admin"

// Уровни владения навыком по возрастанию
const (
	ProficiencyBeginner     = "BEGINNER"
	ProficiencyIntermediate = "INTERMEDIATE"
	ProficiencyAdvanced     = "ADVANCED"
	ProficiencyExpert       = "EXPERT"
)

// ValidRoles список валидных ролей пользователей
var ValidRoles = map[string]struct{}{
	RoleWorker:   {},
	RoleCustomer: {},
}

// ProficiencyRank порядок уровней, используется для сравнения.
var ProficiencyRank = map[string]int{
	ProficiencyBeginner:     1,
	ProficiencyIntermediate: 2,
	ProficiencyAdvanced:     3,
	ProficiencyExpert:       4,
}

// SuggestedProficiency возвращает рекомендуемый уровень по годам опыта: 0-2, 2-5, 5-10, 10+.
// Носит справочный характер, при назначении навыка уровень не проверяется.
func SuggestedProficiency(years int) string {
	switch {
	case years >= 10:
		return ProficiencyExpert
	case years >= 5:
		return ProficiencyAdvanced
	case years >= 2:
		return ProficiencyIntermediate
	default:
		return ProficiencyBeginner
	}
}

// IsValidProficiency проверяет уровень владения.
func IsValidProficiency(level string) bool {
	_, ok := ProficiencyRank[level]
	return ok
}
