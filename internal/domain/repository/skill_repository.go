package repository

import (
	"context"

	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/search"
)

type SkillRepository interface {
	Create(ctx context.Context, s *models.SkillAssignment) error
	Update(ctx context.Context, s *models.SkillAssignment) error
	GetByID(ctx context.Context, id string) (*models.SkillAssignment, error)
	GetByUserAndSubCategory(ctx context.Context, userID, subCategoryID string) (*models.SkillAssignment, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]models.SkillAssignment, error)
	ListPrimaryByUser(ctx context.Context, userID string) ([]models.SkillAssignment, error)
	// ListBySubCategory с пустым proficiency возвращает все уровни.
	ListBySubCategory(ctx context.Context, subCategoryID, proficiency string) ([]models.SkillAssignment, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// WorkerSearchRepository выполняет собранный запрос поиска.
// Возвращает страницу и общее число подходящих пользователей.
type WorkerSearchRepository interface {
	Search(ctx context.Context, q search.Query) ([]models.WorkerSummary, int, error)
}
