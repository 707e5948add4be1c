package handlers

import (
	"context"

	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/search"
	"github.com/ignatzorin/kaamwala-backend/internal/service"
)

// TaxonomyService операции над каталогом, которые нужны хэндлерам. Реализуется *service.TaxonomyService.
type TaxonomyService interface {
	CreateCategory(ctx context.Context, in service.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, upd models.CategoryUpdate) (*models.Category, error)
	SetCategoryIcon(ctx context.Context, id, iconRef string) (*models.Category, error)
	DeactivateCategory(ctx context.Context, id string) (service.DeactivationResult, error)
	ReactivateCategory(ctx context.Context, id string) (bool, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListActiveCategories(ctx context.Context) ([]models.Category, error)
	SearchCategories(ctx context.Context, keyword string) ([]models.Category, error)
	ListCategories(ctx context.Context, page, size int, sortBy, sortDir string) (models.Page[models.Category], error)

	CreateSubCategory(ctx context.Context, categoryID string, in service.SubCategoryInput) (*models.SubCategory, error)
	UpdateSubCategory(ctx context.Context, id string, upd models.SubCategoryUpdate) (*models.SubCategory, error)
	DeactivateSubCategory(ctx context.Context, id string) (bool, error)
	ReactivateSubCategory(ctx context.Context, id string) (bool, error)
	GetSubCategory(ctx context.Context, id string) (*models.SubCategory, error)
	GetSubCategoryInCategory(ctx context.Context, categoryID, id string) (*models.SubCategory, error)
	ListSubCategories(ctx context.Context, categoryID string) ([]models.SubCategory, error)
	ListActiveSubCategories(ctx context.Context) ([]models.SubCategory, error)
	SearchSubCategories(ctx context.Context, keyword string) ([]models.SubCategory, error)
}

// SkillService назначение навыков исполнителям.
type SkillService interface {
	Assign(ctx context.Context, in service.AssignInput) (*models.SkillAssignment, error)
	UpdateOwned(ctx context.Context, userID, id string, upd models.SkillAssignmentUpdate) (*models.SkillAssignment, error)
	Unassign(ctx context.Context, userID, subCategoryID string) error
	ListForUser(ctx context.Context, userID string) ([]models.SkillAssignment, error)
	ListPrimaryForUser(ctx context.Context, userID string) ([]models.SkillAssignment, error)
	ListForSkillWithProficiency(ctx context.Context, subCategoryID, proficiency string) ([]models.SkillAssignment, error)
}

// WorkerSearchService поиск исполнителей.
type WorkerSearchService interface {
	Search(ctx context.Context, f search.Filter) (models.Page[models.WorkerSummary], error)
	ByRole(ctx context.Context, role string, page, size int) (models.Page[models.WorkerSummary], error)
	ByCategory(ctx context.Context, category string, page, size int) (models.Page[models.WorkerSummary], error)
	BySkill(ctx context.Context, skill string, page, size int) (models.Page[models.WorkerSummary], error)
	ByLocation(ctx context.Context, location string, page, size int) (models.Page[models.WorkerSummary], error)
	TopRatedByExperience(ctx context.Context, page, size int) (models.Page[models.WorkerSummary], error)
	RecentlyJoined(ctx context.Context, page, size int) (models.Page[models.WorkerSummary], error)
}

var (
	_ TaxonomyService     = (*service.TaxonomyService)(nil)
	_ SkillService        = (*service.SkillService)(nil)
	_ WorkerSearchService = (*service.WorkerSearchService)(nil)
)
