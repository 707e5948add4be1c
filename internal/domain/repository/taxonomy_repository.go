package repository

import (
	"context"
	"time"

	"github.com/ignatzorin/kaamwala-backend/internal/models"
)

// Реализации возвращают common.ErrNotFound при отсутствии записи
// и common.ErrAlreadyExists при нарушении уникальности имени.

type CategoryRepository interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	// CategoryNameTaken проверяет имя без учёта регистра среди всех категорий кроме excludeID.
	CategoryNameTaken(ctx context.Context, name, excludeID string) (bool, error)
	ListActiveCategories(ctx context.Context) ([]models.Category, error)
	SearchCategories(ctx context.Context, keyword string) ([]models.Category, error)
	ListCategories(ctx context.Context, p CategoryPageRequest) ([]models.Category, int, error)
}

type SubCategoryRepository interface {
	CreateSubCategory(ctx context.Context, s *models.SubCategory) error
	UpdateSubCategory(ctx context.Context, s *models.SubCategory) error
	GetSubCategoryByID(ctx context.Context, id string) (*models.SubCategory, error)
	// SubCategoryNameTaken проверяет имя внутри одной категории.
	SubCategoryNameTaken(ctx context.Context, categoryID, name, excludeID string) (bool, error)
	ListActiveSubCategories(ctx context.Context, categoryID string) ([]models.SubCategory, error)
	// ListActiveSubCategoriesFor загружает активные подкатегории сразу для нескольких категорий.
	ListActiveSubCategoriesFor(ctx context.Context, categoryIDs []string) ([]models.SubCategory, error)
	ListAllActiveSubCategories(ctx context.Context) ([]models.SubCategory, error)
	SearchSubCategories(ctx context.Context, keyword string) ([]models.SubCategory, error)
}

// TaxonomyTx операции смены статуса внутри одной транзакции.
type TaxonomyTx interface {
	// LockCategory читает категорию с блокировкой строки до конца транзакции.
	LockCategory(ctx context.Context, id string) (*models.Category, error)
	LockSubCategory(ctx context.Context, id string) (*models.SubCategory, error)
	SetCategoryActive(ctx context.Context, id string, active bool, at time.Time) error
	SetSubCategoryActive(ctx context.Context, id string, active bool, at time.Time) error
	ActiveSubCategoryIDs(ctx context.Context, categoryID string) ([]string, error)
}

// TaxonomyTxRunner открывает транзакцию. Ошибка из fn откатывает все изменения.
type TaxonomyTxRunner interface {
	WithinTx(ctx context.Context, fn func(tx TaxonomyTx) error) error
}

type TaxonomyRepository interface {
	CategoryRepository
	SubCategoryRepository
	TaxonomyTxRunner
}

// CategoryPageRequest постраничный список всех категорий.
type CategoryPageRequest struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}
