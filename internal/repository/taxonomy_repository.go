package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	domain "github.com/ignatzorin/kaamwala-backend/internal/domain/repository"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/repository/common"
	"github.com/ignatzorin/kaamwala-backend/internal/search"
)

const (
	categoryColumns    = `id, name, description, icon, is_active, created_at, updated_at`
	subCategorySelect  = `SELECT sc.id, sc.category_id, c.name AS category_name, sc.name, sc.description, sc.is_active, sc.created_at, sc.updated_at
		FROM sub_categories sc JOIN categories c ON c.id = sc.category_id`
	subCategoryColumns = `id, category_id, name, description, is_active, created_at, updated_at`
)

// Разрешённые поля сортировки для постраничного списка категорий.
var categorySortColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"updatedAt":  "updated_at",
	"id":         "id",
}

// TaxonomyRepository хранит категории и подкатегории в Postgres.
type TaxonomyRepository struct {
	db *sqlx.DB
}

func NewTaxonomyRepository(db *sqlx.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

var _ domain.TaxonomyRepository = (*TaxonomyRepository)(nil)

// CreateCategory вставляет категорию. Уникальный индекс по LOWER(name) страхует от гонок.
func (r *TaxonomyRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.Name, c.Description, c.Icon, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("taxonomy repository: create category: %w", err)
	}
	return nil
}

// UpdateCategory сохраняет имя, описание и иконку. Флаг активности меняется только в транзакции.
func (r *TaxonomyRepository) UpdateCategory(ctx context.Context, c *models.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = $2, description = $3, icon = $4, updated_at = $5
		WHERE id = $1
	`, c.ID, c.Name, c.Description, c.Icon, c.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("taxonomy repository: update category: %w", err)
	}
	return expectOneRow(res)
}

func (r *TaxonomyRepository) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return common.GetByID[models.Category](ctx, r.db, "categories", id)
}

// GetCategoryByName ищет без учёта регистра, включая неактивные.
func (r *TaxonomyRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	err := r.db.GetContext(ctx, &c, `SELECT `+categoryColumns+` FROM categories WHERE LOWER(name) = LOWER($1)`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("taxonomy repository: get category by name: %w", err)
	}
	return &c, nil
}

func (r *TaxonomyRepository) CategoryNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	taken, err := common.Exists(ctx, r.db, `
		SELECT EXISTS (SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1) AND id <> $2)
	`, name, excludeID)
	if err != nil {
		return false, fmt.Errorf("taxonomy repository: category name check: %w", err)
	}
	return taken, nil
}

// ListActiveCategories возвращает активные категории в порядке создания.
func (r *TaxonomyRepository) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.db.SelectContext(ctx, &categories, `
		SELECT `+categoryColumns+` FROM categories WHERE is_active ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("taxonomy repository: list active categories: %w", err)
	}
	return categories, nil
}

// SearchCategories ищет подстроку в имени или описании активных категорий.
func (r *TaxonomyRepository) SearchCategories(ctx context.Context, keyword string) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.db.SelectContext(ctx, &categories, `
		SELECT `+categoryColumns+` FROM categories
		WHERE is_active AND (name ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\')
		ORDER BY created_at, id
	`, search.ContainsPattern(keyword))
	if err != nil {
		return nil, fmt.Errorf("taxonomy repository: search categories: %w", err)
	}
	return categories, nil
}

// ListCategories постраничный список всех категорий, включая неактивные.
func (r *TaxonomyRepository) ListCategories(ctx context.Context, p domain.CategoryPageRequest) ([]models.Category, int, error) {
	col, ok := categorySortColumns[p.SortBy]
	if !ok {
		col = "name"
	}
	dir := "ASC"
	if p.SortOrder == "desc" || p.SortOrder == "DESC" {
		dir = "DESC"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM categories`); err != nil {
		return nil, 0, fmt.Errorf("taxonomy repository: count categories: %w", err)
	}

	categories := []models.Category{}
	query := fmt.Sprintf(`SELECT %s FROM categories ORDER BY %s %s, id ASC LIMIT $1 OFFSET $2`, categoryColumns, col, dir)
	if err := r.db.SelectContext(ctx, &categories, query, p.Limit, p.Offset); err != nil {
		return nil, 0, fmt.Errorf("taxonomy repository: list categories: %w", err)
	}
	return categories, total, nil
}

func (r *TaxonomyRepository) CreateSubCategory(ctx context.Context, s *models.SubCategory) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sub_categories (`+subCategoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.CategoryID, s.Name, s.Description, s.IsActive, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("taxonomy repository: create sub category: %w", err)
	}
	return nil
}

// UpdateSubCategory меняет имя и описание. category_id не обновляется никогда.
func (r *TaxonomyRepository) UpdateSubCategory(ctx context.Context, s *models.SubCategory) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sub_categories SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`, s.ID, s.Name, s.Description, s.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("taxonomy repository: update sub category: %w", err)
	}
	return expectOneRow(res)
}

func (r *TaxonomyRepository) GetSubCategoryByID(ctx context.Context, id string) (*models.SubCategory, error) {
	var s models.SubCategory
	if err := r.db.GetContext(ctx, &s, subCategorySelect+` WHERE sc.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("taxonomy repository: get sub category: %w", err)
	}
	return &s, nil
}

func (r *TaxonomyRepository) SubCategoryNameTaken(ctx context.Context, categoryID, name, excludeID string) (bool, error) {
	taken, err := common.Exists(ctx, r.db, `
		SELECT EXISTS (
			SELECT 1 FROM sub_categories
			WHERE category_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3
		)
	`, categoryID, name, excludeID)
	if err != nil {
		return false, fmt.Errorf("taxonomy repository: sub category name check: %w", err)
	}
	return taken, nil
}

func (r *TaxonomyRepository) ListActiveSubCategories(ctx context.Context, categoryID string) ([]models.SubCategory, error) {
	return r.selectSubCategories(ctx, "list active sub categories",
		subCategorySelect+` WHERE sc.category_id = $1 AND sc.is_active ORDER BY sc.created_at, sc.id`, categoryID)
}

func (r *TaxonomyRepository) ListActiveSubCategoriesFor(ctx context.Context, categoryIDs []string) ([]models.SubCategory, error) {
	if len(categoryIDs) == 0 {
		return []models.SubCategory{}, nil
	}
	return r.selectSubCategories(ctx, "list active sub categories for",
		subCategorySelect+` WHERE sc.category_id = ANY($1) AND sc.is_active ORDER BY sc.created_at, sc.id`, pq.Array(categoryIDs))
}

func (r *TaxonomyRepository) ListAllActiveSubCategories(ctx context.Context) ([]models.SubCategory, error) {
	return r.selectSubCategories(ctx, "list all active sub categories",
		subCategorySelect+` WHERE sc.is_active ORDER BY c.created_at, c.id, sc.created_at, sc.id`)
}

func (r *TaxonomyRepository) SearchSubCategories(ctx context.Context, keyword string) ([]models.SubCategory, error) {
	return r.selectSubCategories(ctx, "search sub categories",
		subCategorySelect+` WHERE sc.is_active AND (sc.name ILIKE $1 ESCAPE '\' OR sc.description ILIKE $1 ESCAPE '\')
		ORDER BY sc.created_at, sc.id`, search.ContainsPattern(keyword))
}

func (r *TaxonomyRepository) selectSubCategories(ctx context.Context, op, query string, args ...any) ([]models.SubCategory, error) {
	subs := []models.SubCategory{}
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, fmt.Errorf("taxonomy repository: %s: %w", op, err)
	}
	return subs, nil
}

// WithinTx выполняет fn в одной транзакции Postgres.
func (r *TaxonomyRepository) WithinTx(ctx context.Context, fn func(tx domain.TaxonomyTx) error) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&taxonomyTx{tx: tx})
	})
}

type taxonomyTx struct {
	tx *sqlx.Tx
}

func (t *taxonomyTx) LockCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := t.tx.GetContext(ctx, &c, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("taxonomy repository: lock category: %w", err)
	}
	return &c, nil
}

func (t *taxonomyTx) LockSubCategory(ctx context.Context, id string) (*models.SubCategory, error) {
	var s models.SubCategory
	err := t.tx.GetContext(ctx, &s, `SELECT `+subCategoryColumns+` FROM sub_categories WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("taxonomy repository: lock sub category: %w", err)
	}
	return &s, nil
}

func (t *taxonomyTx) SetCategoryActive(ctx context.Context, id string, active bool, at time.Time) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE categories SET is_active = $2, updated_at = $3 WHERE id = $1`, id, active, at)
	if err != nil {
		return fmt.Errorf("taxonomy repository: set category active: %w", err)
	}
	return expectOneRow(res)
}

func (t *taxonomyTx) SetSubCategoryActive(ctx context.Context, id string, active bool, at time.Time) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE sub_categories SET is_active = $2, updated_at = $3 WHERE id = $1`, id, active, at)
	if err != nil {
		return fmt.Errorf("taxonomy repository: set sub category active: %w", err)
	}
	return expectOneRow(res)
}

// ActiveSubCategoryIDs читает активных детей внутри транзакции и блокирует их строки.
func (t *taxonomyTx) ActiveSubCategoryIDs(ctx context.Context, categoryID string) ([]string, error) {
	ids := []string{}
	err := t.tx.SelectContext(ctx, &ids, `
		SELECT id FROM sub_categories WHERE category_id = $1 AND is_active ORDER BY id FOR UPDATE
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("taxonomy repository: active sub category ids: %w", err)
	}
	return ids, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
