package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	domain "github.com/ignatzorin/kaamwala-backend/internal/domain/repository"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/repository/common"
)

const skillSelect = `SELECT us.id, us.user_id, us.sub_category_id, us.proficiency_level, us.experience_years,
		us.hourly_rate, us.is_primary, us.created_at, us.updated_at,
		sc.name AS sub_category_name, c.id AS category_id, c.name AS category_name
	FROM user_skills us
	JOIN sub_categories sc ON sc.id = us.sub_category_id
	JOIN categories c ON c.id = sc.category_id`

const skillOrder = ` ORDER BY us.is_primary DESC, us.created_at, us.id`

// SkillRepository хранит навыки исполнителей (user_skills).
type SkillRepository struct {
	db *sqlx.DB
}

func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

var _ domain.SkillRepository = (*SkillRepository)(nil)

// Create вставляет навык. Повтор пары (user_id, sub_category_id) даёт ErrAlreadyExists.
func (r *SkillRepository) Create(ctx context.Context, s *models.SkillAssignment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_skills (id, user_id, sub_category_id, proficiency_level, experience_years,
			hourly_rate, is_primary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.UserID, s.SubCategoryID, s.ProficiencyLevel, s.ExperienceYears,
		s.HourlyRate, s.IsPrimary, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("skill repository: create %w", err)
	}
	return nil
}

// Update перезаписывает атрибуты навыка. Пользователь и подкатегория не меняются.
func (r *SkillRepository) Update(ctx context.Context, s *models.SkillAssignment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_skills
		SET proficiency_level = $2, experience_years = $3, hourly_rate = $4, is_primary = $5, updated_at = $6
		WHERE id = $1
	`, s.ID, s.ProficiencyLevel, s.ExperienceYears, s.HourlyRate, s.IsPrimary, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("skill repository: update %w", err)
	}
	return expectOneRow(res)
}

func (r *SkillRepository) GetByID(ctx context.Context, id string) (*models.SkillAssignment, error) {
	return r.getOne(ctx, "get by id", skillSelect+` WHERE us.id = $1`, id)
}

func (r *SkillRepository) GetByUserAndSubCategory(ctx context.Context, userID, subCategoryID string) (*models.SkillAssignment, error) {
	return r.getOne(ctx, "get by pair", skillSelect+` WHERE us.user_id = $1 AND us.sub_category_id = $2`, userID, subCategoryID)
}

func (r *SkillRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("skill repository: delete %w", err)
	}
	return expectOneRow(res)
}

func (r *SkillRepository) ListByUser(ctx context.Context, userID string) ([]models.SkillAssignment, error) {
	return r.list(ctx, "list by user", skillSelect+` WHERE us.user_id = $1`+skillOrder, userID)
}

func (r *SkillRepository) ListPrimaryByUser(ctx context.Context, userID string) ([]models.SkillAssignment, error) {
	return r.list(ctx, "list primary by user", skillSelect+` WHERE us.user_id = $1 AND us.is_primary`+skillOrder, userID)
}

func (r *SkillRepository) ListBySubCategory(ctx context.Context, subCategoryID, proficiency string) ([]models.SkillAssignment, error) {
	if proficiency == "" {
		return r.list(ctx, "list by sub category", skillSelect+` WHERE us.sub_category_id = $1`+skillOrder, subCategoryID)
	}
	return r.list(ctx, "list by sub category and proficiency",
		skillSelect+` WHERE us.sub_category_id = $1 AND us.proficiency_level = $2`+skillOrder, subCategoryID, proficiency)
}

// ListByUsers загружает навыки сразу для страницы пользователей.
func (r *SkillRepository) ListByUsers(ctx context.Context, userIDs []string) ([]models.SkillAssignment, error) {
	return listByUsers(ctx, r.db, userIDs)
}

// listByUsers то же самое через произвольный QueryerContext, например внутри транзакции поиска.
func listByUsers(ctx context.Context, q sqlx.QueryerContext, userIDs []string) ([]models.SkillAssignment, error) {
	skills := []models.SkillAssignment{}
	if len(userIDs) == 0 {
		return skills, nil
	}
	query := skillSelect + ` WHERE us.user_id = ANY($1)` + skillOrder
	if err := sqlx.SelectContext(ctx, q, &skills, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("skill repository: list by users %w", err)
	}
	return skills, nil
}

func (r *SkillRepository) getOne(ctx context.Context, op, query string, args ...any) (*models.SkillAssignment, error) {
	var s models.SkillAssignment
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("skill repository: %s %w", op, err)
	}
	return &s, nil
}

func (r *SkillRepository) list(ctx context.Context, op, query string, args ...any) ([]models.SkillAssignment, error) {
	skills := []models.SkillAssignment{}
	if err := r.db.SelectContext(ctx, &skills, query, args...); err != nil {
		return nil, fmt.Errorf("skill repository: %s %w", op, err)
	}
	return skills, nil
}
