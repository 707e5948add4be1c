package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	domain "github.com/ignatzorin/kaamwala-backend/internal/domain/repository"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/repository/common"
	"github.com/ignatzorin/kaamwala-backend/internal/search"
)

// WorkerRepository выполняет поиск исполнителей по условиям из пакета search.
type WorkerRepository struct {
	db *sqlx.DB
}

func NewWorkerRepository(db *sqlx.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

var _ domain.WorkerSearchRepository = (*WorkerRepository)(nil)

// Search считает общее число совпадений, читает окно страницы и навыки в одном снимке данных.
// Если offset за пределами выборки, возвращается пустой срез и корректный total.
func (r *WorkerRepository) Search(ctx context.Context, q search.Query) ([]models.WorkerSummary, int, error) {
	workers := []models.WorkerSummary{}
	var total int

	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := common.WithTxOptions(ctx, r.db, opts, func(tx *sqlx.Tx) error {
		args := &search.Args{}
		where := q.Where(args)

		if err := tx.GetContext(ctx, &total, `SELECT COUNT(*) FROM users u WHERE `+where, args.Values()...); err != nil {
			return fmt.Errorf("count: %w", err)
		}
		if total == 0 || q.Offset >= total {
			return nil
		}

		query := fmt.Sprintf(`
			SELECT u.id, u.name, u.role, u.about, u.experience_years, u.hourly_rate, u.service_areas, u.created_at
			FROM users u
			WHERE %s
			ORDER BY %s
			LIMIT %s OFFSET %s`, where, q.OrderBy(), args.Bind(q.Limit), args.Bind(q.Offset))

		if err := tx.SelectContext(ctx, &workers, query, args.Values()...); err != nil {
			return fmt.Errorf("select: %w", err)
		}
		return attachSkills(ctx, tx, workers)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("worker repository: search %w", err)
	}
	return workers, total, nil
}

// attachSkills подгружает навыки одним запросом на всю страницу в том же снимке, что и страница.
func attachSkills(ctx context.Context, q sqlx.QueryerContext, workers []models.WorkerSummary) error {
	if len(workers) == 0 {
		return nil
	}

	ids := make([]string, len(workers))
	index := make(map[string]int, len(workers))
	for i, w := range workers {
		ids[i] = w.ID
		index[w.ID] = i
		workers[i].Skills = []models.SkillAssignment{}
	}

	skills, err := listByUsers(ctx, q, ids)
	if err != nil {
		return fmt.Errorf("attach skills: %w", err)
	}
	for _, s := range skills {
		if i, ok := index[s.UserID]; ok {
			workers[i].Skills = append(workers[i].Skills, s)
		}
	}
	return nil
}
