package service

import (
	"context"
	"time"

	domain "github.com/ignatzorin/kaamwala-backend/internal/domain/repository"
	"github.com/ignatzorin/kaamwala-backend/internal/metrics"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kaamwala-backend/internal/search"
)

// WorkerSearchService ищет исполнителей по фильтру. Специализированные методы
// заполняют одно поле фильтра и идут через тот же Search.
type WorkerSearchService struct {
	repo        domain.WorkerSearchRepository
	defaultSize int
	maxSize     int
}

func NewWorkerSearchService(repo domain.WorkerSearchRepository, defaultSize, maxSize int) *WorkerSearchService {
	return &WorkerSearchService{repo: repo, defaultSize: defaultSize, maxSize: maxSize}
}

// Search применяет все заполненные поля фильтра через AND и возвращает страницу.
// Страница за пределами выборки возвращается пустой, без ошибки.
func (s *WorkerSearchService) Search(ctx context.Context, f search.Filter) (models.Page[models.WorkerSummary], error) {
	return s.run(ctx, "search", f)
}

// ByRole пользователи с ролью role.
func (s *WorkerSearchService) ByRole(ctx context.Context, role string, page, size int) (models.Page[models.WorkerSummary], error) {
	if _, ok := models.ValidRoles[role]; !ok {
		return models.Page[models.WorkerSummary]{}, apperror.Validation(map[string]string{"role": "недопустимая роль"})
	}
	return s.run(ctx, "by_role", search.Filter{Role: role, Page: page, Size: size})
}

func (s *WorkerSearchService) ByCategory(ctx context.Context, category string, page, size int) (models.Page[models.WorkerSummary], error) {
	return s.run(ctx, "by_category", search.Filter{Category: category, Page: page, Size: size})
}

func (s *WorkerSearchService) BySkill(ctx context.Context, skill string, page, size int) (models.Page[models.WorkerSummary], error) {
	return s.run(ctx, "by_skill", search.Filter{Skill: skill, Page: page, Size: size})
}

func (s *WorkerSearchService) ByLocation(ctx context.Context, location string, page, size int) (models.Page[models.WorkerSummary], error) {
	return s.run(ctx, "by_location", search.Filter{Location: location, Page: page, Size: size})
}

// TopRatedByExperience исполнители по убыванию опыта.
func (s *WorkerSearchService) TopRatedByExperience(ctx context.Context, page, size int) (models.Page[models.WorkerSummary], error) {
	return s.run(ctx, "top_rated", search.Filter{SortBy: search.SortByExperience, Direction: search.Desc, Page: page, Size: size})
}

// RecentlyJoined исполнители по убыванию даты регистрации.
func (s *WorkerSearchService) RecentlyJoined(ctx context.Context, page, size int) (models.Page[models.WorkerSummary], error) {
	return s.run(ctx, "recent", search.Filter{SortBy: search.SortByCreatedAt, Direction: search.Desc, Page: page, Size: size})
}

func (s *WorkerSearchService) run(ctx context.Context, entry string, f search.Filter) (models.Page[models.WorkerSummary], error) {
	defer metrics.ObserveSince(metrics.WorkerSearchDuration.WithLabelValues(entry), time.Now())

	f = f.Normalize(s.defaultSize, s.maxSize)
	workers, total, err := s.repo.Search(ctx, search.NewQuery(f))
	if err != nil {
		return models.Page[models.WorkerSummary]{}, err
	}
	metrics.WorkerSearchResults.Observe(float64(total))
	return models.NewPage(workers, f.Page, f.Size, total), nil
}
