package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	domain "github.com/ignatzorin/kaamwala-backend/internal/domain/repository"
	"github.com/ignatzorin/kaamwala-backend/internal/logger"
	"github.com/ignatzorin/kaamwala-backend/internal/metrics"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kaamwala-backend/internal/repository/common"
)

const (
	entityCategory    = "Category"
	entitySubCategory = "SubCategory"
)

// CategoryInput данные для создания категории.
type CategoryInput struct {
	Name        string
	Description *string
	Icon        *string
}

// SubCategoryInput данные для создания подкатегории.
type SubCategoryInput struct {
	Name        string
	Description *string
}

// TaxonomyService управляет категориями и подкатегориями.
// Данные не кэшируются: каждое чтение идёт в хранилище.
type TaxonomyService struct {
	repo      domain.TaxonomyRepository
	lifecycle *LifecycleManager
	ids       IDGenerator
	clock     Clock
	events    publisher
	log       *logrus.Entry
}

func NewTaxonomyService(repo domain.TaxonomyRepository, lifecycle *LifecycleManager, ids IDGenerator, clock Clock) *TaxonomyService {
	log := logger.For("taxonomy")
	return &TaxonomyService{
		repo:      repo,
		lifecycle: lifecycle,
		ids:       ids,
		clock:     clock,
		events:    publisher{log: log},
		log:       log,
	}
}

// SetPublisher подключает доставку событий (вебсокет хаб).
func (s *TaxonomyService) SetPublisher(p EventPublisher) {
	s.events.target = p
}

// CreateCategory создаёт активную категорию. Имя уникально без учёта регистра среди всех категорий.
func (s *TaxonomyService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	c, err := s.createCategory(ctx, s.ids(), in)
	metrics.TaxonomyMutationsTotal.WithLabelValues("category", "create", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"category_id": c.ID, "name": c.Name}).Info("категория создана")
	s.events.all(EventCategoryCreated, c)
	return c, nil
}

func (s *TaxonomyService) createCategory(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)

	taken, err := s.repo.CategoryNameTaken(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.DuplicateName(entityCategory, name, "")
	}

	now := s.clock()
	c := &models.Category{
		ID:          id,
		Name:        name,
		Description: in.Description,
		Icon:        in.Icon,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, apperror.DuplicateName(entityCategory, name, "")
		}
		return nil, err
	}
	return c, nil
}

// UpdateCategory меняет переданные поля. При переименовании уникальность проверяется повторно.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, id string, upd models.CategoryUpdate) (*models.Category, error) {
	c, err := s.updateCategory(ctx, id, upd)
	metrics.TaxonomyMutationsTotal.WithLabelValues("category", "update", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.events.all(EventCategoryUpdated, c)
	return c, nil
}

func (s *TaxonomyService) updateCategory(ctx context.Context, id string, upd models.CategoryUpdate) (*models.Category, error) {
	c, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		taken, err := s.repo.CategoryNameTaken(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.DuplicateName(entityCategory, name, "")
		}
		c.Name = name
	}
	if upd.Description != nil {
		c.Description = upd.Description
	}
	if upd.Icon != nil {
		c.Icon = upd.Icon
	}
	c.UpdatedAt = s.clock()

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			return nil, apperror.DuplicateName(entityCategory, c.Name, "")
		case errors.Is(err, common.ErrNotFound):
			return nil, apperror.NotFound(entityCategory, "id", id)
		}
		return nil, err
	}
	return c, nil
}

// SetCategoryIcon сохраняет ссылку на загруженную иконку.
func (s *TaxonomyService) SetCategoryIcon(ctx context.Context, id, iconRef string) (*models.Category, error) {
	return s.UpdateCategory(ctx, id, models.CategoryUpdate{Icon: &iconRef})
}

// DeactivateCategory выключает категорию вместе со всеми активными подкатегориями.
func (s *TaxonomyService) DeactivateCategory(ctx context.Context, id string) (DeactivationResult, error) {
	res, err := s.lifecycle.DeactivateCategory(ctx, id)
	metrics.TaxonomyMutationsTotal.WithLabelValues("category", "deactivate", metrics.Result(err)).Inc()
	if err != nil {
		return DeactivationResult{}, err
	}
	if !res.Changed {
		return res, nil
	}

	metrics.CascadeSize.Observe(float64(len(res.Cascaded)))
	s.log.WithFields(logrus.Fields{"category_id": id, "cascaded": len(res.Cascaded)}).Info("категория деактивирована")
	s.events.all(EventCategoryDeactivated, map[string]any{"id": id, "sub_category_ids": res.Cascaded})
	return res, nil
}

// ReactivateCategory включает категорию. Подкатегории включаются отдельно.
func (s *TaxonomyService) ReactivateCategory(ctx context.Context, id string) (bool, error) {
	changed, err := s.lifecycle.ReactivateCategory(ctx, id)
	metrics.TaxonomyMutationsTotal.WithLabelValues("category", "reactivate", metrics.Result(err)).Inc()
	if err == nil && changed {
		s.events.all(EventCategoryReactivated, map[string]any{"id": id})
	}
	return changed, err
}

// GetCategory возвращает категорию с её активными подкатегориями.
func (s *TaxonomyService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	subs, err := s.repo.ListActiveSubCategories(ctx, id)
	if err != nil {
		return nil, err
	}
	c.SubCategories = subs
	return c, nil
}

// GetCategoryByName ищет категорию по имени без учёта регистра, в том числе неактивную.
func (s *TaxonomyService) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	c, err := s.repo.GetCategoryByName(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.NotFound(entityCategory, "name", name)
		}
		return nil, err
	}
	return c, nil
}

// ListActiveCategories возвращает активные категории в порядке создания вместе с активными подкатегориями.
func (s *TaxonomyService) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, err
	}
	return s.withSubCategories(ctx, categories)
}

// SearchCategories ищет активные категории по подстроке в имени или описании.
func (s *TaxonomyService) SearchCategories(ctx context.Context, keyword string) ([]models.Category, error) {
	return s.repo.SearchCategories(ctx, strings.TrimSpace(keyword))
}

// ListCategories постраничный список всех категорий.
func (s *TaxonomyService) ListCategories(ctx context.Context, page, size int, sortBy, sortDir string) (models.Page[models.Category], error) {
	if size <= 0 {
		size = 10
	}
	page = models.ClampPage(page, size)
	categories, total, err := s.repo.ListCategories(ctx, domain.CategoryPageRequest{
		Limit:     size,
		Offset:    page * size,
		SortBy:    sortBy,
		SortOrder: strings.ToLower(sortDir),
	})
	if err != nil {
		return models.Page[models.Category]{}, err
	}
	return models.NewPage(categories, page, size, total), nil
}

func (s *TaxonomyService) withSubCategories(ctx context.Context, categories []models.Category) ([]models.Category, error) {
	if len(categories) == 0 {
		return categories, nil
	}
	ids := make([]string, len(categories))
	for i := range categories {
		ids[i] = categories[i].ID
	}
	subs, err := s.repo.ListActiveSubCategoriesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]models.SubCategory, len(categories))
	for _, sub := range subs {
		byCategory[sub.CategoryID] = append(byCategory[sub.CategoryID], sub)
	}
	for i := range categories {
		categories[i].SubCategories = byCategory[categories[i].ID]
	}
	return categories, nil
}

func (s *TaxonomyService) getCategory(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.NotFound(entityCategory, "id", id)
		}
		return nil, err
	}
	return c, nil
}

// CreateSubCategory создаёт подкатегорию внутри активной категории.
func (s *TaxonomyService) CreateSubCategory(ctx context.Context, categoryID string, in SubCategoryInput) (*models.SubCategory, error) {
	sub, err := s.createSubCategory(ctx, s.ids(), categoryID, in)
	metrics.TaxonomyMutationsTotal.WithLabelValues("sub_category", "create", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"sub_category_id": sub.ID, "category_id": categoryID}).Info("подкатегория создана")
	s.events.all(EventSubCategoryCreated, sub)
	return sub, nil
}

func (s *TaxonomyService) createSubCategory(ctx context.Context, id, categoryID string, in SubCategoryInput) (*models.SubCategory, error) {
	parent, err := s.getCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !parent.IsActive {
		return nil, parentInactive(categoryID)
	}

	name := strings.TrimSpace(in.Name)
	taken, err := s.repo.SubCategoryNameTaken(ctx, categoryID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.DuplicateName(entitySubCategory, name, categoryID)
	}

	now := s.clock()
	sub := &models.SubCategory{
		ID:           id,
		CategoryID:   categoryID,
		CategoryName: parent.Name,
		Name:         name,
		Description:  in.Description,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateSubCategory(ctx, sub); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, apperror.DuplicateName(entitySubCategory, name, categoryID)
		}
		return nil, err
	}
	return sub, nil
}

// UpdateSubCategory меняет имя и описание. Категорию подкатегории изменить нельзя.
func (s *TaxonomyService) UpdateSubCategory(ctx context.Context, id string, upd models.SubCategoryUpdate) (*models.SubCategory, error) {
	sub, err := s.updateSubCategory(ctx, id, upd)
	metrics.TaxonomyMutationsTotal.WithLabelValues("sub_category", "update", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.events.all(EventSubCategoryUpdated, sub)
	return sub, nil
}

func (s *TaxonomyService) updateSubCategory(ctx context.Context, id string, upd models.SubCategoryUpdate) (*models.SubCategory, error) {
	sub, err := s.GetSubCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		taken, err := s.repo.SubCategoryNameTaken(ctx, sub.CategoryID, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.DuplicateName(entitySubCategory, name, sub.CategoryID)
		}
		sub.Name = name
	}
	if upd.Description != nil {
		sub.Description = upd.Description
	}
	sub.UpdatedAt = s.clock()

	if err := s.repo.UpdateSubCategory(ctx, sub); err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			return nil, apperror.DuplicateName(entitySubCategory, sub.Name, sub.CategoryID)
		case errors.Is(err, common.ErrNotFound):
			return nil, apperror.NotFound(entitySubCategory, "id", id)
		}
		return nil, err
	}
	return sub, nil
}

// DeactivateSubCategory выключает подкатегорию. Повторный вызов ничего не меняет.
func (s *TaxonomyService) DeactivateSubCategory(ctx context.Context, id string) (bool, error) {
	changed, err := s.lifecycle.DeactivateSubCategory(ctx, id)
	metrics.TaxonomyMutationsTotal.WithLabelValues("sub_category", "deactivate", metrics.Result(err)).Inc()
	if err == nil && changed {
		s.log.WithField("sub_category_id", id).Info("подкатегория деактивирована")
		s.events.all(EventSubCategoryDeactivated, map[string]any{"id": id})
	}
	return changed, err
}

// ReactivateSubCategory включает подкатегорию, если её категория активна.
func (s *TaxonomyService) ReactivateSubCategory(ctx context.Context, id string) (bool, error) {
	changed, err := s.lifecycle.ReactivateSubCategory(ctx, id)
	metrics.TaxonomyMutationsTotal.WithLabelValues("sub_category", "reactivate", metrics.Result(err)).Inc()
	if err == nil && changed {
		s.events.all(EventSubCategoryReactivated, map[string]any{"id": id})
	}
	return changed, err
}

func (s *TaxonomyService) GetSubCategory(ctx context.Context, id string) (*models.SubCategory, error) {
	sub, err := s.repo.GetSubCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.NotFound(entitySubCategory, "id", id)
		}
		return nil, err
	}
	return sub, nil
}

// GetSubCategoryInCategory как GetSubCategory, но подкатегория чужой категории считается отсутствующей.
func (s *TaxonomyService) GetSubCategoryInCategory(ctx context.Context, categoryID, id string) (*models.SubCategory, error) {
	if _, err := s.getCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	sub, err := s.GetSubCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.CategoryID != categoryID {
		return nil, apperror.NotFound(entitySubCategory, "id", id)
	}
	return sub, nil
}

// ListSubCategories активные подкатегории существующей категории.
func (s *TaxonomyService) ListSubCategories(ctx context.Context, categoryID string) ([]models.SubCategory, error) {
	if _, err := s.getCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.repo.ListActiveSubCategories(ctx, categoryID)
}

func (s *TaxonomyService) ListActiveSubCategories(ctx context.Context) ([]models.SubCategory, error) {
	return s.repo.ListAllActiveSubCategories(ctx)
}

func (s *TaxonomyService) SearchSubCategories(ctx context.Context, keyword string) ([]models.SubCategory, error) {
	return s.repo.SearchSubCategories(ctx, strings.TrimSpace(keyword))
}
