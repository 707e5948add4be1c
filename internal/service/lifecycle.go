package service

import (
	"context"
	"errors"
	"time"

	domain "github.com/ignatzorin/kaamwala-backend/internal/domain/repository"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kaamwala-backend/internal/repository/common"
)

// DeactivationResult итог деактивации категории.
type DeactivationResult struct {
	// Changed false, если категория уже была неактивна.
	Changed bool `json:"changed"`
	// Cascaded id подкатегорий, выключенных вместе с категорией.
	Cascaded []string `json:"cascaded_sub_category_ids"`
}

// LifecycleManager переключает флаг активности категорий и подкатегорий.
// Каждая операция выполняется в одной транзакции.
type LifecycleManager struct {
	runner domain.TaxonomyTxRunner
	clock  Clock
}

func NewLifecycleManager(runner domain.TaxonomyTxRunner, clock Clock) *LifecycleManager {
	return &LifecycleManager{runner: runner, clock: clock}
}

// DeactivateCategory выключает категорию и всех её активных детей атомарно.
// Повторный вызов для неактивной категории ничего не меняет.
func (m *LifecycleManager) DeactivateCategory(ctx context.Context, id string) (DeactivationResult, error) {
	var res DeactivationResult
	err := m.runner.WithinTx(ctx, func(tx domain.TaxonomyTx) error {
		res = DeactivationResult{Cascaded: []string{}}

		cat, err := tx.LockCategory(ctx, id)
		if err != nil {
			return err
		}
		if !cat.IsActive {
			return nil
		}

		now := m.clock()
		if err := flipCategory(ctx, tx, id, false, now); err != nil {
			return err
		}
		cascaded, err := cascadeSubCategories(ctx, tx, id, now)
		if err != nil {
			return err
		}

		res.Changed = true
		res.Cascaded = cascaded
		return nil
	})
	if err != nil {
		return DeactivationResult{}, categoryErr(id, err)
	}
	return res, nil
}

// ReactivateCategory включает категорию обратно. Подкатегории остаются как есть.
func (m *LifecycleManager) ReactivateCategory(ctx context.Context, id string) (bool, error) {
	changed := false
	err := m.runner.WithinTx(ctx, func(tx domain.TaxonomyTx) error {
		changed = false
		cat, err := tx.LockCategory(ctx, id)
		if err != nil {
			return err
		}
		if cat.IsActive {
			return nil
		}
		changed = true
		return flipCategory(ctx, tx, id, true, m.clock())
	})
	if err != nil {
		return false, categoryErr(id, err)
	}
	return changed, nil
}

// DeactivateSubCategory выключает одну подкатегорию. Родитель и соседи не затрагиваются.
func (m *LifecycleManager) DeactivateSubCategory(ctx context.Context, id string) (bool, error) {
	changed := false
	err := m.runner.WithinTx(ctx, func(tx domain.TaxonomyTx) error {
		changed = false
		sub, err := tx.LockSubCategory(ctx, id)
		if err != nil {
			return err
		}
		if !sub.IsActive {
			return nil
		}
		changed = true
		return tx.SetSubCategoryActive(ctx, id, false, m.clock())
	})
	if err != nil {
		return false, subCategoryErr(id, err)
	}
	return changed, nil
}

// ReactivateSubCategory включает подкатегорию, только если её категория активна.
func (m *LifecycleManager) ReactivateSubCategory(ctx context.Context, id string) (bool, error) {
	changed := false
	err := m.runner.WithinTx(ctx, func(tx domain.TaxonomyTx) error {
		changed = false
		sub, err := tx.LockSubCategory(ctx, id)
		if err != nil {
			return err
		}
		if sub.IsActive {
			return nil
		}
		parent, err := tx.LockCategory(ctx, sub.CategoryID)
		if err != nil {
			return err
		}
		if !parent.IsActive {
			return parentInactive(sub.CategoryID)
		}
		changed = true
		return tx.SetSubCategoryActive(ctx, id, true, m.clock())
	})
	if err != nil {
		return false, subCategoryErr(id, err)
	}
	return changed, nil
}

// flipCategory меняет только флаг самой категории.
func flipCategory(ctx context.Context, tx domain.TaxonomyTx, id string, active bool, at time.Time) error {
	return tx.SetCategoryActive(ctx, id, active, at)
}

// cascadeSubCategories выключает всех активных детей категории и возвращает их id.
// Список детей читается внутри той же транзакции.
func cascadeSubCategories(ctx context.Context, tx domain.TaxonomyTx, categoryID string, at time.Time) ([]string, error) {
	ids, err := tx.ActiveSubCategoryIDs(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	for _, subID := range ids {
		if err := tx.SetSubCategoryActive(ctx, subID, false, at); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func parentInactive(categoryID string) *apperror.AppError {
	err := apperror.New(apperror.ErrCodeConflict, "категория неактивна")
	err.Details = map[string]any{"category_id": categoryID}
	return err
}

func categoryErr(id string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return apperror.NotFound("Category", "id", id)
	}
	return err
}

func subCategoryErr(id string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return apperror.NotFound("SubCategory", "id", id)
	}
	return err
}
