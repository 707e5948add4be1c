package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	domain "github.com/ignatzorin/kaamwala-backend/internal/domain/repository"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/repository/common"
	"github.com/ignatzorin/kaamwala-backend/internal/search"
)

var errInjected = errors.New("injected failure")

// memTaxonomy хранилище таксономии в памяти. Уникальность имён проверяется так же, как индексами в Postgres.
type memTaxonomy struct {
	mu         sync.Mutex
	categories map[string]models.Category
	subs       map[string]models.SubCategory
	order      []string
	subOrder   []string

	// failSubUpdateAt номер вызова SetSubCategoryActive (с 1), на котором транзакция падает.
	failSubUpdateAt int
	subUpdates      int
	// staleNameCheck имитирует гонку: проверка имени не видит конкурента, вставку ловит индекс.
	staleNameCheck bool
}

func newMemTaxonomy() *memTaxonomy {
	return &memTaxonomy{
		categories: map[string]models.Category{},
		subs:       map[string]models.SubCategory{},
	}
}

var _ domain.TaxonomyRepository = (*memTaxonomy)(nil)

func (m *memTaxonomy) CreateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.categoryNameTaken(c.Name, "") {
		return common.ErrAlreadyExists
	}
	m.categories[c.ID] = *c
	m.order = append(m.order, c.ID)
	return nil
}

func (m *memTaxonomy) UpdateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[c.ID]; !ok {
		return common.ErrNotFound
	}
	if m.categoryNameTaken(c.Name, c.ID) {
		return common.ErrAlreadyExists
	}
	m.categories[c.ID] = *c
	return nil
}

func (m *memTaxonomy) GetCategoryByID(_ context.Context, id string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (m *memTaxonomy) GetCategoryByName(_ context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		if c := m.categories[id]; strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memTaxonomy) CategoryNameTaken(_ context.Context, name, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.staleNameCheck {
		return false, nil
	}
	return m.categoryNameTaken(name, excludeID), nil
}

func (m *memTaxonomy) categoryNameTaken(name, excludeID string) bool {
	for id, c := range m.categories {
		if id != excludeID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (m *memTaxonomy) ListActiveCategories(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Category{}
	for _, id := range m.order {
		if c := m.categories[id]; c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memTaxonomy) SearchCategories(_ context.Context, keyword string) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kw := strings.ToLower(keyword)
	out := []models.Category{}
	for _, id := range m.order {
		c := m.categories[id]
		if !c.IsActive {
			continue
		}
		desc := ""
		if c.Description != nil {
			desc = *c.Description
		}
		if strings.Contains(strings.ToLower(c.Name), kw) || strings.Contains(strings.ToLower(desc), kw) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memTaxonomy) ListCategories(_ context.Context, p domain.CategoryPageRequest) ([]models.Category, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.Category, 0, len(m.order))
	for _, id := range m.order {
		all = append(all, m.categories[id])
	}
	if p.SortBy == "name" {
		sort.SliceStable(all, func(i, j int) bool {
			if p.SortOrder == "desc" {
				return all[i].Name > all[j].Name
			}
			return all[i].Name < all[j].Name
		})
	}
	total := len(all)
	if p.Offset >= total {
		return []models.Category{}, total, nil
	}
	end := min(p.Offset+p.Limit, total)
	return all[p.Offset:end], total, nil
}

func (m *memTaxonomy) CreateSubCategory(_ context.Context, s *models.SubCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subNameTaken(s.CategoryID, s.Name, "") {
		return common.ErrAlreadyExists
	}
	m.subs[s.ID] = *s
	m.subOrder = append(m.subOrder, s.ID)
	return nil
}

func (m *memTaxonomy) UpdateSubCategory(_ context.Context, s *models.SubCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[s.ID]; !ok {
		return common.ErrNotFound
	}
	if m.subNameTaken(s.CategoryID, s.Name, s.ID) {
		return common.ErrAlreadyExists
	}
	m.subs[s.ID] = *s
	return nil
}

func (m *memTaxonomy) GetSubCategoryByID(_ context.Context, id string) (*models.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	s.CategoryName = m.categories[s.CategoryID].Name
	return &s, nil
}

func (m *memTaxonomy) SubCategoryNameTaken(_ context.Context, categoryID, name, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.staleNameCheck {
		return false, nil
	}
	return m.subNameTaken(categoryID, name, excludeID), nil
}

func (m *memTaxonomy) subNameTaken(categoryID, name, excludeID string) bool {
	for id, s := range m.subs {
		if id != excludeID && s.CategoryID == categoryID && strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

func (m *memTaxonomy) activeSubs(match func(models.SubCategory) bool) []models.SubCategory {
	out := []models.SubCategory{}
	for _, id := range m.subOrder {
		s := m.subs[id]
		if s.IsActive && match(s) {
			s.CategoryName = m.categories[s.CategoryID].Name
			out = append(out, s)
		}
	}
	return out
}

func (m *memTaxonomy) ListActiveSubCategories(_ context.Context, categoryID string) ([]models.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeSubs(func(s models.SubCategory) bool { return s.CategoryID == categoryID }), nil
}

func (m *memTaxonomy) ListActiveSubCategoriesFor(_ context.Context, categoryIDs []string) ([]models.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := map[string]bool{}
	for _, id := range categoryIDs {
		set[id] = true
	}
	return m.activeSubs(func(s models.SubCategory) bool { return set[s.CategoryID] }), nil
}

func (m *memTaxonomy) ListAllActiveSubCategories(_ context.Context) ([]models.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeSubs(func(models.SubCategory) bool { return true }), nil
}

func (m *memTaxonomy) SearchSubCategories(_ context.Context, keyword string) ([]models.SubCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kw := strings.ToLower(keyword)
	return m.activeSubs(func(s models.SubCategory) bool {
		return strings.Contains(strings.ToLower(s.Name), kw)
	}), nil
}

// WithinTx работает на копии данных и подменяет оригинал только при успехе fn.
func (m *memTaxonomy) WithinTx(_ context.Context, fn func(tx domain.TaxonomyTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		m:          m,
		categories: make(map[string]models.Category, len(m.categories)),
		subs:       make(map[string]models.SubCategory, len(m.subs)),
	}
	for k, v := range m.categories {
		tx.categories[k] = v
	}
	for k, v := range m.subs {
		tx.subs[k] = v
	}

	if err := fn(tx); err != nil {
		return err
	}
	m.categories = tx.categories
	m.subs = tx.subs
	return nil
}

type memTx struct {
	m          *memTaxonomy
	categories map[string]models.Category
	subs       map[string]models.SubCategory
}

func (t *memTx) LockCategory(_ context.Context, id string) (*models.Category, error) {
	c, ok := t.categories[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (t *memTx) LockSubCategory(_ context.Context, id string) (*models.SubCategory, error) {
	s, ok := t.subs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (t *memTx) SetCategoryActive(_ context.Context, id string, active bool, at time.Time) error {
	c, ok := t.categories[id]
	if !ok {
		return common.ErrNotFound
	}
	c.IsActive = active
	c.UpdatedAt = at
	t.categories[id] = c
	return nil
}

func (t *memTx) SetSubCategoryActive(_ context.Context, id string, active bool, at time.Time) error {
	t.m.subUpdates++
	if t.m.failSubUpdateAt > 0 && t.m.subUpdates == t.m.failSubUpdateAt {
		return errInjected
	}
	s, ok := t.subs[id]
	if !ok {
		return common.ErrNotFound
	}
	s.IsActive = active
	s.UpdatedAt = at
	t.subs[id] = s
	return nil
}

func (t *memTx) ActiveSubCategoryIDs(_ context.Context, categoryID string) ([]string, error) {
	ids := []string{}
	for _, id := range t.m.subOrder {
		if s, ok := t.subs[id]; ok && s.CategoryID == categoryID && s.IsActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// fixedClock часы, которые двигаются только вручную.
type fixedClock struct {
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// seqIDs последовательные предсказуемые id.
func seqIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type mockSkillRepo struct {
	mock.Mock
}

func (m *mockSkillRepo) Create(ctx context.Context, s *models.SkillAssignment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSkillRepo) Update(ctx context.Context, s *models.SkillAssignment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSkillRepo) GetByID(ctx context.Context, id string) (*models.SkillAssignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SkillAssignment), args.Error(1)
}

func (m *mockSkillRepo) GetByUserAndSubCategory(ctx context.Context, userID, subCategoryID string) (*models.SkillAssignment, error) {
	args := m.Called(ctx, userID, subCategoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SkillAssignment), args.Error(1)
}

func (m *mockSkillRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSkillRepo) ListByUser(ctx context.Context, userID string) ([]models.SkillAssignment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.SkillAssignment), args.Error(1)
}

func (m *mockSkillRepo) ListPrimaryByUser(ctx context.Context, userID string) ([]models.SkillAssignment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.SkillAssignment), args.Error(1)
}

func (m *mockSkillRepo) ListBySubCategory(ctx context.Context, subCategoryID, proficiency string) ([]models.SkillAssignment, error) {
	args := m.Called(ctx, subCategoryID, proficiency)
	return args.Get(0).([]models.SkillAssignment), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// recordingSearchRepo запоминает последний запрос поиска.
type recordingSearchRepo struct {
	queries []search.Query
	workers []models.WorkerSummary
	total   int
	err     error
}

func (r *recordingSearchRepo) Search(_ context.Context, q search.Query) ([]models.WorkerSummary, int, error) {
	r.queries = append(r.queries, q)
	if r.err != nil {
		return nil, 0, r.err
	}
	if q.Offset >= r.total {
		return []models.WorkerSummary{}, r.total, nil
	}
	return r.workers, r.total, nil
}

func (r *recordingSearchRepo) last() search.Query {
	return r.queries[len(r.queries)-1]
}

// capturePublisher собирает события вместо отправки в хаб.
type capturePublisher struct {
	mu     sync.Mutex
	events []string
	users  []string
}

func (p *capturePublisher) Broadcast(event string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) BroadcastToUser(userID string, event string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.users = append(p.users, userID)
	return nil
}
