package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/kaamwala-backend/internal/http/middleware"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/search"
	"github.com/ignatzorin/kaamwala-backend/internal/service"
)

type mockTaxonomy struct{ mock.Mock }

func (m *mockTaxonomy) CreateCategory(ctx context.Context, in service.CategoryInput) (*models.Category, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockTaxonomy) UpdateCategory(ctx context.Context, id string, upd models.CategoryUpdate) (*models.Category, error) {
	args := m.Called(ctx, id, upd)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockTaxonomy) SetCategoryIcon(ctx context.Context, id, iconRef string) (*models.Category, error) {
	args := m.Called(ctx, id, iconRef)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockTaxonomy) DeactivateCategory(ctx context.Context, id string) (service.DeactivationResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.DeactivationResult), args.Error(1)
}

func (m *mockTaxonomy) ReactivateCategory(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockTaxonomy) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockTaxonomy) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*models.Category)
	return c, args.Error(1)
}

func (m *mockTaxonomy) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]models.Category)
	return c, args.Error(1)
}

func (m *mockTaxonomy) SearchCategories(ctx context.Context, keyword string) ([]models.Category, error) {
	args := m.Called(ctx, keyword)
	c, _ := args.Get(0).([]models.Category)
	return c, args.Error(1)
}

func (m *mockTaxonomy) ListCategories(ctx context.Context, page, size int, sortBy, sortDir string) (models.Page[models.Category], error) {
	args := m.Called(ctx, page, size, sortBy, sortDir)
	return args.Get(0).(models.Page[models.Category]), args.Error(1)
}

func (m *mockTaxonomy) CreateSubCategory(ctx context.Context, categoryID string, in service.SubCategoryInput) (*models.SubCategory, error) {
	args := m.Called(ctx, categoryID, in)
	s, _ := args.Get(0).(*models.SubCategory)
	return s, args.Error(1)
}

func (m *mockTaxonomy) UpdateSubCategory(ctx context.Context, id string, upd models.SubCategoryUpdate) (*models.SubCategory, error) {
	args := m.Called(ctx, id, upd)
	s, _ := args.Get(0).(*models.SubCategory)
	return s, args.Error(1)
}

func (m *mockTaxonomy) DeactivateSubCategory(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockTaxonomy) ReactivateSubCategory(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockTaxonomy) GetSubCategory(ctx context.Context, id string) (*models.SubCategory, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.SubCategory)
	return s, args.Error(1)
}

func (m *mockTaxonomy) GetSubCategoryInCategory(ctx context.Context, categoryID, id string) (*models.SubCategory, error) {
	args := m.Called(ctx, categoryID, id)
	s, _ := args.Get(0).(*models.SubCategory)
	return s, args.Error(1)
}

func (m *mockTaxonomy) ListSubCategories(ctx context.Context, categoryID string) ([]models.SubCategory, error) {
	args := m.Called(ctx, categoryID)
	s, _ := args.Get(0).([]models.SubCategory)
	return s, args.Error(1)
}

func (m *mockTaxonomy) ListActiveSubCategories(ctx context.Context) ([]models.SubCategory, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]models.SubCategory)
	return s, args.Error(1)
}

func (m *mockTaxonomy) SearchSubCategories(ctx context.Context, keyword string) ([]models.SubCategory, error) {
	args := m.Called(ctx, keyword)
	s, _ := args.Get(0).([]models.SubCategory)
	return s, args.Error(1)
}

type mockSkills struct{ mock.Mock }

func (m *mockSkills) Assign(ctx context.Context, in service.AssignInput) (*models.SkillAssignment, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(*models.SkillAssignment)
	return s, args.Error(1)
}

func (m *mockSkills) UpdateOwned(ctx context.Context, userID, id string, upd models.SkillAssignmentUpdate) (*models.SkillAssignment, error) {
	args := m.Called(ctx, userID, id, upd)
	s, _ := args.Get(0).(*models.SkillAssignment)
	return s, args.Error(1)
}

func (m *mockSkills) Unassign(ctx context.Context, userID, subCategoryID string) error {
	return m.Called(ctx, userID, subCategoryID).Error(0)
}

func (m *mockSkills) ListForUser(ctx context.Context, userID string) ([]models.SkillAssignment, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]models.SkillAssignment)
	return s, args.Error(1)
}

func (m *mockSkills) ListPrimaryForUser(ctx context.Context, userID string) ([]models.SkillAssignment, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]models.SkillAssignment)
	return s, args.Error(1)
}

func (m *mockSkills) ListForSkillWithProficiency(ctx context.Context, subCategoryID, proficiency string) ([]models.SkillAssignment, error) {
	args := m.Called(ctx, subCategoryID, proficiency)
	s, _ := args.Get(0).([]models.SkillAssignment)
	return s, args.Error(1)
}

type workerPage = models.Page[models.WorkerSummary]

type mockSearch struct{ mock.Mock }

func (m *mockSearch) Search(ctx context.Context, f search.Filter) (workerPage, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(workerPage), args.Error(1)
}

func (m *mockSearch) ByRole(ctx context.Context, role string, page, size int) (workerPage, error) {
	args := m.Called(ctx, role, page, size)
	return args.Get(0).(workerPage), args.Error(1)
}

func (m *mockSearch) ByCategory(ctx context.Context, category string, page, size int) (workerPage, error) {
	args := m.Called(ctx, category, page, size)
	return args.Get(0).(workerPage), args.Error(1)
}

func (m *mockSearch) BySkill(ctx context.Context, skill string, page, size int) (workerPage, error) {
	args := m.Called(ctx, skill, page, size)
	return args.Get(0).(workerPage), args.Error(1)
}

func (m *mockSearch) ByLocation(ctx context.Context, location string, page, size int) (workerPage, error) {
	args := m.Called(ctx, location, page, size)
	return args.Get(0).(workerPage), args.Error(1)
}

func (m *mockSearch) TopRatedByExperience(ctx context.Context, page, size int) (workerPage, error) {
	args := m.Called(ctx, page, size)
	return args.Get(0).(workerPage), args.Error(1)
}

func (m *mockSearch) RecentlyJoined(ctx context.Context, page, size int) (workerPage, error) {
	args := m.Called(ctx, page, size)
	return args.Get(0).(workerPage), args.Error(1)
}

// envelope ответ API с сырым data для последующего разбора.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser кладёт в контекст пользователя так же, как AuthMiddleware.
func asUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Set(middleware.ContextRoleKey, role)
		c.Next()
	}
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, v))
}
