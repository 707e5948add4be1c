package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/kaamwala-backend/internal/dto"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kaamwala-backend/internal/service"
)

func subCategoryRouter(tax *mockTaxonomy, skills *mockSkills) *gin.Engine {
	r := newTestEngine()
	h := NewSubCategoryHandler(tax, skills)
	r.POST("/categories/:id/subcategories", h.Create)
	r.GET("/categories/:id/subcategories", h.ListInCategory)
	r.GET("/categories/:id/subcategories/:subId", h.GetInCategory)
	r.PUT("/categories/:id/subcategories/:subId", h.Update)
	r.DELETE("/categories/:id/subcategories/:subId", h.Deactivate)
	r.POST("/categories/:id/subcategories/:subId/reactivate", h.Reactivate)
	r.GET("/subcategories", h.List)
	r.GET("/subcategories/:id", h.Get)
	r.GET("/subcategories/:id/workers", h.Workers)
	return r
}

func TestSubCategoryHandler_Create(t *testing.T) {
	tax := new(mockTaxonomy)
	tax.On("CreateSubCategory", mock.Anything, "c1", service.SubCategoryInput{Name: "Pipe Installation"}).
		Return(&models.SubCategory{ID: "s1", CategoryID: "c1", Name: "Pipe Installation", IsActive: true}, nil)

	w := perform(subCategoryRouter(tax, nil), http.MethodPost, "/categories/c1/subcategories", map[string]any{"name": "Pipe Installation"})

	assert.Equal(t, http.StatusCreated, w.Code)
	tax.AssertExpectations(t)
}

func TestSubCategoryHandler_Create_InactiveParent(t *testing.T) {
	tax := new(mockTaxonomy)
	tax.On("CreateSubCategory", mock.Anything, "c1", mock.Anything).
		Return(nil, apperror.New(apperror.ErrCodeConflict, "категория неактивна"))

	w := perform(subCategoryRouter(tax, nil), http.MethodPost, "/categories/c1/subcategories", map[string]any{"name": "Pipe Installation"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decode(t, w).Error.Code)
}

func TestSubCategoryHandler_Update_WrongCategory(t *testing.T) {
	tax := new(mockTaxonomy)
	tax.On("GetSubCategoryInCategory", mock.Anything, "c2", "s1").
		Return(nil, apperror.NotFound("SubCategory", "id", "s1"))

	w := perform(subCategoryRouter(tax, nil), http.MethodPut, "/categories/c2/subcategories/s1", map[string]any{"name": "Taps"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	tax.AssertNotCalled(t, "UpdateSubCategory", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubCategoryHandler_Deactivate(t *testing.T) {
	tax := new(mockTaxonomy)
	tax.On("GetSubCategoryInCategory", mock.Anything, "c1", "s1").Return(&models.SubCategory{ID: "s1", CategoryID: "c1"}, nil)
	tax.On("DeactivateSubCategory", mock.Anything, "s1").Return(true, nil)

	w := perform(subCategoryRouter(tax, nil), http.MethodDelete, "/categories/c1/subcategories/s1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got dto.StatusChangeResponse
	decodeData(t, w, &got)
	assert.Equal(t, dto.StatusChangeResponse{ID: "s1", IsActive: false, Changed: true}, got)
	tax.AssertNotCalled(t, "DeactivateCategory", mock.Anything, mock.Anything)
}

func TestSubCategoryHandler_Reactivate_ParentInactive(t *testing.T) {
	tax := new(mockTaxonomy)
	tax.On("GetSubCategoryInCategory", mock.Anything, "c1", "s1").Return(&models.SubCategory{ID: "s1", CategoryID: "c1"}, nil)
	tax.On("ReactivateSubCategory", mock.Anything, "s1").Return(false, apperror.New(apperror.ErrCodeConflict, "категория неактивна"))

	w := perform(subCategoryRouter(tax, nil), http.MethodPost, "/categories/c1/subcategories/s1/reactivate", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubCategoryHandler_List(t *testing.T) {
	tax := new(mockTaxonomy)
	tax.On("ListActiveSubCategories", mock.Anything).Return([]models.SubCategory{{ID: "s1"}, {ID: "s2"}}, nil)
	tax.On("SearchSubCategories", mock.Anything, "weld").Return([]models.SubCategory{{ID: "s9"}}, nil)
	r := subCategoryRouter(tax, nil)

	var all []models.SubCategory
	decodeData(t, perform(r, http.MethodGet, "/subcategories?active=true", nil), &all)
	assert.Len(t, all, 2)

	var found []models.SubCategory
	decodeData(t, perform(r, http.MethodGet, "/subcategories?q=weld", nil), &found)
	assert.Equal(t, "s9", found[0].ID)
}

func TestSubCategoryHandler_Workers(t *testing.T) {
	tax := new(mockTaxonomy)
	skills := new(mockSkills)
	tax.On("GetSubCategory", mock.Anything, "s1").Return(&models.SubCategory{ID: "s1"}, nil)
	skills.On("ListForSkillWithProficiency", mock.Anything, "s1", models.ProficiencyExpert).
		Return([]models.SkillAssignment{{ID: "a1", UserID: "u1", ProficiencyLevel: models.ProficiencyExpert}}, nil)

	w := perform(subCategoryRouter(tax, skills), http.MethodGet, "/subcategories/s1/workers?proficiency=EXPERT", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.SkillAssignment
	decodeData(t, w, &got)
	assert.Len(t, got, 1)
	skills.AssertExpectations(t)
}

func TestSubCategoryHandler_Workers_UnknownSubCategory(t *testing.T) {
	tax := new(mockTaxonomy)
	skills := new(mockSkills)
	tax.On("GetSubCategory", mock.Anything, "nope").Return(nil, apperror.NotFound("SubCategory", "id", "nope"))

	w := perform(subCategoryRouter(tax, skills), http.MethodGet, "/subcategories/nope/workers", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	skills.AssertNotCalled(t, "ListForSkillWithProficiency", mock.Anything, mock.Anything, mock.Anything)
}
