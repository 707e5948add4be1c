package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/repository/common"
)

func TestSeedService_SeedCatalog_Idempotent(t *testing.T) {
	taxonomy, repo, clock := newTaxonomyFixture()
	svc := NewSeedService(taxonomy, nil, nil, nil, seqIDs("u"), clock.Now)
	ctx := context.Background()

	first, err := svc.SeedCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, first.CategoriesCreated)
	assert.Equal(t, 36, first.SubCategoriesCreated)

	second, err := svc.SeedCatalog(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.CategoriesCreated)
	assert.Zero(t, second.SubCategoriesCreated)

	plumbing, err := repo.GetCategoryByID(ctx, "PLUMBING_CAT_001")
	require.NoError(t, err)
	assert.Equal(t, "Plumbing", plumbing.Name)
	assert.Equal(t, "plumbing_icon.png", *plumbing.Icon)

	sub, err := repo.GetSubCategoryByID(ctx, "WELD_SUB_004")
	require.NoError(t, err)
	assert.Equal(t, "WELDING_CAT_009", sub.CategoryID)
	assert.Equal(t, "Sheet Metal Work", sub.Name)
}

func TestSeedService_SeedCatalog_SkipsNameTakenByOtherID(t *testing.T) {
	taxonomy, _, clock := newTaxonomyFixture()
	svc := NewSeedService(taxonomy, nil, nil, nil, seqIDs("u"), clock.Now)
	ctx := context.Background()

	_, err := taxonomy.CreateCategory(ctx, CategoryInput{Name: "PLUMBING"})
	require.NoError(t, err)

	res, err := svc.SeedCatalog(ctx)

	require.NoError(t, err)
	assert.Equal(t, 8, res.CategoriesCreated)
	assert.Equal(t, 32, res.SubCategoriesCreated)
}

func TestSeedService_SeedDemoWorkers(t *testing.T) {
	taxonomy, tax, clock := newTaxonomyFixture()
	ctx := context.Background()

	skills := new(mockSkillRepo)
	users := new(mockUserRepo)
	skillSvc := NewSkillService(skills, users, tax, seqIDs("skill"), clock.Now)
	tokens := NewTokenManager("test-secret", time.Hour)
	svc := NewSeedService(taxonomy, skillSvc, users, tokens, seqIDs("user"), clock.Now)

	_, err := svc.SeedCatalog(ctx)
	require.NoError(t, err)

	users.On("ExistsByEmail", ctx, mock.AnythingOfType("string")).Return(false, nil)
	users.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	users.On("GetByID", ctx, mock.AnythingOfType("string")).Return(&models.User{}, nil)
	skills.On("GetByUserAndSubCategory", ctx, mock.Anything, mock.Anything).Return(nil, common.ErrNotFound)
	skills.On("Create", ctx, mock.AnythingOfType("*models.SkillAssignment")).Return(nil)

	accounts, err := svc.SeedDemoWorkers(ctx, 3)

	require.NoError(t, err)
	require.Len(t, accounts, 3)
	for _, acc := range accounts {
		assert.Equal(t, models.RoleWorker, acc.Role)
		assert.Equal(t, seedPassword, acc.Password)
		assert.NotEmpty(t, acc.Skills)
		assert.LessOrEqual(t, len(acc.Skills), 3)
		assert.NotEmpty(t, acc.AccessToken)

		userID, role, err := tokens.ParseAccess(acc.AccessToken)
		if assert.NoError(t, err) {
			assert.Equal(t, acc.ID, userID)
			assert.Equal(t, models.RoleWorker, role)
		}
	}

	created := users.Calls[1].Arguments.Get(1).(*models.User)
	assert.NotEqual(t, seedPassword, created.PasswordHash)
}
