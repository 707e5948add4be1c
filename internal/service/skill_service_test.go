package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kaamwala-backend/internal/repository/common"
)

type skillFixture struct {
	svc    *SkillService
	skills *mockSkillRepo
	users  *mockUserRepo
	tax    *memTaxonomy
	clock  *fixedClock
	sub    *models.SubCategory
}

func newSkillFixture(t *testing.T) *skillFixture {
	t.Helper()
	taxonomy, tax, clock := newTaxonomyFixture()
	ctx := context.Background()

	cat, err := taxonomy.CreateCategory(ctx, CategoryInput{Name: "Plumbing"})
	require.NoError(t, err)
	sub, err := taxonomy.CreateSubCategory(ctx, cat.ID, SubCategoryInput{Name: "Pipe Installation"})
	require.NoError(t, err)

	skills := new(mockSkillRepo)
	users := new(mockUserRepo)
	return &skillFixture{
		svc:    NewSkillService(skills, users, tax, seqIDs("skill"), clock.Now),
		skills: skills,
		users:  users,
		tax:    tax,
		clock:  clock,
		sub:    sub,
	}
}

func TestSkillService_Assign_Success(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()
	rate := 350.0

	f.users.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1", Role: models.RoleWorker}, nil)
	f.skills.On("GetByUserAndSubCategory", ctx, "u1", f.sub.ID).Return(nil, common.ErrNotFound)
	f.skills.On("Create", ctx, mock.AnythingOfType("*models.SkillAssignment")).Return(nil)

	pub := &capturePublisher{}
	f.svc.SetPublisher(pub)

	skill, err := f.svc.Assign(ctx, AssignInput{
		UserID:           "u1",
		SubCategoryID:    f.sub.ID,
		ProficiencyLevel: models.ProficiencyAdvanced,
		ExperienceYears:  6,
		HourlyRate:       &rate,
		IsPrimary:        true,
	})

	require.NoError(t, err)
	assert.Equal(t, "skill-1", skill.ID)
	assert.Equal(t, "Pipe Installation", skill.SubCategoryName)
	assert.Equal(t, "Plumbing", skill.CategoryName)
	assert.Equal(t, f.clock.Now(), skill.CreatedAt)
	assert.True(t, skill.IsPrimary)
	assert.Equal(t, []string{EventSkillAssigned}, pub.events)
	assert.Equal(t, []string{"u1"}, pub.users)
	f.skills.AssertExpectations(t)
}

func TestSkillService_Assign_Duplicate(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()

	f.users.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1"}, nil)
	f.skills.On("GetByUserAndSubCategory", ctx, "u1", f.sub.ID).
		Return(&models.SkillAssignment{ID: "existing", UserID: "u1", SubCategoryID: f.sub.ID}, nil)

	_, err := f.svc.Assign(ctx, AssignInput{UserID: "u1", SubCategoryID: f.sub.ID, ProficiencyLevel: models.ProficiencyBeginner})

	assert.True(t, apperror.IsDuplicateAssignment(err))
	f.skills.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSkillService_Assign_RaceMappedToDuplicate(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()

	f.users.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1"}, nil)
	f.skills.On("GetByUserAndSubCategory", ctx, "u1", f.sub.ID).Return(nil, common.ErrNotFound)
	f.skills.On("Create", ctx, mock.Anything).Return(common.ErrAlreadyExists)

	_, err := f.svc.Assign(ctx, AssignInput{UserID: "u1", SubCategoryID: f.sub.ID, ProficiencyLevel: models.ProficiencyExpert})

	assert.True(t, apperror.IsDuplicateAssignment(err))
}

func TestSkillService_Assign_NotFound(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()

	f.users.On("GetByID", ctx, "ghost").Return(nil, common.ErrNotFound)
	f.users.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1"}, nil)

	_, err := f.svc.Assign(ctx, AssignInput{UserID: "ghost", SubCategoryID: f.sub.ID, ProficiencyLevel: models.ProficiencyBeginner})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeNotFound, appErr.Code)
	assert.Equal(t, "User", appErr.Details["entity"])

	_, err = f.svc.Assign(ctx, AssignInput{UserID: "u1", SubCategoryID: "missing", ProficiencyLevel: models.ProficiencyBeginner})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SubCategory", appErr.Details["entity"])
}

func TestSkillService_Assign_InvalidProficiency(t *testing.T) {
	f := newSkillFixture(t)

	_, err := f.svc.Assign(context.Background(), AssignInput{UserID: "u1", SubCategoryID: f.sub.ID, ProficiencyLevel: "GURU"})

	assert.True(t, apperror.IsValidation(err))
	f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSkillService_Update(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()
	created := f.clock.Now()

	existing := &models.SkillAssignment{
		ID:               "s1",
		UserID:           "u1",
		SubCategoryID:    f.sub.ID,
		ProficiencyLevel: models.ProficiencyBeginner,
		ExperienceYears:  1,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	f.skills.On("GetByID", ctx, "s1").Return(existing, nil)
	f.skills.On("GetByID", ctx, "missing").Return(nil, common.ErrNotFound)
	f.skills.On("Update", ctx, mock.AnythingOfType("*models.SkillAssignment")).Return(nil)

	f.clock.Advance(time.Hour)
	level := models.ProficiencyIntermediate
	years := 3
	skill, err := f.svc.Update(ctx, "s1", models.SkillAssignmentUpdate{ProficiencyLevel: &level, ExperienceYears: &years})

	require.NoError(t, err)
	assert.Equal(t, models.ProficiencyIntermediate, skill.ProficiencyLevel)
	assert.Equal(t, 3, skill.ExperienceYears)
	assert.Equal(t, "u1", skill.UserID)
	assert.Equal(t, f.sub.ID, skill.SubCategoryID)
	assert.Equal(t, created, skill.CreatedAt)
	assert.Equal(t, f.clock.Now(), skill.UpdatedAt)

	_, err = f.svc.Update(ctx, "missing", models.SkillAssignmentUpdate{})
	assert.True(t, apperror.IsNotFound(err))
}

func TestSkillService_UpdateOwned_OtherUser(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()

	f.skills.On("GetByID", ctx, "s1").Return(&models.SkillAssignment{ID: "s1", UserID: "u1"}, nil)

	_, err := f.svc.UpdateOwned(ctx, "u2", "s1", models.SkillAssignmentUpdate{})

	assert.True(t, apperror.IsNotFound(err))
	f.skills.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSkillService_Unassign(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()

	f.skills.On("GetByUserAndSubCategory", ctx, "u1", f.sub.ID).
		Return(&models.SkillAssignment{ID: "s1", UserID: "u1", SubCategoryID: f.sub.ID}, nil).Once()
	f.skills.On("Delete", ctx, "s1").Return(nil).Once()

	require.NoError(t, f.svc.Unassign(ctx, "u1", f.sub.ID))

	f.skills.On("GetByUserAndSubCategory", ctx, "u1", f.sub.ID).Return(nil, common.ErrNotFound)
	err := f.svc.Unassign(ctx, "u1", f.sub.ID)
	assert.True(t, apperror.IsNotFound(err))
	f.skills.AssertExpectations(t)
}

func TestSkillService_Reassign_AfterUnassign(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()

	f.users.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1"}, nil)
	f.skills.On("GetByUserAndSubCategory", ctx, "u1", f.sub.ID).
		Return(&models.SkillAssignment{ID: "s1", UserID: "u1", SubCategoryID: f.sub.ID}, nil).Once()
	f.skills.On("Delete", ctx, "s1").Return(nil).Once()
	f.skills.On("GetByUserAndSubCategory", ctx, "u1", f.sub.ID).Return(nil, common.ErrNotFound).Once()
	f.skills.On("Create", ctx, mock.Anything).Return(nil).Once()

	require.NoError(t, f.svc.Unassign(ctx, "u1", f.sub.ID))
	_, err := f.svc.Assign(ctx, AssignInput{UserID: "u1", SubCategoryID: f.sub.ID, ProficiencyLevel: models.ProficiencyBeginner})

	assert.NoError(t, err)
	f.skills.AssertExpectations(t)
}

func TestSkillService_ListForSkillWithProficiency(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()

	experts := []models.SkillAssignment{{ID: "s1", ProficiencyLevel: models.ProficiencyExpert}}
	f.skills.On("ListBySubCategory", ctx, f.sub.ID, models.ProficiencyExpert).Return(experts, nil)
	f.skills.On("ListBySubCategory", ctx, f.sub.ID, "").Return([]models.SkillAssignment{}, nil)

	got, err := f.svc.ListForSkillWithProficiency(ctx, f.sub.ID, models.ProficiencyExpert)
	require.NoError(t, err)
	assert.Equal(t, experts, got)

	all, err := f.svc.ListForSkill(ctx, f.sub.ID)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = f.svc.ListForSkillWithProficiency(ctx, f.sub.ID, "MASTER")
	assert.True(t, apperror.IsValidation(err))
}

func TestSkillService_ListForUser_UnknownUser(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()
	f.users.On("GetByID", ctx, "ghost").Return(nil, common.ErrNotFound)

	_, err := f.svc.ListForUser(ctx, "ghost")
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.ListPrimaryForUser(ctx, "ghost")
	assert.True(t, apperror.IsNotFound(err))

	f.skills.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
	f.skills.AssertNotCalled(t, "ListPrimaryByUser", mock.Anything, mock.Anything)
}

func TestSkillService_ListForUser_KnownUserWithoutSkills(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()
	f.users.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1"}, nil)
	f.skills.On("ListByUser", ctx, "u1").Return([]models.SkillAssignment{}, nil)

	skills, err := f.svc.ListForUser(ctx, "u1")

	require.NoError(t, err)
	assert.Empty(t, skills)
}
