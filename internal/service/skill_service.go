package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	domain "github.com/ignatzorin/kaamwala-backend/internal/domain/repository"
	"github.com/ignatzorin/kaamwala-backend/internal/logger"
	"github.com/ignatzorin/kaamwala-backend/internal/metrics"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kaamwala-backend/internal/repository/common"
)

// AssignInput параметры назначения навыка.
type AssignInput struct {
	UserID           string
	SubCategoryID    string
	ProficiencyLevel string
	ExperienceYears  int
	HourlyRate       *float64
	IsPrimary        bool
}

// SkillService назначает исполнителям навыки из таксономии.
type SkillService struct {
	skills domain.SkillRepository
	users  domain.UserRepository
	subs   domain.SubCategoryRepository
	ids    IDGenerator
	clock  Clock
	events publisher
	log    *logrus.Entry
}

func NewSkillService(skills domain.SkillRepository, users domain.UserRepository, subs domain.SubCategoryRepository, ids IDGenerator, clock Clock) *SkillService {
	log := logger.For("skills")
	return &SkillService{
		skills: skills,
		users:  users,
		subs:   subs,
		ids:    ids,
		clock:  clock,
		events: publisher{log: log},
		log:    log,
	}
}

// SetPublisher подключает доставку событий (вебсокет хаб).
func (s *SkillService) SetPublisher(p EventPublisher) {
	s.events.target = p
}

// Assign связывает пользователя с подкатегорией. Одна пара может существовать только один раз.
func (s *SkillService) Assign(ctx context.Context, in AssignInput) (*models.SkillAssignment, error) {
	skill, err := s.assign(ctx, in)
	metrics.SkillAssignmentsTotal.WithLabelValues("assign", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": in.UserID, "sub_category_id": in.SubCategoryID}).Info("навык назначен")
	s.events.user(in.UserID, EventSkillAssigned, skill)
	return skill, nil
}

func (s *SkillService) assign(ctx context.Context, in AssignInput) (*models.SkillAssignment, error) {
	if !models.IsValidProficiency(in.ProficiencyLevel) {
		return nil, apperror.Validation(map[string]string{"proficiency_level": "недопустимый уровень владения"})
	}

	if err := s.requireUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	sub, err := s.subs.GetSubCategoryByID(ctx, in.SubCategoryID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.NotFound(entitySubCategory, "id", in.SubCategoryID)
		}
		return nil, err
	}

	_, err = s.skills.GetByUserAndSubCategory(ctx, in.UserID, in.SubCategoryID)
	switch {
	case err == nil:
		return nil, apperror.DuplicateAssignment(in.UserID, in.SubCategoryID)
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	now := s.clock()
	skill := &models.SkillAssignment{
		ID:               s.ids(),
		UserID:           in.UserID,
		SubCategoryID:    in.SubCategoryID,
		ProficiencyLevel: in.ProficiencyLevel,
		ExperienceYears:  in.ExperienceYears,
		HourlyRate:       in.HourlyRate,
		IsPrimary:        in.IsPrimary,
		CreatedAt:        now,
		UpdatedAt:        now,
		SubCategoryName:  sub.Name,
		CategoryID:       sub.CategoryID,
		CategoryName:     sub.CategoryName,
	}
	if err := s.skills.Create(ctx, skill); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, apperror.DuplicateAssignment(in.UserID, in.SubCategoryID)
		}
		return nil, err
	}
	return skill, nil
}

// Get возвращает навык по id.
func (s *SkillService) Get(ctx context.Context, id string) (*models.SkillAssignment, error) {
	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.NotFound("SkillAssignment", "id", id)
		}
		return nil, err
	}
	return skill, nil
}

// Update перезаписывает уровень, опыт, ставку и признак основного навыка.
func (s *SkillService) Update(ctx context.Context, id string, upd models.SkillAssignmentUpdate) (*models.SkillAssignment, error) {
	skill, err := s.Get(ctx, id)
	if err == nil {
		err = s.update(ctx, skill, upd)
	}
	metrics.SkillAssignmentsTotal.WithLabelValues("update", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.events.user(skill.UserID, EventSkillUpdated, skill)
	return skill, nil
}

// UpdateOwned как Update, но чужой навык считается отсутствующим.
func (s *SkillService) UpdateOwned(ctx context.Context, userID, id string, upd models.SkillAssignmentUpdate) (*models.SkillAssignment, error) {
	skill, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if skill.UserID != userID {
		return nil, apperror.NotFound("SkillAssignment", "id", id)
	}
	return s.Update(ctx, id, upd)
}

func (s *SkillService) update(ctx context.Context, skill *models.SkillAssignment, upd models.SkillAssignmentUpdate) error {
	if upd.ProficiencyLevel != nil {
		if !models.IsValidProficiency(*upd.ProficiencyLevel) {
			return apperror.Validation(map[string]string{"proficiency_level": "недопустимый уровень владения"})
		}
		skill.ProficiencyLevel = *upd.ProficiencyLevel
	}
	if upd.ExperienceYears != nil {
		skill.ExperienceYears = *upd.ExperienceYears
	}
	if upd.HourlyRate != nil {
		skill.HourlyRate = upd.HourlyRate
	}
	if upd.IsPrimary != nil {
		skill.IsPrimary = *upd.IsPrimary
	}
	skill.UpdatedAt = s.clock()

	if err := s.skills.Update(ctx, skill); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return apperror.NotFound("SkillAssignment", "id", skill.ID)
		}
		return err
	}
	return nil
}

// Unassign удаляет связь пользователя с подкатегорией. После этого навык можно назначить заново.
func (s *SkillService) Unassign(ctx context.Context, userID, subCategoryID string) error {
	err := s.unassign(ctx, userID, subCategoryID)
	metrics.SkillAssignmentsTotal.WithLabelValues("unassign", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "sub_category_id": subCategoryID}).Info("навык снят")
	s.events.user(userID, EventSkillUnassigned, map[string]any{"sub_category_id": subCategoryID})
	return nil
}

func (s *SkillService) unassign(ctx context.Context, userID, subCategoryID string) error {
	skill, err := s.skills.GetByUserAndSubCategory(ctx, userID, subCategoryID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return pairNotFound(userID, subCategoryID)
		}
		return err
	}
	if err := s.skills.Delete(ctx, skill.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return pairNotFound(userID, subCategoryID)
		}
		return err
	}
	return nil
}

// ListForUser навыки пользователя. Неизвестный пользователь даёт NotFound, а не пустой список.
func (s *SkillService) ListForUser(ctx context.Context, userID string) ([]models.SkillAssignment, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.skills.ListByUser(ctx, userID)
}

func (s *SkillService) ListPrimaryForUser(ctx context.Context, userID string) ([]models.SkillAssignment, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.skills.ListPrimaryByUser(ctx, userID)
}

// ListForSkill все исполнители с навыком, независимо от уровня.
func (s *SkillService) ListForSkill(ctx context.Context, subCategoryID string) ([]models.SkillAssignment, error) {
	return s.ListForSkillWithProficiency(ctx, subCategoryID, "")
}

// ListForSkillWithProficiency исполнители с навыком на заданном уровне. Пустой уровень означает любой.
func (s *SkillService) ListForSkillWithProficiency(ctx context.Context, subCategoryID, proficiency string) ([]models.SkillAssignment, error) {
	if proficiency != "" && !models.IsValidProficiency(proficiency) {
		return nil, apperror.Validation(map[string]string{"proficiency": "недопустимый уровень владения"})
	}
	return s.skills.ListBySubCategory(ctx, subCategoryID, proficiency)
}

func (s *SkillService) requireUser(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return apperror.NotFound("User", "id", userID)
		}
		return err
	}
	return nil
}

func pairNotFound(userID, subCategoryID string) *apperror.AppError {
	return apperror.NotFound("SkillAssignment", "user_id/sub_category_id", userID+"/"+subCategoryID)
}
