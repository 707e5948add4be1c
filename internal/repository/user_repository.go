package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	domain "github.com/ignatzorin/kaamwala-backend/internal/domain/repository"
	"github.com/ignatzorin/kaamwala-backend/internal/models"
	"github.com/ignatzorin/kaamwala-backend/internal/repository/common"
)

// UserRepository читает пользователей. Полноценный CRUD аккаунтов живёт во внешнем сервисе,
// Create нужен только для сида демо-данных.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ domain.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id)
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, about, experience_years, hourly_rate,
			service_areas, preferred_location, created_at, updated_at)
		VALUES (:id, :name, :email, :password_hash, :role, :about, :experience_years, :hourly_rate,
			:service_areas, :preferred_location, :created_at, :updated_at)
	`, u)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("user repository: create %w", err)
	}
	return nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := common.Exists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email)
	if err != nil {
		return false, fmt.Errorf("user repository: exists by email %w", err)
	}
	return exists, nil
}
