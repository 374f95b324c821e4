package repository

import (
	"context"
	"errors"
	"fmt"

	"ai-coder/services/coder-service/internal/domain"
	"ai-coder/services/coder-service/internal/infrastructure/persistence/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	m := model.ToUserModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var m model.UserModel
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("id asc").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return m.ToDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "user_id = ?", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "LOWER(username) = LOWER(?)", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.first(ctx, "LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", login, login)
}
