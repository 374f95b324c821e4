package repository

import (
	"context"
	"errors"
	"fmt"

	"ai-coder/services/coder-service/internal/domain"
	"ai-coder/services/coder-service/internal/infrastructure/persistence/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// deactivateOthers clears is_active on every other session of userID. It leaves
// updated_at untouched so list ordering only moves on real edits.
func deactivateOthers(tx *gorm.DB, userID, keepID string) error {
	if err := tx.Model(&model.SessionModel{}).
		Where("user_id = ? AND is_active = ? AND session_id <> ?", userID, true, keepID).
		UpdateColumn("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	session := model.ToSessionModel(s)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.IsActive {
			if err := deactivateOthers(tx, s.UserID, s.ID); err != nil {
				return err
			}
		}
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		s.CreatedAt = session.CreatedAt
		s.UpdatedAt = session.UpdatedAt
		return nil
	})
}

func (r *SessionRepository) Update(ctx context.Context, s *domain.Session) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.IsActive {
			if err := deactivateOthers(tx, s.UserID, s.ID); err != nil {
				return err
			}
		}
		res := tx.Model(&model.SessionModel{}).
			Where("session_id = ? AND user_id = ?", s.ID, s.UserID).
			Updates(map[string]any{
				"title":       s.Title,
				"description": s.Description,
				"is_active":   s.IsActive,
				"updated_at":  s.UpdatedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update session: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrSessionNotFound
		}
		return nil
	})
}

func (r *SessionRepository) FindByID(ctx context.Context, userID, sessionID string) (*domain.Session, error) {
	var sessionModel model.SessionModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&sessionModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return sessionModel.ToDomain(), nil
}

func (r *SessionRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Session, error) {
	var models []*model.SessionModel
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find sessions: %w", err)
	}

	sessions := make([]*domain.Session, len(models))
	for i, m := range models {
		sessions[i] = m.ToDomain()
	}
	return sessions, nil
}

// FindActive returns the user's active sessions, most recently updated first.
func (r *SessionRepository) FindActive(ctx context.Context, userID string) ([]*domain.Session, error) {
	var models []*model.SessionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at desc, id desc").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find active sessions: %w", err)
	}

	sessions := make([]*domain.Session, len(models))
	for i, m := range models {
		sessions[i] = m.ToDomain()
	}
	return sessions, nil
}

// Delete removes the session together with its interactions.
func (r *SessionRepository) Delete(ctx context.Context, userID, sessionID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("session_id = ? AND user_id = ?", sessionID, userID).
			Delete(&model.SessionModel{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete session: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrSessionNotFound
		}
		if err := tx.Where("session_id = ?", sessionID).
			Delete(&model.InteractionModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete interactions: %w", err)
		}
		return nil
	})
}
