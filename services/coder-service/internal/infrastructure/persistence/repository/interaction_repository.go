package repository

import (
	"context"
	"errors"
	"fmt"

	"ai-coder/services/coder-service/internal/domain"
	"ai-coder/services/coder-service/internal/infrastructure/persistence/model"

	"gorm.io/gorm"
)

const ownedInteractions = "JOIN code_sessions ON code_sessions.session_id = code_interactions.session_id"

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Save(ctx context.Context, i *domain.Interaction) error {
	interaction := model.ToInteractionModel(i)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(interaction).Error; err != nil {
			return fmt.Errorf("failed to create interaction: %w", err)
		}
		i.CreatedAt = interaction.CreatedAt
		if err := tx.Model(&model.SessionModel{}).
			Where("session_id = ?", i.SessionID).
			UpdateColumn("updated_at", interaction.CreatedAt).Error; err != nil {
			return fmt.Errorf("failed to touch session: %w", err)
		}
		return nil
	})
}

func (r *InteractionRepository) FindByID(ctx context.Context, userID, interactionID string) (*domain.Interaction, error) {
	var m model.InteractionModel
	if err := r.db.WithContext(ctx).
		Joins(ownedInteractions).
		Where("code_interactions.interaction_id = ? AND code_sessions.user_id = ?", interactionID, userID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInteractionNotFound
		}
		return nil, fmt.Errorf("failed to find interaction: %w", err)
	}
	return m.ToDomain(), nil
}

func (r *InteractionRepository) FindBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]*domain.Interaction, error) {
	var models []*model.InteractionModel
	q := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc, id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to get interactions: %w", err)
	}
	return toInteractions(models), nil
}

func (r *InteractionRepository) FindRecent(ctx context.Context, sessionID string, n int) ([]*domain.Interaction, error) {
	if n <= 0 {
		return []*domain.Interaction{}, nil
	}
	var models []*model.InteractionModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at desc, id desc").
		Limit(n).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent interactions: %w", err)
	}
	return toInteractions(models), nil
}

func (r *InteractionRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Interaction, error) {
	var models []*model.InteractionModel
	q := r.db.WithContext(ctx).
		Joins(ownedInteractions).
		Where("code_sessions.user_id = ?", userID).
		Order("code_interactions.created_at desc, code_interactions.id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to get interactions: %w", err)
	}
	return toInteractions(models), nil
}

func (r *InteractionRepository) Delete(ctx context.Context, userID, interactionID string) error {
	if _, err := r.FindByID(ctx, userID, interactionID); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("interaction_id = ?", interactionID).
		Delete(&model.InteractionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete interaction: %w", err)
	}
	return nil
}

func toInteractions(models []*model.InteractionModel) []*domain.Interaction {
	interactions := make([]*domain.Interaction, len(models))
	for i, m := range models {
		interactions[i] = m.ToDomain()
	}
	return interactions
}
