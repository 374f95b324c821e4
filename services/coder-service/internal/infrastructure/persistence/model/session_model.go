package model

import (
	"time"

	"ai-coder/services/coder-service/internal/domain"
)

type SessionModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;column:id"`
	SessionID   string    `gorm:"uniqueIndex:idx_session_id;size:36;not null;column:session_id"`
	UserID      string    `gorm:"index:idx_session_user_active,priority:1;size:36;not null;column:user_id"`
	Title       string    `gorm:"size:255;not null;column:title"`
	Description string    `gorm:"type:text;column:description"`
	IsActive    bool      `gorm:"index:idx_session_user_active,priority:2;not null;column:is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime;not null;column:created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;not null;column:updated_at"`
}

func (SessionModel) TableName() string {
	return "code_sessions"
}

func (m *SessionModel) ToDomain() *domain.Session {
	return &domain.Session{
		ID:          m.SessionID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToSessionModel(d *domain.Session) *SessionModel {
	return &SessionModel{
		SessionID:   d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
