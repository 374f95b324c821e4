package model

import (
	"time"

	"ai-coder/services/coder-service/internal/domain"
)

type InteractionModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement;column:id"`
	InteractionID string    `gorm:"uniqueIndex:idx_interaction_id;size:36;not null;column:interaction_id"`
	SessionID     string    `gorm:"index:idx_interaction_session;size:36;not null;column:session_id"`
	Prompt        string    `gorm:"type:text;not null;column:prompt"`
	Response      string    `gorm:"type:text;not null;column:response"`
	CodeSnippet   string    `gorm:"type:text;column:code_snippet"`
	Language      string    `gorm:"size:50;not null;column:language"`
	CreatedAt     time.Time `gorm:"autoCreateTime;not null;column:created_at"`
}

func (InteractionModel) TableName() string {
	return "code_interactions"
}

func (m *InteractionModel) ToDomain() *domain.Interaction {
	return &domain.Interaction{
		ID:          m.InteractionID,
		SessionID:   m.SessionID,
		Prompt:      m.Prompt,
		Response:    m.Response,
		CodeSnippet: m.CodeSnippet,
		Language:    m.Language,
		CreatedAt:   m.CreatedAt,
	}
}

func ToInteractionModel(d *domain.Interaction) *InteractionModel {
	return &InteractionModel{
		InteractionID: d.ID,
		SessionID:     d.SessionID,
		Prompt:        d.Prompt,
		Response:      d.Response,
		CodeSnippet:   d.CodeSnippet,
		Language:      d.Language,
		CreatedAt:     d.CreatedAt,
	}
}
