package dto

import (
	"time"

	"ai-coder/config"
	"ai-coder/services/coder-service/internal/domain"
)

type CreateSessionReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateSessionReq is a partial update: nil fields are left alone.
type UpdateSessionReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type SessionResp struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SessionDetailResp struct {
	SessionResp
	Interactions []*InteractionResp `json:"interactions"`
}

type CreateInteractionReq struct {
	SessionID string `json:"session_id"`
	Prompt    string `json:"prompt"`
	Language  string `json:"language"`
	ThinkMode bool   `json:"think_mode"`
}

type InteractionResp struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Prompt      string    `json:"prompt"`
	Response    string    `json:"response"`
	CodeSnippet string    `json:"code_snippet"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateInteractionResp struct {
	InteractionResp
	CodeSnippets []domain.Snippet `json:"code_snippets"`
}

type CodeReq struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type RunCodeResp struct {
	Output string `json:"output"`
}

type FormatCodeResp struct {
	FormattedCode string `json:"formatted_code"`
}

type WorkspaceResp struct {
	CodeLanguages   []config.LanguageOption `json:"code_languages"`
	DefaultLanguage string                  `json:"default_language"`
	ActiveSessionID string                  `json:"active_session_id"`
}

func ToSessionResp(s *domain.Session) *SessionResp {
	return &SessionResp{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func ToSessionDetailResp(s *domain.Session) *SessionDetailResp {
	interactions := make([]*InteractionResp, len(s.Interactions))
	for i, in := range s.Interactions {
		interactions[i] = ToInteractionResp(in)
	}
	return &SessionDetailResp{
		SessionResp:  *ToSessionResp(s),
		Interactions: interactions,
	}
}

func ToInteractionResp(i *domain.Interaction) *InteractionResp {
	return &InteractionResp{
		ID:          i.ID,
		SessionID:   i.SessionID,
		Prompt:      i.Prompt,
		Response:    i.Response,
		CodeSnippet: i.CodeSnippet,
		Language:    i.Language,
		CreatedAt:   i.CreatedAt,
	}
}
