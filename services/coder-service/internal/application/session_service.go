package application

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ai-coder/config"
	"ai-coder/services/coder-service/internal/application/dto"
	"ai-coder/services/coder-service/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type SessionService struct {
	sessions     domain.SessionRepository
	interactions domain.InteractionRepository
	coder        config.CoderConfig
	now          domain.Clock
}

func NewSessionService(
	sessions domain.SessionRepository,
	interactions domain.InteractionRepository,
	coder config.CoderConfig,
) *SessionService {
	return &SessionService{
		sessions:     sessions,
		interactions: interactions,
		coder:        coder,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", domain.ErrInvalidArgument, domain.MaxTitleLength)
	}
	return title, nil
}

// Create starts a new session and makes it the user's only active one.
func (s *SessionService) Create(ctx context.Context, userID string, req *dto.CreateSessionReq) (*dto.SessionResp, error) {
	title, err := validTitle(req.Title)
	if err != nil {
		return nil, err
	}
	now := s.now()
	session := &domain.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	log.FromContext(ctx).Info("session created", "session_id", session.ID, "user_id", userID)
	return dto.ToSessionResp(session), nil
}

func (s *SessionService) List(ctx context.Context, userID string, limit, offset int) ([]*dto.SessionResp, error) {
	sessions, err := s.sessions.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := make([]*dto.SessionResp, len(sessions))
	for i, session := range sessions {
		resp[i] = dto.ToSessionResp(session)
	}
	return resp, nil
}

// Load returns the session with its interactions in creation order.
func (s *SessionService) Load(ctx context.Context, userID, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.FindByID(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	session.Interactions, err = s.interactions.FindBySessionID(ctx, session.ID, 0, 0)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, userID, sessionID string) (*dto.SessionDetailResp, error) {
	session, err := s.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return dto.ToSessionDetailResp(session), nil
}

func (s *SessionService) Update(ctx context.Context, userID, sessionID string, req *dto.UpdateSessionReq) (*dto.SessionDetailResp, error) {
	session, err := s.sessions.FindByID(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		if session.Title, err = validTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		session.Description = *req.Description
	}
	if req.IsActive != nil {
		session.IsActive = *req.IsActive
	}
	session.UpdatedAt = s.now()

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, sessionID)
}

func (s *SessionService) Delete(ctx context.Context, userID, sessionID string) error {
	if err := s.sessions.Delete(ctx, userID, sessionID); err != nil {
		return err
	}
	log.FromContext(ctx).Info("session deleted", "session_id", sessionID, "user_id", userID)
	return nil
}

// Workspace returns the editor bootstrap data. It creates a session when the user
// has none active, and when older data left several active it keeps the most
// recently updated one.
func (s *SessionService) Workspace(ctx context.Context, userID string) (*dto.WorkspaceResp, error) {
	active, err := s.ActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.WorkspaceResp{
		CodeLanguages:   s.coder.Languages,
		DefaultLanguage: s.coder.DefaultLanguage,
		ActiveSessionID: active.ID,
	}, nil
}

func (s *SessionService) ActiveSession(ctx context.Context, userID string) (*domain.Session, error) {
	logger := log.FromContext(ctx)
	active, err := s.sessions.FindActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch len(active) {
	case 0:
		now := s.now()
		session := &domain.Session{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     domain.DefaultSessionTitle,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.sessions.Create(ctx, session); err != nil {
			return nil, err
		}
		logger.Info("workspace session created", "session_id", session.ID, "user_id", userID)
		return session, nil
	case 1:
		return active[0], nil
	default:
		// Update on an active session deactivates the rest; updated_at is kept.
		keep := active[0]
		if err := s.sessions.Update(ctx, keep); err != nil {
			return nil, err
		}
		logger.Warn("reconciled multiple active sessions", "user_id", userID, "kept", keep.ID, "deactivated", len(active)-1)
		return keep, nil
	}
}
