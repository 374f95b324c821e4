package domain

import (
	"context"
	"time"
)

// SessionRepository stores sessions. Every lookup is scoped to the owning user, and a
// session owned by someone else is reported as ErrSessionNotFound.
//
// Create and Update enforce the single-active policy: when the written session has
// IsActive set, the owner's other sessions are deactivated in the same transaction.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Update(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, userID, sessionID string) (*Session, error)
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*Session, error)
	FindActive(ctx context.Context, userID string) ([]*Session, error)
	Delete(ctx context.Context, userID, sessionID string) error
}

// InteractionRepository stores interactions. Save also bumps the owning session's
// updated_at in the same transaction.
type InteractionRepository interface {
	Save(ctx context.Context, interaction *Interaction) error
	FindByID(ctx context.Context, userID, interactionID string) (*Interaction, error)
	// FindBySessionID returns interactions oldest first. limit <= 0 means all.
	FindBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]*Interaction, error)
	// FindRecent returns at most n interactions, newest first.
	FindRecent(ctx context.Context, sessionID string, n int) ([]*Interaction, error)
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*Interaction, error)
	Delete(ctx context.Context, userID, interactionID string) error
}

type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByLogin matches login against username or email, case-insensitively.
	FindByLogin(ctx context.Context, login string) (*User, error)
}

type Clock func() time.Time
