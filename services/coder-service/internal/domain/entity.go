package domain

import "time"

const (
	DefaultSessionTitle = "Coding Session"
	MaxTitleLength      = 255
	PlainTextLanguage   = "text"
)

// Session groups the interactions of one user. At most one session per user is active.
type Session struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Interactions []*Interaction
}

// Interaction is one prompt/response exchange inside a session.
type Interaction struct {
	ID          string
	SessionID   string
	Prompt      string
	Response    string
	CodeSnippet string
	Language    string
	CreatedAt   time.Time
}

// Snippet is a labeled fragment of code pulled out of model output. Not persisted.
type Snippet struct {
	Language string `json:"language" yaml:"language"`
	Code     string `json:"code" yaml:"code"`
}

type User struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string // bcrypt hash
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TokenClaims struct {
	UserID    string
	Username  string
	Subject   string
	ExpiresAt time.Time
}
