package domain

import (
	"context"
	"time"
)

type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

type GenerateRequest struct {
	Model   string
	Prompt  string
	System  string
	Options GenerateOptions
}

type GenerateResponse struct {
	Text  string
	Model string
}

// ModelClient talks to the inference endpoint. Implementations wrap transport
// failures in ErrUpstreamUnavailable and deadline overruns in ErrModelTimeout.
type ModelClient interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// CodeFormatter is an optional capability. When Available reports false, Format
// must return the code unchanged.
type CodeFormatter interface {
	Available() bool
	Format(ctx context.Context, code, language string) (string, error)
}

type CodeExecutor interface {
	Execute(ctx context.Context, code string) (string, error)
}

type PasswordService interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) bool
}

type TokenService interface {
	GenerateAccessToken(userID, username string) (string, time.Time, error)
	GenerateRefreshToken(userID, username string, ttl time.Duration) (string, time.Time, error)
	ValidateToken(token string) (*TokenClaims, error)
	RefreshToken(refreshToken string) (string, time.Time, error)
}
