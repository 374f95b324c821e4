package domain

import "errors"

// request
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// ownership
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrInteractionNotFound = errors.New("interaction not found")
)

// model service
var (
	ErrUpstreamUnavailable = errors.New("model service unavailable")
	ErrModelTimeout        = errors.New("model service timed out")
)

// code utilities
var (
	ErrFormatterUnavailable = errors.New("code formatter is not available")
	ErrFormatFailed         = errors.New("formatting failed")
	ErrExecutionTimeout     = errors.New("code execution timed out")
	ErrExecutionFailed      = errors.New("execution failed")
)

// user
var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrEmailInUse        = errors.New("this email is already in use")
	ErrInvalidUsername   = errors.New("username must be 1-150 letters, digits or @.+-_")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid username/email or password")
)

// token
var (
	ErrTokenGenerateFailed = errors.New("generate token failed")
	ErrInvalidToken        = errors.New("invalid token")
)
