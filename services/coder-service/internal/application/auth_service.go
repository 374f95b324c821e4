package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"sync"
	"time"

	"ai-coder/services/coder-service/internal/application/dto"
	"ai-coder/services/coder-service/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const minPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

type AuthService struct {
	users       domain.UserRepository
	tokens      domain.TokenService
	passwords   domain.PasswordService
	rememberTTL time.Duration

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users domain.UserRepository,
	tokens domain.TokenService,
	passwords domain.PasswordService,
	rememberTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		passwords:   passwords,
		rememberTTL: rememberTTL,
	}
}

func validateUser(req *dto.RegisterReq) error {
	if !usernamePattern.MatchString(req.Username) {
		return domain.ErrInvalidUsername
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return domain.ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", domain.ErrInvalidPassword, minPasswordLength)
	}
	if req.PasswordConfirm != "" && req.PasswordConfirm != req.Password {
		return fmt.Errorf("%w: passwords do not match", domain.ErrInvalidPassword)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterReq) (*dto.UserResp, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateUser(req); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrEmailInUse
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Password:  hashedPassword,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	log.FromContext(ctx).Info("user registered", "user_id", user.ID, "username", user.Username)
	return toUserResp(user), nil
}

// Login authenticates by username or email. An unknown login still pays for one
// hash comparison so it cannot be told apart by timing.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginReq) (*dto.LoginResp, error) {
	user, err := s.users.FindByLogin(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.passwords.Compare(s.dummy(), req.Password)
			return nil, domain.ErrInvalidCredential
		}
		return nil, err
	}
	if !s.passwords.Compare(user.Password, req.Password) {
		return nil, domain.ErrInvalidCredential
	}

	accessToken, accessExp, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	var refreshTTL time.Duration
	if req.RememberMe {
		refreshTTL = s.rememberTTL
	}
	refreshToken, refreshExp, err := s.tokens.GenerateRefreshToken(user.ID, user.Username, refreshTTL)
	if err != nil {
		return nil, err
	}
	log.FromContext(ctx).Info("user logged in", "user_id", user.ID, "remember_me", req.RememberMe)

	return &dto.LoginResp{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresAt:        accessExp.Unix(),
		RefreshExpiresAt: refreshExp.Unix(),
		UserID:           user.ID,
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshReq) (*dto.LoginResp, error) {
	accessToken, accessExp, err := s.tokens.RefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResp{
		AccessToken: accessToken,
		ExpiresAt:   accessExp.Unix(),
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*dto.UserResp, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResp(user), nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.passwords.Hash(uuid.NewString())
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

func toUserResp(u *domain.User) *dto.UserResp {
	return &dto.UserResp{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
