package security

import (
	"fmt"
	"time"

	"ai-coder/config"
	"ai-coder/services/coder-service/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SubjectAccess  = "access"
	SubjectRefresh = "refresh"
)

type JWTService struct {
	secretKey         string
	expirationAccess  time.Duration
	expirationRefresh time.Duration
}

type Claims struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

func NewJWTService(cfg config.AuthConfig) *JWTService {
	return &JWTService{
		secretKey:         cfg.JwtSecret,
		expirationAccess:  time.Duration(cfg.Expire_Access_H) * time.Hour,
		expirationRefresh: time.Duration(cfg.Expire_Refresh_H) * time.Hour,
	}
}

func (j *JWTService) sign(userID, userName, subject string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %w", domain.ErrTokenGenerateFailed, err)
	}
	return tokenStr, claims.ExpiresAt.Time, nil
}

func (j *JWTService) GenerateAccessToken(userID, userName string) (string, time.Time, error) {
	return j.sign(userID, userName, SubjectAccess, j.expirationAccess)
}

// GenerateRefreshToken signs a refresh token. A zero ttl uses the configured lifetime.
func (j *JWTService) GenerateRefreshToken(userID, userName string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = j.expirationRefresh
	}
	return j.sign(userID, userName, SubjectRefresh, ttl)
}

func (j *JWTService) parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.secretKey), nil
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (j *JWTService) ValidateToken(tokenStr string) (*domain.TokenClaims, error) {
	claims, err := j.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	return &domain.TokenClaims{
		UserID:    claims.UserID,
		Username:  claims.UserName,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (j *JWTService) RefreshToken(tokenStr string) (string, time.Time, error) {
	claims, err := j.parse(tokenStr)
	if err != nil {
		return "", time.Time{}, err
	}
	if claims.Subject != SubjectRefresh {
		return "", time.Time{}, fmt.Errorf("%w: not a refresh token", domain.ErrInvalidToken)
	}
	return j.GenerateAccessToken(claims.UserID, claims.UserName)
}
