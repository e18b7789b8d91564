package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

// DefaultTokenTTL is the lifetime of tokens issued by cmd/admintoken.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrMissingSecret = errors.New("jwt secret is empty")
	ErrNotAdmin      = errors.New("token does not grant admin access")
)

// AuthService issues and validates the bearer tokens guarding the admin
// endpoints. Tokens are HS256-signed with the configured secret.
type AuthService struct {
	secret []byte
	now    func() time.Time
}

func NewAuthService(jwtSecret string) (*AuthService, error) {
	if jwtSecret == "" {
		return nil, ErrMissingSecret
	}
	return &AuthService{secret: []byte(jwtSecret), now: time.Now}, nil
}

// GenerateToken signs an admin token for subject, valid for ttl.
func (s *AuthService) GenerateToken(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := types.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: types.RoleAdmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses tokenString and requires the admin role.
func (s *AuthService) ValidateToken(tokenString string) (*types.AdminClaims, error) {
	claims := &types.AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role != types.RoleAdmin {
		return nil, ErrNotAdmin
	}
	return claims, nil
}
