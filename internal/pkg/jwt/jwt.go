package jwt

import (
	"errors"
	"time"

	"venue-booking-gateway/internal/pkg/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Claims struct {
	UserID string `json:"user_id"`
	Kind   Kind   `json:"kind"`
	// Generation lets the issuer revoke every outstanding access token at once.
	Generation int `json:"gen,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secretKey     []byte
	tokenDuration time.Duration
	kind          Kind
	clock         clock.Clock
}

func NewService(secretKey string, tokenDuration time.Duration, kind Kind, clk clock.Clock) *Service {
	return &Service{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		kind:          kind,
		clock:         clk,
	}
}

func (s *Service) Duration() time.Duration {
	return s.tokenDuration
}

func (s *Service) GenerateToken(userID string, generation int) (string, *Claims, error) {
	now := s.clock.Now()
	claims := &Claims{
		UserID:     userID,
		Kind:       s.kind,
		Generation: generation,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.clock.Now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != s.kind {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
