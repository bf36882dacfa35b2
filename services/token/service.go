package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/services/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrWrongTokenKind   = errors.New("wrong token kind")
)

// Kind distinguishes the two credential classes carried in the
// token_type claim.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenKind string `json:"token_type"`
	JTI       string `json:"jti"`
	jwt.RegisteredClaims
}

// Service signs and validates the access/refresh credential pair. It is
// pure over the configured secret: no store access, no side effects.
type Service struct {
	config *config.Config
	logger *logging.Service
}

func NewService(cfg *config.Config, logger *logging.Service) *Service {
	return &Service{
		config: cfg,
		logger: logger,
	}
}

func (s *Service) AccessExpiry() time.Duration {
	return s.config.JWT.AccessExpiry
}

func (s *Service) RefreshExpiry() time.Duration {
	return s.config.JWT.RefreshExpiry
}

func (s *Service) IssueAccess(userID uint) (string, error) {
	return s.issue(userID, KindAccess, s.config.JWT.AccessExpiry)
}

func (s *Service) IssueRefresh(userID uint) (string, error) {
	return s.issue(userID, KindRefresh, s.config.JWT.RefreshExpiry)
}

func (s *Service) issue(userID uint, kind Kind, lifetime time.Duration) (string, error) {
	now := time.Now()
	jti := uuid.New().String()
	claims := Claims{
		UserID:    userID,
		TokenKind: string(kind),
		JTI:       jti,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.config.JWT.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			Audience:  []string{s.config.JWT.Issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString([]byte(s.config.JWT.SecretKey))
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to sign token",
				zap.String("kind", string(kind)),
				zap.Error(err))
		}
		return "", fmt.Errorf("failed to issue %s token: %w", kind, err)
	}

	return tokenString, nil
}

// Validate verifies the signature before trusting any claim, then maps
// library errors onto the package sentinels.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() == "none" {
			return nil, errors.New("'none' algorithm is not allowed")
		}

		if t.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected algorithm: expected HS256, got %s", t.Method.Alg())
		}

		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid algorithm family: %v", t.Header["alg"])
		}

		return []byte(s.config.JWT.SecretKey), nil
	})

	if err != nil {
		if s.logger != nil {
			s.logger.Debug("token validation failed", zap.Error(err))
		}

		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ValidateKind validates and additionally requires the token_type claim
// to match, so a refresh credential can never authorize a request and
// vice versa.
func (s *Service) ValidateKind(tokenString string, kind Kind) (*Claims, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenKind != string(kind) {
		if s.logger != nil {
			s.logger.Warn("token kind mismatch",
				zap.String("expected", string(kind)),
				zap.String("got", claims.TokenKind))
		}
		return nil, ErrWrongTokenKind
	}

	return claims, nil
}

// RemainingLifetime reports how long the credential stays valid; zero or
// negative means already expired.
func (s *Service) RemainingLifetime(claims *Claims) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}

// Hash is the canonical digest under which credentials are blacklisted
// and recorded in session records.
func Hash(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}
