package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/securitylessons/backend/internal/models"
	"go.uber.org/zap"
)

// ErrTokenRevoked is returned for tokens that were revoked or never recorded
var ErrTokenRevoked = errors.New("token has been revoked")

// TokenStore is the interface that wraps methods for token state storage
type TokenStore interface {
	// Method Record stores a freshly issued token as active.
	//
	// "jti" parameter is the token id, "expiresAt" bounds how long the record is kept.
	//
	// If some error occurs during saving, the error will be returned.
	Record(ctx context.Context, jti string, expiresAt time.Time) error
	// Method Revoke marks a token as revoked until it expires.
	//
	// If some error occurs during saving, the error will be returned.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	// Method IsRevoked reports whether a token is revoked.
	//
	// A token the store has never recorded is reported as revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenService wraps the token generator with revocation tracking
type TokenService struct {
	generator *TokenGenerator
	store     TokenStore
	logger    *zap.Logger
}

// NewTokenService creates a new token service
func NewTokenService(generator *TokenGenerator, store TokenStore, logger *zap.Logger) *TokenService {
	return &TokenService{
		generator: generator,
		store:     store,
		logger:    logger,
	}
}

// RecordToken stores the token described by claims as active
func (s *TokenService) RecordToken(ctx context.Context, claims *Claims) error {
	if err := s.store.Record(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to record token: %w", err)
	}
	return nil
}

// RevokeByJTI revokes a token by its id
func (s *TokenService) RevokeByJTI(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.store.Revoke(ctx, jti, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id is revoked
func (s *TokenService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	revoked, err := s.store.IsRevoked(ctx, jti)
	if err != nil {
		return false, fmt.Errorf("failed to check token state: %w", err)
	}
	return revoked, nil
}

// IsExpired reports whether the claims are expired at the given time
func (s *TokenService) IsExpired(claims *Claims, at time.Time) bool {
	return claims.ExpiresAt == nil || !at.Before(claims.ExpiresAt.Time)
}

// Login issues and records a new token pair for the principal
func (s *TokenService) Login(ctx context.Context, p *models.Principal) (*models.TokenPair, error) {
	return s.issuePair(ctx, p)
}

// VerifyAccess validates an access token and returns its principal.
// Revoked tokens are rejected with ErrTokenRevoked.
func (s *TokenService) VerifyAccess(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.generator.Parse(token, TypeAccess)
	if err != nil {
		return nil, err
	}

	if err := s.ensureActive(ctx, claims); err != nil {
		return nil, err
	}

	return claims.Principal()
}

// RefreshPair rotates a refresh token: a new pair is issued and the presented token is revoked
func (s *TokenService) RefreshPair(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.generator.Parse(refreshToken, TypeRefresh)
	if err != nil {
		return nil, err
	}

	if err := s.ensureActive(ctx, claims); err != nil {
		return nil, err
	}

	principal, err := claims.Principal()
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(ctx, principal)
	if err != nil {
		return nil, err
	}

	if err := s.RevokeByJTI(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}

	return pair, nil
}

// Revoke revokes a token of either type
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.generator.Parse(token, "")
	if err != nil {
		return err
	}
	return s.RevokeByJTI(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Introspect describes a token. A token that decodes is reported with its claims,
// active only while it is not revoked. Tokens that fail to decode report invalid_token.
func (s *TokenService) Introspect(ctx context.Context, token string) *models.Introspection {
	invalid := &models.Introspection{Active: false, Error: "invalid_token"}

	claims, err := s.generator.Parse(token, "")
	if err != nil {
		return invalid
	}

	revoked, err := s.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("failed to introspect token", zap.Error(err), zap.String("jti", claims.ID))
		return invalid
	}

	return &models.Introspection{
		Active: !revoked,
		Sub:    claims.Subject,
		Typ:    claims.Type,
		Exp:    claims.ExpiresAt.Unix(),
		JTI:    claims.ID,
	}
}

func (s *TokenService) ensureActive(ctx context.Context, claims *Claims) error {
	revoked, err := s.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func (s *TokenService) issuePair(ctx context.Context, p *models.Principal) (*models.TokenPair, error) {
	accessToken, accessClaims, err := s.generator.Issue(p, TypeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, refreshClaims, err := s.generator.Issue(p, TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.RecordToken(ctx, accessClaims); err != nil {
		return nil, err
	}
	if err := s.RecordToken(ctx, refreshClaims); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.generator.AccessTokenExpiry().Seconds()),
	}, nil
}
