// Package auth issues, verifies and revokes JWT access and refresh tokens
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/securitylessons/backend/internal/models"
)

// Token types
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	// ErrSecretNotConfigured is returned when a token is issued or verified without a signing secret
	ErrSecretNotConfigured = errors.New("jwt secret is not configured")
	// ErrInvalidToken is returned for tokens that fail to parse or validate
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenType is returned when a refresh token is used as an access token or vice versa
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims are the claims carried by access and refresh tokens
type Claims struct {
	Username string      `json:"username"`
	Roles    models.Role `json:"roles"`
	Type     string      `json:"typ"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject of the token
func (c *Claims) UserID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}

// Principal returns the identity carried by the token
func (c *Claims) Principal() (*models.Principal, error) {
	id, err := c.UserID()
	if err != nil {
		return nil, err
	}
	return &models.Principal{UserID: id, Username: c.Username, Roles: c.Roles}, nil
}

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	now                func() time.Time
}

// NewTokenGenerator creates a new token generator.
// An empty secret is accepted here and reported when a token is issued or verified.
func NewTokenGenerator(secret string, accessExpiry, refreshExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:             secret,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
		now:                time.Now,
	}
}

// AccessTokenExpiry returns the lifetime of access tokens
func (tg *TokenGenerator) AccessTokenExpiry() time.Duration {
	return tg.accessTokenExpiry
}

// Issue signs a new token of the given type for the principal and returns it with its claims
func (tg *TokenGenerator) Issue(p *models.Principal, tokenType string) (string, *Claims, error) {
	if tg.secret == "" {
		return "", nil, ErrSecretNotConfigured
	}

	expiry := tg.accessTokenExpiry
	if tokenType == TypeRefresh {
		expiry = tg.refreshTokenExpiry
	}

	now := tg.now()
	claims := &Claims{
		Username: p.Username,
		Roles:    p.Roles,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(p.UserID),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return tokenString, claims, nil
}

// Parse validates the signature and expiry of a token and checks its type.
// An empty expectedType accepts both token types.
func (tg *TokenGenerator) Parse(tokenString, expectedType string) (*Claims, error) {
	if tg.secret == "" {
		return nil, ErrSecretNotConfigured
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	}, jwt.WithTimeFunc(tg.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != TypeAccess && claims.Type != TypeRefresh {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidToken, claims.Type)
	}
	if expectedType != "" && claims.Type != expectedType {
		return nil, fmt.Errorf("%w: expected %s token", ErrWrongTokenType, expectedType)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", ErrInvalidToken)
	}

	return claims, nil
}
