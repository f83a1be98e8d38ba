package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/securitylessons/backend/internal/models"
	"github.com/securitylessons/backend/internal/passwords"
	"go.uber.org/zap"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user, its ID is filled on success.
	//
	// If the username is taken, models.ErrUserExists will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.User, error)
	// Method GetByUsername retrieves a user by username.
	//
	// If user with such username does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Method UpdatePasswordHash replaces the stored password hash of a user.
	//
	// If user with such ID does not exist, models.ErrNotFound will be returned.
	UpdatePasswordHash(ctx context.Context, id int, passwordHash string) error
}

// TokenService is the interface that wraps the token lifecycle operations
type TokenService interface {
	// Method Login issues and records a new access/refresh token pair for the principal.
	Login(ctx context.Context, p *models.Principal) (*models.TokenPair, error)
	// Method RefreshPair revokes the presented refresh token and issues a new pair.
	RefreshPair(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	// Method Revoke revokes an access or refresh token.
	Revoke(ctx context.Context, token string) error
	// Method Introspect describes a token; invalid tokens are reported as inactive.
	Introspect(ctx context.Context, token string) *models.Introspection
}

// PasswordPolicyError is returned when a password does not satisfy the password policy
type PasswordPolicyError struct {
	Result passwords.ValidationResult
}

func (e *PasswordPolicyError) Error() string {
	return "password does not meet requirements: " + strings.Join(e.Result.Errors, ", ")
}

type authService struct {
	users         UserRepository
	tokens        TokenService
	hasher        passwords.Hasher
	enforcePolicy bool
	logger        *zap.Logger
}

// NewAuthService creates a new auth service.
// "hasher" is the scheme used for new hashes; hashes of other schemes are upgraded on login.
// "enforcePolicy" turns on password policy validation at registration.
func NewAuthService(users UserRepository, tokens TokenService, hasher passwords.Hasher, enforcePolicy bool, logger *zap.Logger) *authService {
	return &authService{
		users:         users,
		tokens:        tokens,
		hasher:        hasher,
		enforcePolicy: enforcePolicy,
		logger:        logger,
	}
}

// Register creates a new user without roles
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", models.ErrInvalidInput)
	}

	if s.enforcePolicy {
		if result := passwords.Validate(req.Password); !result.IsValid {
			return nil, &PasswordPolicyError{Result: result}
		}
	} else if req.Password == "" {
		return nil, fmt.Errorf("%w: password is required", models.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Roles:        models.RoleNone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int("user_id", user.ID), zap.String("scheme", s.hasher.Name()))
	return user, nil
}

// Login verifies the credentials and issues a token pair.
// Hashes produced by another scheme than the configured one are replaced after a successful login.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, needsRehash, err := passwords.Verify(s.hasher, user.PasswordHash, req.Password)
	if err != nil {
		s.logger.Error("failed to verify password", zap.Error(err), zap.Int("user_id", user.ID))
		return nil, models.ErrInvalidCredentials
	}
	if !ok {
		return nil, models.ErrInvalidCredentials
	}

	if needsRehash {
		s.upgradeHash(ctx, user, req.Password)
	}

	return s.tokens.Login(ctx, user.Principal())
}

// Refresh rotates a refresh token
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, models.ErrUnauthenticated
	}
	return s.tokens.RefreshPair(ctx, refreshToken)
}

// Logout revokes every non-empty token given
func (s *authService) Logout(ctx context.Context, tokens ...string) error {
	var errs []error
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if err := s.tokens.Revoke(ctx, token); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Introspect describes a token
func (s *authService) Introspect(ctx context.Context, token string) *models.Introspection {
	return s.tokens.Introspect(ctx, token)
}

// Me returns the user behind the principal
func (s *authService) Me(ctx context.Context, p *models.Principal) (*models.User, error) {
	if p == nil {
		return nil, models.ErrUnauthenticated
	}
	return s.users.GetByID(ctx, p.UserID)
}

func (s *authService) upgradeHash(ctx context.Context, user *models.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to rehash password", zap.Error(err), zap.Int("user_id", user.ID))
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.Error("failed to store upgraded password hash", zap.Error(err), zap.Int("user_id", user.ID))
		return
	}
	user.PasswordHash = hash
	s.logger.Info("password hash upgraded", zap.Int("user_id", user.ID), zap.String("scheme", s.hasher.Name()))
}
