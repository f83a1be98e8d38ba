package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/securitylessons/backend/internal/access"
	"github.com/securitylessons/backend/internal/lessons"
	"github.com/securitylessons/backend/internal/models"
	"go.uber.org/zap"
)

// ResourceRepository is the interface that wraps methods for Resource table data access
type ResourceRepository interface {
	// Method GetByID retrieves a resource of a lesson kind by ID.
	//
	// If such resource does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, lesson, kind string, id int) (*models.Resource, error)
	// Method ListByOwner returns the resources of a lesson kind owned by a user.
	ListByOwner(ctx context.Context, lesson, kind string, ownerID int) ([]*models.Resource, error)
	// Method ListByKind returns every resource of a lesson kind.
	ListByKind(ctx context.Context, lesson, kind string) ([]*models.Resource, error)
	// Method UpdateTitle changes the title of a resource.
	//
	// If such resource does not exist, models.ErrNotFound will be returned.
	UpdateTitle(ctx context.Context, id int, title string) error
}

type resourceService struct {
	repo   ResourceRepository
	fixed  bool
	logger *zap.Logger
}

// NewResourceService creates the service behind the IDOR lessons.
// With "fixed" set, the vulnerable endpoints apply the same checks as the secure ones.
func NewResourceService(repo ResourceRepository, fixed bool, logger *zap.Logger) *resourceService {
	return &resourceService{
		repo:   repo,
		fixed:  fixed,
		logger: logger,
	}
}

// ListMine returns the resources of a kind owned by the principal
func (s *resourceService) ListMine(ctx context.Context, p *models.Principal, lesson *lessons.Lesson, kind string) ([]*models.Resource, error) {
	if p == nil {
		return nil, models.ErrUnauthenticated
	}
	return s.repo.ListByOwner(ctx, lesson.Name, kind, p.UserID)
}

// GetSecure returns a resource after checking the lesson policy against the session identity
func (s *resourceService) GetSecure(ctx context.Context, p *models.Principal, lesson *lessons.Lesson, kind string, id int) (*models.Resource, error) {
	if p == nil {
		return nil, models.ErrUnauthenticated
	}

	resource, err := s.repo.GetByID(ctx, lesson.Name, kind, id)
	if err != nil {
		return nil, err
	}

	if err := access.Check(p, lesson.Policy, resource.OwnerID); err != nil {
		s.logDenied(p, resource)
		return nil, err
	}

	return resource, nil
}

// GetVuln returns a resource applying only the check of the unpatched lesson.
// "claimedOwner" is the owner id sent by the client, read only by lessons that trust it.
func (s *resourceService) GetVuln(ctx context.Context, p *models.Principal, lesson *lessons.Lesson, kind string, id int, claimedOwner *int) (*models.Resource, error) {
	if s.fixed {
		return s.GetSecure(ctx, p, lesson, kind, id)
	}

	resource, err := s.repo.GetByID(ctx, lesson.Name, kind, id)
	if err != nil {
		return nil, err
	}

	if err := s.vulnCheck(p, lesson, resource, claimedOwner); err != nil {
		s.logDenied(p, resource)
		return nil, err
	}

	return resource, nil
}

// UpdateVuln renames a resource applying only the check of the unpatched lesson
func (s *resourceService) UpdateVuln(ctx context.Context, p *models.Principal, lesson *lessons.Lesson, kind string, id int, req *models.UpdateResourceRequest) (*models.Resource, error) {
	if s.fixed {
		return s.UpdateSecure(ctx, p, lesson, kind, id, req)
	}

	title, err := validateTitle(req)
	if err != nil {
		return nil, err
	}

	resource, err := s.repo.GetByID(ctx, lesson.Name, kind, id)
	if err != nil {
		return nil, err
	}

	if err := s.vulnCheck(p, lesson, resource, req.OwnerID); err != nil {
		s.logDenied(p, resource)
		return nil, err
	}

	return s.rename(ctx, resource, title)
}

// UpdateSecure renames a resource after checking the lesson policy against the session identity
func (s *resourceService) UpdateSecure(ctx context.Context, p *models.Principal, lesson *lessons.Lesson, kind string, id int, req *models.UpdateResourceRequest) (*models.Resource, error) {
	resource, err := s.GetSecure(ctx, p, lesson, kind, id)
	if err != nil {
		return nil, err
	}

	title, err := validateTitle(req)
	if err != nil {
		return nil, err
	}

	return s.rename(ctx, resource, title)
}

func (s *resourceService) vulnCheck(p *models.Principal, lesson *lessons.Lesson, resource *models.Resource, claimedOwner *int) error {
	switch lesson.VulnCheck {
	case access.CheckSession:
		return access.Check(p, access.OwnerOnly, resource.OwnerID)
	case access.CheckRequestOwner:
		return access.CheckClaimedOwner(claimedOwner, resource.OwnerID)
	default:
		return nil
	}
}

func (s *resourceService) rename(ctx context.Context, resource *models.Resource, title string) (*models.Resource, error) {
	if err := s.repo.UpdateTitle(ctx, resource.ID, title); err != nil {
		return nil, err
	}
	resource.Title = title
	return resource, nil
}

func (s *resourceService) logDenied(p *models.Principal, resource *models.Resource) {
	userID := 0
	if p != nil {
		userID = p.UserID
	}
	s.logger.Warn("access denied",
		zap.String("lesson", resource.Lesson),
		zap.String("kind", resource.Kind),
		zap.Int("resource_id", resource.ID),
		zap.Int("user_id", userID),
	)
}

// maxTitleLength matches the VARCHAR(255) title column, counted in characters
const maxTitleLength = 255

func validateTitle(req *models.UpdateResourceRequest) (string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", fmt.Errorf("%w: title is too long", models.ErrInvalidInput)
	}
	return title, nil
}
