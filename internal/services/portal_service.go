package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/securitylessons/backend/internal/access"
	"github.com/securitylessons/backend/internal/lessons"
	"github.com/securitylessons/backend/internal/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// AttachmentRepository is the interface that wraps methods for Attachment table data access
type AttachmentRepository interface {
	// Method GetByID retrieves an attachment by ID.
	//
	// If such attachment does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Attachment, error)
	// Method ListByResource returns the attachments of a resource.
	ListByResource(ctx context.Context, resourceID int) ([]*models.Attachment, error)
}

// UserDirectory is the interface that wraps read access to users used by the portals
type UserDirectory interface {
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.User, error)
	// Method List returns every user.
	List(ctx context.Context) ([]*models.User, error)
}

// FileStorage is the interface that wraps read access to stored files
type FileStorage interface {
	// Method Open opens the file stored under key.
	//
	// Missing files are reported as models.ErrNotFound, keys leaving the storage root as an error.
	Open(key string) (afero.File, error)
}

// ShareStore is the interface that wraps share link storage
type ShareStore interface {
	// Method PutShare stores a share token pointing at value for ttl.
	PutShare(ctx context.Context, token, value string, ttl time.Duration) error
	// Method GetShare returns the value of a share token.
	//
	// Unknown or expired tokens are reported as models.ErrNotFound.
	GetShare(ctx context.Context, token string) (string, error)
}

// PortalOptions configures the force browsing portals
type PortalOptions struct {
	// Fixed closes the hidden endpoints of the portals
	Fixed bool
	// Debug is reported by the staging debug endpoint
	Debug bool
	// SecretKey is the application secret exposed by the staging debug endpoint
	SecretKey string
	// ShareTTL is the lifetime of generated share links
	ShareTTL time.Duration
}

// Download is an opened stored file
type Download struct {
	Filename string
	File     afero.File
}

type portalService struct {
	resources   ResourceRepository
	attachments AttachmentRepository
	users       UserDirectory
	files       FileStorage
	shares      ShareStore
	opts        PortalOptions
	logger      *zap.Logger
}

// NewPortalService creates the service behind the force browsing portals
func NewPortalService(
	resources ResourceRepository,
	attachments AttachmentRepository,
	users UserDirectory,
	files FileStorage,
	shares ShareStore,
	opts PortalOptions,
	logger *zap.Logger,
) *portalService {
	if opts.ShareTTL <= 0 {
		opts.ShareTTL = 10 * time.Minute
	}
	return &portalService{
		resources:   resources,
		attachments: attachments,
		users:       users,
		files:       files,
		shares:      shares,
		opts:        opts,
		logger:      logger,
	}
}

// Index describes the portal and the links shown to the principal
func (s *portalService) Index(ctx context.Context, p *models.Principal, portal *lessons.Portal) map[string]any {
	base := "/portal/" + portal.Name
	links := []string{base + "/"}
	if p != nil {
		links = append(links, base+"/"+portal.Area+"/"+portal.Records+"/")
		if p.Roles.Has(models.RoleAdmin) {
			links = append(links, base+"/ui/admin/dashboard/")
		}
	}

	return map[string]any{
		"portal":        portal.Name,
		"title":         portal.Title,
		"authenticated": p != nil,
		"links":         links,
	}
}

// Maintenance is the forgotten legacy admin console. Once fixed it is restricted to admins.
func (s *portalService) Maintenance(ctx context.Context, p *models.Principal, portal *lessons.Portal) (map[string]any, error) {
	if s.opts.Fixed {
		if err := access.Check(p, access.RolesOnly(models.RoleAdmin)); err != nil {
			return nil, err
		}
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"portal":  portal.Name,
		"console": "maintenance",
		"users": lo.Map(users, func(u *models.User, _ int) map[string]any {
			return map[string]any{"id": u.ID, "username": u.Username, "roles": u.Roles.Names()}
		}),
	}, nil
}

// StagingDebug is a left over staging endpoint exposing the runtime configuration.
// Once fixed it does not exist.
func (s *portalService) StagingDebug(ctx context.Context, portal *lessons.Portal) (map[string]any, error) {
	if s.opts.Fixed {
		return nil, models.ErrNotFound
	}

	return map[string]any{
		"portal":     portal.Name,
		"debug":      s.opts.Debug,
		"secret_key": s.opts.SecretKey,
		"storage":    portal.StoragePrefix,
		"tokens":     lo.Keys(portal.Tokens),
	}, nil
}

// Crash is the unhandled error page of the portal. The panic value carries the
// application secret; only a debug recovery page shows it.
func (s *portalService) Crash(portal *lessons.Portal) {
	panic(fmt.Sprintf("%s portal crashed while loading settings (SECRET_KEY=%s)", portal.Name, s.opts.SecretKey))
}

// RecordView is the unlinked JSON view of a record. Once fixed it applies the record policy.
func (s *portalService) RecordView(ctx context.Context, p *models.Principal, portal *lessons.Portal, id int) (*models.RecordView, error) {
	resource, err := s.resources.GetByID(ctx, portal.Name, portal.Records, id)
	if err != nil {
		return nil, err
	}

	if s.opts.Fixed {
		if err := access.Check(p, portal.RecordPolicy, resource.OwnerID); err != nil {
			return nil, err
		}
	}

	return s.recordView(ctx, resource)
}

// DownloadVuln is the direct storage download. Once fixed it applies the document policy.
func (s *portalService) DownloadVuln(ctx context.Context, p *models.Principal, portal *lessons.Portal, attachmentID int) (*Download, error) {
	attachment, resource, err := s.loadAttachment(ctx, portal, attachmentID)
	if err != nil {
		return nil, err
	}

	if s.opts.Fixed {
		if err := access.Check(p, portal.DocumentPolicy, attachment.OwnerID, resource.OwnerID); err != nil {
			return nil, err
		}
	}

	return s.open(attachment.StorageKey, attachment.Filename)
}

// ExportUser exports a user profile. Once fixed only the user themself or an admin may export it.
func (s *portalService) ExportUser(ctx context.Context, p *models.Principal, userID int) (*models.UserExport, error) {
	if s.opts.Fixed {
		if err := access.Check(p, access.OwnerOr(models.RoleAdmin), userID); err != nil {
			return nil, err
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.NewUserExport(user), nil
}

// DownloadByToken resolves a download token.
// The unpatched portal accepts its guessable tokens before share links; once fixed only share links work.
func (s *portalService) DownloadByToken(ctx context.Context, portal *lessons.Portal, token string) (*Download, error) {
	if token == "" {
		return nil, models.ErrNotFound
	}

	if !s.opts.Fixed {
		if key, ok := portal.Tokens[token]; ok {
			return s.open(key, path.Base(key))
		}
	}

	return s.downloadShare(ctx, portal, token)
}

func (s *portalService) downloadShare(ctx context.Context, portal *lessons.Portal, token string) (*Download, error) {
	value, err := s.shares.GetShare(ctx, token)
	if err != nil {
		return nil, err
	}

	attachmentID, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("corrupt share link %q: %w", token, err)
	}

	attachment, _, err := s.loadAttachment(ctx, portal, attachmentID)
	if err != nil {
		return nil, err
	}
	return s.open(attachment.StorageKey, attachment.Filename)
}

// DownloadShared resolves a share link created by ShareDocument
func (s *portalService) DownloadShared(ctx context.Context, portal *lessons.Portal, token string) (*Download, error) {
	if token == "" {
		return nil, models.ErrNotFound
	}
	return s.downloadShare(ctx, portal, token)
}

// ListRecords lists the records visible to the principal in the role gated area
func (s *portalService) ListRecords(ctx context.Context, p *models.Principal, portal *lessons.Portal) ([]*models.Resource, error) {
	if p == nil {
		return nil, models.ErrUnauthenticated
	}
	if !portal.CanList(p) {
		return nil, models.ErrForbidden
	}

	if portal.ListsAll(p) {
		return s.resources.ListByKind(ctx, portal.Name, portal.Records)
	}
	return s.resources.ListByOwner(ctx, portal.Name, portal.Records, p.UserID)
}

// RecordDetail returns a record of the role gated area
func (s *portalService) RecordDetail(ctx context.Context, p *models.Principal, portal *lessons.Portal, id int) (*models.RecordView, error) {
	if p == nil {
		return nil, models.ErrUnauthenticated
	}

	resource, err := s.resources.GetByID(ctx, portal.Name, portal.Records, id)
	if err != nil {
		return nil, err
	}

	if err := access.Check(p, portal.RecordPolicy, resource.OwnerID); err != nil {
		return nil, err
	}

	return s.recordView(ctx, resource)
}

// DownloadDocument returns an attachment of the role gated area
func (s *portalService) DownloadDocument(ctx context.Context, p *models.Principal, portal *lessons.Portal, attachmentID int) (*Download, error) {
	attachment, err := s.authorizeDocument(ctx, p, portal, attachmentID)
	if err != nil {
		return nil, err
	}
	return s.open(attachment.StorageKey, attachment.Filename)
}

// ShareDocument creates a short lived random download link for an attachment
func (s *portalService) ShareDocument(ctx context.Context, p *models.Principal, portal *lessons.Portal, attachmentID int) (*models.ShareLink, error) {
	attachment, err := s.authorizeDocument(ctx, p, portal, attachmentID)
	if err != nil {
		return nil, err
	}

	token := uuid.New().String()
	if err := s.shares.PutShare(ctx, token, strconv.Itoa(attachment.ID), s.opts.ShareTTL); err != nil {
		return nil, err
	}

	return &models.ShareLink{
		Token:     token,
		URL:       fmt.Sprintf("/portal/%s/download/?token=%s", portal.Name, url.QueryEscape(token)),
		ExpiresIn: int64(s.opts.ShareTTL.Seconds()),
	}, nil
}

// AdminDashboard is the hidden admin UI. The unpatched portal only asks for a login.
func (s *portalService) AdminDashboard(ctx context.Context, p *models.Principal, portal *lessons.Portal) (map[string]any, error) {
	if p == nil {
		return nil, models.ErrUnauthenticated
	}
	if s.opts.Fixed {
		if err := access.Check(p, access.RolesOnly(models.RoleAdmin)); err != nil {
			return nil, err
		}
	}

	records, err := s.resources.ListByKind(ctx, portal.Name, portal.Records)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"portal":  portal.Name,
		"records": len(records),
		"users":   len(users),
		"staff": lo.FilterMap(users, func(u *models.User, _ int) (string, bool) {
			return u.Username, u.Roles.Has(portal.StaffRole)
		}),
	}, nil
}

func (s *portalService) authorizeDocument(ctx context.Context, p *models.Principal, portal *lessons.Portal, attachmentID int) (*models.Attachment, error) {
	if p == nil {
		return nil, models.ErrUnauthenticated
	}

	attachment, resource, err := s.loadAttachment(ctx, portal, attachmentID)
	if err != nil {
		return nil, err
	}

	if err := access.Check(p, portal.DocumentPolicy, attachment.OwnerID, resource.OwnerID); err != nil {
		s.logger.Warn("document access denied",
			zap.String("portal", portal.Name),
			zap.Int("attachment_id", attachment.ID),
			zap.Int("user_id", p.UserID),
		)
		return nil, err
	}

	return attachment, nil
}

// loadAttachment returns an attachment with its record, both belonging to the portal
func (s *portalService) loadAttachment(ctx context.Context, portal *lessons.Portal, attachmentID int) (*models.Attachment, *models.Resource, error) {
	attachment, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}

	resource, err := s.resources.GetByID(ctx, portal.Name, portal.Records, attachment.ResourceID)
	if err != nil {
		return nil, nil, err
	}

	return attachment, resource, nil
}

func (s *portalService) recordView(ctx context.Context, resource *models.Resource) (*models.RecordView, error) {
	attachments, err := s.attachments.ListByResource(ctx, resource.ID)
	if err != nil {
		return nil, err
	}
	return &models.RecordView{Resource: resource, Attachments: attachments}, nil
}

func (s *portalService) open(key, filename string) (*Download, error) {
	f, err := s.files.Open(key)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("failed to open stored file", zap.Error(err), zap.String("key", key))
		}
		return nil, err
	}
	return &Download{Filename: filename, File: f}, nil
}
