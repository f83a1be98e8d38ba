package handlers

import (
	"context"
	"errors"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/securitylessons/backend/internal/lessons"
	"github.com/securitylessons/backend/internal/middleware"
	"github.com/securitylessons/backend/internal/models"
	"github.com/securitylessons/backend/internal/services"
	"github.com/securitylessons/backend/internal/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecretKey = "insecure-lesson-secret"

// fakeVerifier maps fixed bearer tokens to principals
type fakeVerifier map[string]*models.Principal

func (f fakeVerifier) VerifyAccess(ctx context.Context, token string) (*models.Principal, error) {
	if p, ok := f[token]; ok {
		return p, nil
	}
	return nil, errors.New("invalid token")
}

var testVerifier = fakeVerifier{
	"admin-token": {UserID: 1, Username: "adminroot", Roles: models.RoleAdmin},
	"dev-token":   {UserID: 2, Username: "dev"},
	"mod-token":   {UserID: 3, Username: "mod"},
	"hr-token":    {UserID: 5, Username: "hr_staff", Roles: models.RoleHR},
}

// fakeResources is an in-memory resource table
type fakeResources struct {
	resources map[int]*models.Resource
}

func (f *fakeResources) GetByID(ctx context.Context, lesson, kind string, id int) (*models.Resource, error) {
	r, ok := f.resources[id]
	if !ok || r.Lesson != lesson || r.Kind != kind {
		return nil, models.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeResources) ListByOwner(ctx context.Context, lesson, kind string, ownerID int) ([]*models.Resource, error) {
	result := []*models.Resource{}
	for _, r := range f.sorted() {
		if r.Lesson == lesson && r.Kind == kind && r.OwnerID == ownerID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeResources) ListByKind(ctx context.Context, lesson, kind string) ([]*models.Resource, error) {
	result := []*models.Resource{}
	for _, r := range f.sorted() {
		if r.Lesson == lesson && r.Kind == kind {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeResources) UpdateTitle(ctx context.Context, id int, title string) error {
	r, ok := f.resources[id]
	if !ok {
		return models.ErrNotFound
	}
	r.Title = title
	return nil
}

func (f *fakeResources) sorted() []*models.Resource {
	result := make([]*models.Resource, 0, len(f.resources))
	for _, id := range slices.Sorted(maps.Keys(f.resources)) {
		result = append(result, f.resources[id])
	}
	return result
}

// fakeAttachments is an in-memory attachment table
type fakeAttachments map[int]*models.Attachment

func (f fakeAttachments) GetByID(ctx context.Context, id int) (*models.Attachment, error) {
	a, ok := f[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return a, nil
}

func (f fakeAttachments) ListByResource(ctx context.Context, resourceID int) ([]*models.Attachment, error) {
	result := []*models.Attachment{}
	for _, id := range slices.Sorted(maps.Keys(f)) {
		if f[id].ResourceID == resourceID {
			result = append(result, f[id])
		}
	}
	return result, nil
}

// fakeUsers is an in-memory user directory
type fakeUsers map[int]*models.User

func (f fakeUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (f fakeUsers) List(ctx context.Context) ([]*models.User, error) {
	result := []*models.User{}
	for _, id := range slices.Sorted(maps.Keys(f)) {
		result = append(result, f[id])
	}
	return result, nil
}

// fakeShares is an in-memory share link store
type fakeShares map[string]string

func (f fakeShares) PutShare(ctx context.Context, token, value string, ttl time.Duration) error {
	f[token] = value
	return nil
}

func (f fakeShares) GetShare(ctx context.Context, token string) (string, error) {
	v, ok := f[token]
	if !ok {
		return "", models.ErrNotFound
	}
	return v, nil
}

// newTestRouter wires the lesson handlers on real services backed by in-memory data:
//
//	booking/booking 1 (dev), 2 (mod); tickets/ticket 3 (dev); profiles/profile 4 (dev); projects/project 5 (dev)
//	hr candidates 20 (hr_staff) with resume 30, 21 (dev) with resume 31
//	static robots.txt, .hidden, backups/.env.backup
func newTestRouter(t *testing.T, fixed bool) chi.Router {
	t.Helper()
	logger := zap.NewNop()

	resources := &fakeResources{resources: map[int]*models.Resource{
		1:  {ID: 1, Lesson: "booking", Kind: "booking", OwnerID: 2, Title: "Dev Booking A"},
		2:  {ID: 2, Lesson: "booking", Kind: "booking", OwnerID: 3, Title: "Mod Booking X"},
		3:  {ID: 3, Lesson: "tickets", Kind: "ticket", OwnerID: 2, Title: "Dev Ticket A"},
		4:  {ID: 4, Lesson: "profiles", Kind: "profile", OwnerID: 2, Title: "Dev Profile A"},
		5:  {ID: 5, Lesson: "projects", Kind: "project", OwnerID: 2, Title: "Dev Project A"},
		20: {ID: 20, Lesson: "hr", Kind: "candidates", OwnerID: 5, Title: "HR candidate"},
		21: {ID: 21, Lesson: "hr", Kind: "candidates", OwnerID: 2, Title: "Dev candidate"},
	}}
	attachments := fakeAttachments{
		30: {ID: 30, ResourceID: 20, OwnerID: 5, StorageKey: "resumes/20/a.txt", Filename: "a.txt"},
		31: {ID: 31, ResourceID: 21, OwnerID: 2, StorageKey: "resumes/21/b.txt", Filename: "b.txt"},
	}
	users := fakeUsers{
		1: {ID: 1, Username: "adminroot", Roles: models.RoleAdmin},
		2: {ID: 2, Username: "dev", Email: "dev@example.com"},
		3: {ID: 3, Username: "mod"},
		5: {ID: 5, Username: "hr_staff", Roles: models.RoleHR},
	}

	media := storage.NewStorage(afero.NewMemMapFs())
	for key, content := range map[string]string{
		"resumes/1/sample.txt": "sample resume",
		lessons.BackupKey:      "-- database dump",
		"resumes/20/a.txt":     "hr resume",
		"resumes/21/b.txt":     "dev resume",
	} {
		_, err := media.Save(key, strings.NewReader(content))
		require.NoError(t, err)
	}

	static := afero.NewBasePathFs(afero.NewMemMapFs(), "/srv/static")
	for name, content := range map[string]string{
		"robots.txt":          "User-agent: *",
		".hidden":             "hidden",
		"backups/.env.backup": "SECRET_KEY=" + testSecretKey,
	} {
		require.NoError(t, afero.WriteFile(static, name, []byte(content), 0644))
	}

	resourceService := services.NewResourceService(resources, fixed, logger)
	portalService := services.NewPortalService(resources, attachments, users, media, fakeShares{}, services.PortalOptions{
		Fixed:     fixed,
		Debug:     !fixed,
		SecretKey: testSecretKey,
	}, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger, !fixed))
	r.Use(middleware.OptionalAuth(testVerifier))

	NewHealthHandler(map[string]HealthCheck{}, "test", logger).RegisterRoutes(r)
	NewIDORHandler(resourceService, logger).RegisterRoutes(r)
	NewPortalHandler(portalService, logger).RegisterRoutes(r)
	NewStaticHandler(static, fixed, logger).RegisterRoutes(r)

	return r
}

// doRequest performs a request against the router with an optional bearer token
func doRequest(t *testing.T, handler http.Handler, method, target, token string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}
