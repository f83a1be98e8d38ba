package services

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/securitylessons/backend/internal/models"
)

// mockUserRepository is a mock implementation of UserRepository and UserDirectory
type mockUserRepository struct {
	users     map[int]*models.User
	nextID    int
	err       error
	updateErr error
	updated   map[int]string
}

func newMockUserRepository(users ...*models.User) *mockUserRepository {
	m := &mockUserRepository{users: map[int]*models.User{}, nextID: 100, updated: map[int]string{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return models.ErrUserExists
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *mockUserRepository) UpdatePasswordHash(ctx context.Context, id int, passwordHash string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated[id] = passwordHash
	return nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	users := []*models.User{}
	for _, id := range slices.Sorted(maps.Keys(m.users)) {
		users = append(users, m.users[id])
	}
	return users, nil
}

// mockTokenService is a mock implementation of TokenService
type mockTokenService struct {
	pair      *models.TokenPair
	err       error
	revoked   []string
	loggedIn  *models.Principal
	revokeErr error
}

func (m *mockTokenService) Login(ctx context.Context, p *models.Principal) (*models.TokenPair, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.loggedIn = p
	return m.pair, nil
}

func (m *mockTokenService) RefreshPair(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pair, nil
}

func (m *mockTokenService) Revoke(ctx context.Context, token string) error {
	if m.revokeErr != nil {
		return m.revokeErr
	}
	m.revoked = append(m.revoked, token)
	return nil
}

func (m *mockTokenService) Introspect(ctx context.Context, token string) *models.Introspection {
	if token == "valid" {
		return &models.Introspection{Active: true, Sub: "1", Typ: "access", JTI: "jti"}
	}
	return &models.Introspection{Active: false, Error: "invalid_token"}
}

// mockResourceRepository is an in-memory implementation of ResourceRepository
type mockResourceRepository struct {
	resources map[int]*models.Resource
	err       error
}

func newMockResourceRepository(resources ...*models.Resource) *mockResourceRepository {
	m := &mockResourceRepository{resources: map[int]*models.Resource{}}
	for _, r := range resources {
		m.resources[r.ID] = r
	}
	return m
}

func (m *mockResourceRepository) GetByID(ctx context.Context, lesson, kind string, id int) (*models.Resource, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.resources[id]
	if !ok || r.Lesson != lesson || r.Kind != kind {
		return nil, models.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockResourceRepository) ListByOwner(ctx context.Context, lesson, kind string, ownerID int) ([]*models.Resource, error) {
	all, err := m.ListByKind(ctx, lesson, kind)
	if err != nil {
		return nil, err
	}
	owned := []*models.Resource{}
	for _, r := range all {
		if r.OwnerID == ownerID {
			owned = append(owned, r)
		}
	}
	return owned, nil
}

func (m *mockResourceRepository) ListByKind(ctx context.Context, lesson, kind string) ([]*models.Resource, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := []*models.Resource{}
	for _, id := range slices.Sorted(maps.Keys(m.resources)) {
		if r := m.resources[id]; r.Lesson == lesson && r.Kind == kind {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockResourceRepository) UpdateTitle(ctx context.Context, id int, title string) error {
	if m.err != nil {
		return m.err
	}
	r, ok := m.resources[id]
	if !ok {
		return models.ErrNotFound
	}
	r.Title = title
	return nil
}

// mockAttachmentRepository is an in-memory implementation of AttachmentRepository
type mockAttachmentRepository struct {
	attachments map[int]*models.Attachment
}

func newMockAttachmentRepository(attachments ...*models.Attachment) *mockAttachmentRepository {
	m := &mockAttachmentRepository{attachments: map[int]*models.Attachment{}}
	for _, a := range attachments {
		m.attachments[a.ID] = a
	}
	return m
}

func (m *mockAttachmentRepository) GetByID(ctx context.Context, id int) (*models.Attachment, error) {
	a, ok := m.attachments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return a, nil
}

func (m *mockAttachmentRepository) ListByResource(ctx context.Context, resourceID int) ([]*models.Attachment, error) {
	result := []*models.Attachment{}
	for _, id := range slices.Sorted(maps.Keys(m.attachments)) {
		if a := m.attachments[id]; a.ResourceID == resourceID {
			result = append(result, a)
		}
	}
	return result, nil
}

// mockShareStore is an in-memory implementation of ShareStore
type mockShareStore struct {
	values map[string]string
	ttl    time.Duration
}

func newMockShareStore() *mockShareStore {
	return &mockShareStore{values: map[string]string{}}
}

func (m *mockShareStore) PutShare(ctx context.Context, token, value string, ttl time.Duration) error {
	m.values[token] = value
	m.ttl = ttl
	return nil
}

func (m *mockShareStore) GetShare(ctx context.Context, token string) (string, error) {
	v, ok := m.values[token]
	if !ok {
		return "", models.ErrNotFound
	}
	return v, nil
}
