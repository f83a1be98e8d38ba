package services

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/securitylessons/backend/internal/lessons"
	"github.com/securitylessons/backend/internal/models"
	"github.com/securitylessons/backend/internal/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	hrPrincipal     = &models.Principal{UserID: 5, Username: "hr_staff", Roles: models.RoleHR}
	tellerPrincipal = &models.Principal{UserID: 6, Username: "teller", Roles: models.RoleTeller}
)

type portalFixture struct {
	svc    *portalService
	portal *lessons.Portal
	shares *mockShareStore
}

// newPortalFixture builds the hr portal with:
// candidate 20 owned by the hr user with resume 30,
// candidate 21 owned by dev with resume 31.
func newPortalFixture(t *testing.T, opts PortalOptions) *portalFixture {
	t.Helper()

	portal, ok := lessons.FindPortal("hr")
	require.True(t, ok)

	files := storage.NewStorage(afero.NewMemMapFs())
	for key, content := range map[string]string{
		"resumes/1/sample.txt": "sample resume",
		lessons.BackupKey:      "-- dump",
		"resumes/20/a.txt":     "hr resume",
		"resumes/21/b.txt":     "dev resume",
	} {
		_, err := files.Save(key, strings.NewReader(content))
		require.NoError(t, err)
	}

	resources := newMockResourceRepository(
		&models.Resource{ID: 20, Lesson: "hr", Kind: "candidates", OwnerID: 5, Title: "HR candidate"},
		&models.Resource{ID: 21, Lesson: "hr", Kind: "candidates", OwnerID: 2, Title: "Dev candidate"},
		&models.Resource{ID: 22, Lesson: "lms", Kind: "assignments", OwnerID: 2, Title: "Other portal"},
	)
	attachments := newMockAttachmentRepository(
		&models.Attachment{ID: 30, ResourceID: 20, OwnerID: 5, StorageKey: "resumes/20/a.txt", Filename: "a.txt"},
		&models.Attachment{ID: 31, ResourceID: 21, OwnerID: 2, StorageKey: "resumes/21/b.txt", Filename: "b.txt"},
		&models.Attachment{ID: 32, ResourceID: 22, OwnerID: 2, StorageKey: "submissions/22/c.txt", Filename: "c.txt"},
	)
	users := newMockUserRepository(
		&models.User{ID: 1, Username: "adminroot", Roles: models.RoleAdmin},
		&models.User{ID: 2, Username: "dev", Email: "dev@example.com"},
		&models.User{ID: 5, Username: "hr_staff", Roles: models.RoleHR},
	)
	shares := newMockShareStore()

	return &portalFixture{
		svc:    NewPortalService(resources, attachments, users, files, shares, opts, zap.NewNop()),
		portal: portal,
		shares: shares,
	}
}

func readDownload(t *testing.T, d *Download) string {
	t.Helper()
	defer d.File.Close()
	content, err := io.ReadAll(d.File)
	require.NoError(t, err)
	return string(content)
}

func TestPortalService_Index(t *testing.T) {
	f := newPortalFixture(t, PortalOptions{})

	anon := f.svc.Index(context.Background(), nil, f.portal)
	assert.Equal(t, false, anon["authenticated"])
	assert.Equal(t, []string{"/portal/hr/"}, anon["links"])

	admin := f.svc.Index(context.Background(), adminPrincipal, f.portal)
	assert.Contains(t, admin["links"], "/portal/hr/hr/candidates/")
	assert.Contains(t, admin["links"], "/portal/hr/ui/admin/dashboard/")

	dev := f.svc.Index(context.Background(), devPrincipal, f.portal)
	assert.NotContains(t, dev["links"], "/portal/hr/ui/admin/dashboard/")
}

func TestPortalService_Maintenance(t *testing.T) {
	tests := []struct {
		name          string
		fixed         bool
		principal     *models.Principal
		expectedError error
	}{
		{name: "open to anonymous", principal: nil},
		{name: "open to any user", principal: devPrincipal},
		{name: "fixed rejects anonymous", fixed: true, principal: nil, expectedError: models.ErrUnauthenticated},
		{name: "fixed rejects user", fixed: true, principal: devPrincipal, expectedError: models.ErrForbidden},
		{name: "fixed allows admin", fixed: true, principal: adminPrincipal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPortalFixture(t, PortalOptions{Fixed: tt.fixed})

			result, err := f.svc.Maintenance(context.Background(), tt.principal, f.portal)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Len(t, result["users"], 3)
		})
	}
}

func TestPortalService_StagingDebug(t *testing.T) {
	f := newPortalFixture(t, PortalOptions{Debug: true, SecretKey: "insecure-secret"})
	result, err := f.svc.StagingDebug(context.Background(), f.portal)
	require.NoError(t, err)
	assert.Equal(t, "insecure-secret", result["secret_key"])
	assert.Equal(t, true, result["debug"])
	assert.ElementsMatch(t, []string{"resume_1", "backup"}, result["tokens"])

	f = newPortalFixture(t, PortalOptions{Fixed: true, SecretKey: "insecure-secret"})
	_, err = f.svc.StagingDebug(context.Background(), f.portal)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPortalService_RecordView(t *testing.T) {
	f := newPortalFixture(t, PortalOptions{})
	view, err := f.svc.RecordView(context.Background(), nil, f.portal, 20)
	require.NoError(t, err)
	assert.Equal(t, "HR candidate", view.Resource.Title)
	require.Len(t, view.Attachments, 1)
	assert.Equal(t, "resumes/20/a.txt", view.Attachments[0].StorageKey)

	_, err = f.svc.RecordView(context.Background(), nil, f.portal, 22)
	assert.ErrorIs(t, err, models.ErrNotFound)

	f = newPortalFixture(t, PortalOptions{Fixed: true})
	_, err = f.svc.RecordView(context.Background(), nil, f.portal, 20)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	_, err = f.svc.RecordView(context.Background(), devPrincipal, f.portal, 20)
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.svc.RecordView(context.Background(), hrPrincipal, f.portal, 20)
	assert.NoError(t, err)
}

func TestPortalService_DownloadVuln(t *testing.T) {
	f := newPortalFixture(t, PortalOptions{})
	d, err := f.svc.DownloadVuln(context.Background(), nil, f.portal, 31)
	require.NoError(t, err)
	assert.Equal(t, "b.txt", d.Filename)
	assert.Equal(t, "dev resume", readDownload(t, d))

	_, err = f.svc.DownloadVuln(context.Background(), nil, f.portal, 32)
	assert.ErrorIs(t, err, models.ErrNotFound)

	f = newPortalFixture(t, PortalOptions{Fixed: true})
	_, err = f.svc.DownloadVuln(context.Background(), hrPrincipal, f.portal, 31)
	require.NoError(t, err)
	_, err = f.svc.DownloadVuln(context.Background(), devPrincipal, f.portal, 30)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestPortalService_ExportUser(t *testing.T) {
	f := newPortalFixture(t, PortalOptions{})
	export, err := f.svc.ExportUser(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", export.Email)

	_, err = f.svc.ExportUser(context.Background(), nil, 404)
	assert.ErrorIs(t, err, models.ErrNotFound)

	f = newPortalFixture(t, PortalOptions{Fixed: true})
	_, err = f.svc.ExportUser(context.Background(), hrPrincipal, 2)
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.svc.ExportUser(context.Background(), devPrincipal, 2)
	assert.NoError(t, err)
	_, err = f.svc.ExportUser(context.Background(), adminPrincipal, 2)
	assert.NoError(t, err)
}

func TestPortalService_DownloadByToken(t *testing.T) {
	tests := []struct {
		name          string
		fixed         bool
		token         string
		expected      string
		expectedError error
	}{
		{name: "predictable resume token", token: "resume_1", expected: "sample resume"},
		{name: "predictable backup token", token: "backup", expected: "-- dump"},
		{name: "fixed ignores predictable token", fixed: true, token: "backup", expectedError: models.ErrNotFound},
		{name: "unknown token", token: "resume_2", expectedError: models.ErrNotFound},
		{name: "empty token", token: "", expectedError: models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPortalFixture(t, PortalOptions{Fixed: tt.fixed})

			d, err := f.svc.DownloadByToken(context.Background(), f.portal, tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, readDownload(t, d))
		})
	}
}

func TestPortalService_ShareDocument(t *testing.T) {
	f := newPortalFixture(t, PortalOptions{Fixed: true, ShareTTL: time.Minute})

	_, err := f.svc.ShareDocument(context.Background(), nil, f.portal, 31)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	_, err = f.svc.ShareDocument(context.Background(), devPrincipal, f.portal, 30)
	assert.ErrorIs(t, err, models.ErrForbidden)

	link, err := f.svc.ShareDocument(context.Background(), devPrincipal, f.portal, 31)
	require.NoError(t, err)
	assert.Equal(t, int64(60), link.ExpiresIn)
	assert.Equal(t, time.Minute, f.shares.ttl)

	u, err := url.Parse(link.URL)
	require.NoError(t, err)
	assert.Equal(t, "/portal/hr/download/", u.Path)
	assert.Equal(t, link.Token, u.Query().Get("token"))

	d, err := f.svc.DownloadByToken(context.Background(), f.portal, link.Token)
	require.NoError(t, err)
	assert.Equal(t, "b.txt", d.Filename)
	assert.Equal(t, "dev resume", readDownload(t, d))
}

func TestPortalService_ListRecords(t *testing.T) {
	tests := []struct {
		name          string
		portal        string
		principal     *models.Principal
		expectedIDs   []int
		expectedError error
	}{
		{name: "admin sees all", portal: "hr", principal: adminPrincipal, expectedIDs: []int{20, 21}},
		{name: "hr sees own", portal: "hr", principal: hrPrincipal, expectedIDs: []int{20}},
		{name: "plain user rejected", portal: "hr", principal: devPrincipal, expectedError: models.ErrForbidden},
		{name: "anonymous rejected", portal: "hr", principal: nil, expectedError: models.ErrUnauthenticated},
		{name: "shop customer sees own", portal: "shop", principal: devPrincipal, expectedIDs: []int{40}},
		{name: "fintech customer rejected", portal: "fintech", principal: devPrincipal, expectedError: models.ErrForbidden},
		{name: "fintech teller sees own", portal: "fintech", principal: tellerPrincipal, expectedIDs: []int{50}},
		{name: "fintech admin sees all", portal: "fintech", principal: adminPrincipal, expectedIDs: []int{50, 51}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPortalFixture(t, PortalOptions{})
			portal, ok := lessons.FindPortal(tt.portal)
			require.True(t, ok)
			repo := f.svc.resources.(*mockResourceRepository)
			repo.resources[40] = &models.Resource{ID: 40, Lesson: "shop", Kind: "orders", OwnerID: 2}
			repo.resources[41] = &models.Resource{ID: 41, Lesson: "shop", Kind: "orders", OwnerID: 3}
			repo.resources[50] = &models.Resource{ID: 50, Lesson: "fintech", Kind: "accounts", OwnerID: 6}
			repo.resources[51] = &models.Resource{ID: 51, Lesson: "fintech", Kind: "accounts", OwnerID: 2}

			list, err := f.svc.ListRecords(context.Background(), tt.principal, portal)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			ids := make([]int, 0, len(list))
			for _, r := range list {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestPortalService_RecordDetail(t *testing.T) {
	f := newPortalFixture(t, PortalOptions{})

	_, err := f.svc.RecordDetail(context.Background(), nil, f.portal, 20)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	// dev owns 21 but lacks the HR role
	_, err = f.svc.RecordDetail(context.Background(), devPrincipal, f.portal, 21)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.svc.RecordDetail(context.Background(), hrPrincipal, f.portal, 21)
	assert.ErrorIs(t, err, models.ErrForbidden)

	view, err := f.svc.RecordDetail(context.Background(), hrPrincipal, f.portal, 20)
	require.NoError(t, err)
	assert.Len(t, view.Attachments, 1)

	_, err = f.svc.RecordDetail(context.Background(), adminPrincipal, f.portal, 21)
	assert.NoError(t, err)
}

func TestPortalService_DownloadDocument(t *testing.T) {
	f := newPortalFixture(t, PortalOptions{})

	d, err := f.svc.DownloadDocument(context.Background(), devPrincipal, f.portal, 31)
	require.NoError(t, err)
	assert.Equal(t, "dev resume", readDownload(t, d))

	_, err = f.svc.DownloadDocument(context.Background(), devPrincipal, f.portal, 30)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.svc.DownloadDocument(context.Background(), hrPrincipal, f.portal, 31)
	assert.NoError(t, err)

	_, err = f.svc.DownloadDocument(context.Background(), adminPrincipal, f.portal, 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPortalService_AdminDashboard(t *testing.T) {
	f := newPortalFixture(t, PortalOptions{})

	_, err := f.svc.AdminDashboard(context.Background(), nil, f.portal)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	result, err := f.svc.AdminDashboard(context.Background(), devPrincipal, f.portal)
	require.NoError(t, err)
	assert.Equal(t, 2, result["records"])
	assert.Equal(t, 3, result["users"])
	assert.Equal(t, []string{"hr_staff"}, result["staff"])

	f = newPortalFixture(t, PortalOptions{Fixed: true})
	_, err = f.svc.AdminDashboard(context.Background(), devPrincipal, f.portal)
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.svc.AdminDashboard(context.Background(), adminPrincipal, f.portal)
	assert.NoError(t, err)
}

func TestPortalService_DownloadShared(t *testing.T) {
	f := newPortalFixture(t, PortalOptions{})

	_, err := f.svc.DownloadShared(context.Background(), f.portal, "resume_1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	f.shares.values["abc"] = "30"
	d, err := f.svc.DownloadShared(context.Background(), f.portal, "abc")
	require.NoError(t, err)
	assert.Equal(t, "hr resume", readDownload(t, d))

	f.shares.values["other"] = "32"
	_, err = f.svc.DownloadShared(context.Background(), f.portal, "other")
	assert.ErrorIs(t, err, models.ErrNotFound)

	f.shares.values["corrupt"] = "not-a-number"
	_, err = f.svc.DownloadShared(context.Background(), f.portal, "corrupt")
	assert.Error(t, err)
}

func TestPortalService_Crash(t *testing.T) {
	f := newPortalFixture(t, PortalOptions{SecretKey: "insecure-secret"})

	assert.PanicsWithValue(t, "hr portal crashed while loading settings (SECRET_KEY=insecure-secret)", func() {
		f.svc.Crash(f.portal)
	})
}
