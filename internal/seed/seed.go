// Package seed fills an empty database with the demo users, records and files
// the lessons are played with. Seeding is idempotent: existing users and records are kept.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/securitylessons/backend/internal/lessons"
	"github.com/securitylessons/backend/internal/models"
	"github.com/securitylessons/backend/internal/passwords"
	"github.com/securitylessons/backend/internal/storage"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// PortalPassword is the password of every portal demo user
const PortalPassword = "password"

// EnvBackupPath is the leaked environment backup inside the static directory
const EnvBackupPath = "backups/.env.backup"

// UserRepository is the interface that wraps the user methods used by the seeder
type UserRepository interface {
	// Method Create inserts a new user and sets its ID.
	Create(ctx context.Context, user *models.User) error
	// Method GetByUsername retrieves a user by username.
	//
	// If such user does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// ResourceRepository is the interface that wraps the resource methods used by the seeder
type ResourceRepository interface {
	// Method Create inserts a new resource and sets its ID.
	Create(ctx context.Context, resource *models.Resource) error
	// Method GetByTitle retrieves a resource of a lesson kind by its owner and title.
	//
	// If such resource does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByTitle(ctx context.Context, lesson, kind string, ownerID int, title string) (*models.Resource, error)
}

// AttachmentRepository is the interface that wraps the attachment methods used by the seeder
type AttachmentRepository interface {
	// Method Create inserts a new attachment and sets its ID.
	Create(ctx context.Context, attachment *models.Attachment) error
	// Method ListByResource returns the attachments of a resource.
	ListByResource(ctx context.Context, resourceID int) ([]*models.Attachment, error)
}

// FileStorage is the interface that wraps write access to the media storage
type FileStorage interface {
	// Method Save writes the content of r under key.
	Save(key string, r io.Reader) (int64, error)
	// Method Exists reports whether a file is stored under key.
	Exists(key string) (bool, error)
}

// SeededUser is a demo account listed in the summary
type SeededUser struct {
	Username string
	Password string
	Roles    []string
	Created  bool
}

// Summary describes what a seeding run created
type Summary struct {
	Users       []SeededUser
	Resources   int
	Attachments int
	Files       []string
}

// Print writes the summary in the form shown after "seed"
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== RESULT ===")
	for _, u := range s.Users {
		state := lo.Ternary(u.Created, "created", "unchanged")
		roles := lo.Ternary(len(u.Roles) > 0, strings.Join(u.Roles, ","), "-")
		fmt.Fprintf(w, "User: %-14s password: %-14s roles: %-16s (%s)\n", u.Username, u.Password, roles, state)
	}
	fmt.Fprintf(w, "Resources created: %d\n", s.Resources)
	fmt.Fprintf(w, "Attachments created: %d\n", s.Attachments)
	for _, f := range s.Files {
		fmt.Fprintf(w, "  + %s\n", f)
	}
}

type demoUser struct {
	username string
	email    string
	password string
	roles    models.Role
}

var idorUsers = []demoUser{
	{username: "adminroot", email: "adminroot@example.com", password: "adminroot123", roles: models.RoleAdmin},
	{username: "dev", email: "dev@example.com", password: "devpass123"},
	{username: "mod", email: "mod@example.com", password: "modpass123"},
}

var portalUsers = []demoUser{
	{username: "admin", email: "admin@example.com", password: PortalPassword, roles: models.RoleAdmin},
	{username: "hr_alice", email: "alice.hr@example.com", password: PortalPassword, roles: models.RoleHR},
	{username: "hr_bob", email: "bob.hr@example.com", password: PortalPassword, roles: models.RoleHR},
	{username: "teacher_tom", email: "tom.teacher@example.com", password: PortalPassword, roles: models.RoleInstructor},
	{username: "teller_tina", email: "tina.teller@example.com", password: PortalPassword, roles: models.RoleTeller},
	{username: "supply_sam", email: "sam.supply@example.com", password: PortalPassword, roles: models.RoleSupplyManager},
	{username: "manager_mia", email: "mia.manager@example.com", password: PortalPassword, roles: models.RoleManager},
	{username: "user_charlie", email: "charlie.user@example.com", password: PortalPassword},
}

// portalRecords are the record titles of each portal
var portalRecords = map[string][]string{
	"hr":      {"Ivan Petrov", "Maria Ivanova", "John Smith"},
	"lms":     {"Essay on access control", "Lab report 2", "Final project"},
	"fintech": {"Checking account", "Savings account", "Credit card"},
	"supply":  {"Steel bolts M8", "Copper wire 2mm", "Packing crates"},
	"shop":    {"Order 1001", "Order 1002", "Order 1003"},
}

type seeder struct {
	users       UserRepository
	resources   ResourceRepository
	attachments AttachmentRepository
	media       FileStorage
	static      afero.Fs
	hasher      passwords.Hasher
	secretKey   string
	logger      *zap.Logger
}

// NewSeeder creates a seeder.
// Passwords are hashed with hasher, attachments are written to media and the leaked files to static.
func NewSeeder(
	users UserRepository,
	resources ResourceRepository,
	attachments AttachmentRepository,
	media FileStorage,
	static afero.Fs,
	hasher passwords.Hasher,
	secretKey string,
	logger *zap.Logger,
) *seeder {
	return &seeder{
		users:       users,
		resources:   resources,
		attachments: attachments,
		media:       media,
		static:      static,
		hasher:      hasher,
		secretKey:   secretKey,
		logger:      logger,
	}
}

// Run seeds the IDOR lessons, the portals and the static directory
func (s *seeder) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	if err := s.seedIDOR(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to seed IDOR lessons: %w", err)
	}
	if err := s.seedPortals(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to seed portals: %w", err)
	}
	if err := s.seedStatic(summary); err != nil {
		return nil, fmt.Errorf("failed to seed static files: %w", err)
	}

	s.logger.Info("seeding finished",
		zap.Int("users", len(summary.Users)),
		zap.Int("resources", summary.Resources),
		zap.Int("attachments", summary.Attachments),
		zap.Int("files", len(summary.Files)),
	)
	return summary, nil
}

// AddUser creates a single account with the given roles.
// An existing account of the same name is kept unchanged.
func (s *seeder) AddUser(ctx context.Context, username, email, password string, roles models.Role) (*Summary, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	summary := &Summary{}
	account := demoUser{username: username, email: email, password: password, roles: roles}
	if _, err := s.ensureUsers(ctx, []demoUser{account}, summary); err != nil {
		return nil, fmt.Errorf("failed to add user: %w", err)
	}
	return summary, nil
}

func (s *seeder) seedIDOR(ctx context.Context, summary *Summary) error {
	users, err := s.ensureUsers(ctx, idorUsers, summary)
	if err != nil {
		return err
	}
	dev, mod := users["dev"], users["mod"]

	for _, lesson := range lessons.Lessons() {
		for _, kind := range lesson.Kinds {
			if _, err := s.ensureResource(ctx, lesson.Name, kind.Name, dev.ID, "Dev "+kind.Label+" A", summary); err != nil {
				return err
			}
			if _, err := s.ensureResource(ctx, lesson.Name, kind.Name, mod.ID, "Mod "+kind.Label+" X", summary); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) seedPortals(ctx context.Context, summary *Summary) error {
	users, err := s.ensureUsers(ctx, portalUsers, summary)
	if err != nil {
		return err
	}
	plain := users["user_charlie"]

	for _, portal := range lessons.Portals() {
		staff, ok := lo.Find(portalUsers, func(u demoUser) bool { return u.roles == portal.StaffRole })
		if !ok {
			return fmt.Errorf("no staff user for portal %s", portal.Name)
		}
		owners := []*models.User{users[staff.username], plain}

		for i, title := range portalRecords[portal.Name] {
			owner := owners[i%len(owners)]
			resource, err := s.ensureResource(ctx, portal.Name, portal.Records, owner.ID, title, summary)
			if err != nil {
				return err
			}
			existing, err := s.attachments.ListByResource(ctx, resource.ID)
			if err != nil {
				return err
			}
			for j := len(existing) + 1; j <= 2; j++ {
				if err := s.addDocument(ctx, portal, resource, owner, j, summary); err != nil {
					return err
				}
			}
		}

		for _, key := range slices.Sorted(maps.Values(portal.Tokens)) {
			content := fmt.Sprintf("Sample document of the %s.\n", portal.Title)
			if key == lessons.BackupKey {
				content = s.databaseDump()
			}
			if err := s.ensureFile(key, content, summary); err != nil {
				return err
			}
		}
	}
	return nil
}

// addDocument stores a text attachment under its predictable key and records it
func (s *seeder) addDocument(ctx context.Context, portal *lessons.Portal, resource *models.Resource, owner *models.User, index int, summary *Summary) error {
	filename := fmt.Sprintf("%s_%s_%d.txt", strings.ReplaceAll(resource.Title, " ", "_"), strings.TrimSuffix(portal.Documents, "s"), index)
	key := storage.DocumentKey(portal.StoragePrefix, resource.ID, filename, true)
	content := fmt.Sprintf("%s of %s (demo).\nuploaded_by=%s\n", portal.Documents, resource.Title, owner.Username)

	if _, err := s.media.Save(key, strings.NewReader(content)); err != nil {
		return err
	}

	attachment := &models.Attachment{
		ResourceID: resource.ID,
		OwnerID:    owner.ID,
		StorageKey: key,
		Filename:   filename,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return err
	}

	summary.Attachments++
	summary.Files = append(summary.Files, key)
	return nil
}

func (s *seeder) seedStatic(summary *Summary) error {
	files := map[string]string{
		"robots.txt":  "User-agent: *\nDisallow: /backups/\nDisallow: /portal/\n",
		EnvBackupPath: fmt.Sprintf("DEBUG=true\nSECRET_KEY=%s\nDB_USER=lessons\nDB_PASSWORD=lessons\n", s.secretKey),
	}

	for _, name := range slices.Sorted(maps.Keys(files)) {
		exists, err := afero.Exists(s.static, name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := s.static.MkdirAll(path.Dir(name), 0755); err != nil {
			return err
		}
		if err := afero.WriteFile(s.static, name, []byte(files[name]), 0644); err != nil {
			return err
		}
		summary.Files = append(summary.Files, path.Join("static", name))
	}
	return nil
}

func (s *seeder) ensureUsers(ctx context.Context, accounts []demoUser, summary *Summary) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(accounts))

	for _, account := range accounts {
		user, err := s.users.GetByUsername(ctx, account.username)
		created := false
		switch {
		case errors.Is(err, models.ErrNotFound):
			hash, err := s.hasher.Hash(account.password)
			if err != nil {
				return nil, err
			}
			user = &models.User{
				Username:     account.username,
				Email:        account.email,
				PasswordHash: hash,
				Roles:        account.roles,
			}
			if err := s.users.Create(ctx, user); err != nil {
				return nil, err
			}
			created = true
		case err != nil:
			return nil, err
		}

		users[account.username] = user
		summary.Users = append(summary.Users, SeededUser{
			Username: account.username,
			Password: account.password,
			Roles:    user.Roles.Names(),
			Created:  created,
		})
	}

	return users, nil
}

func (s *seeder) ensureResource(ctx context.Context, lesson, kind string, ownerID int, title string, summary *Summary) (*models.Resource, error) {
	resource, err := s.resources.GetByTitle(ctx, lesson, kind, ownerID, title)
	if err == nil {
		return resource, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	resource = &models.Resource{Lesson: lesson, Kind: kind, OwnerID: ownerID, Title: title}
	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, err
	}
	summary.Resources++
	return resource, nil
}

func (s *seeder) ensureFile(key, content string, summary *Summary) error {
	exists, err := s.media.Exists(key)
	if err != nil || exists {
		return err
	}
	if _, err := s.media.Save(key, strings.NewReader(content)); err != nil {
		return err
	}
	summary.Files = append(summary.Files, key)
	return nil
}

// databaseDump is the content of the backup reachable through the guessable "backup" token
func (s *seeder) databaseDump() string {
	var b bytes.Buffer
	b.WriteString("-- lessons database dump\n")
	for _, u := range slices.Concat(idorUsers, portalUsers) {
		fmt.Fprintf(&b, "INSERT INTO users (username, email) VALUES ('%s', '%s');\n", u.username, u.email)
	}
	return b.String()
}
