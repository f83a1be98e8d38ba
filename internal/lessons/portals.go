package lessons

import (
	"github.com/samber/lo"
	"github.com/securitylessons/backend/internal/access"
	"github.com/securitylessons/backend/internal/models"
)

// Portal is a force browsing lesson: a small application whose hidden or
// unlinked endpoints are reachable by anyone who guesses the URL
type Portal struct {
	Name  string
	Title string
	// Records is the path segment and resource kind of the portal records ("candidates")
	Records string
	// Documents is the path segment of the record attachments ("resumes")
	Documents string
	// Area is the path segment of the role gated section ("hr")
	Area string
	// StoragePrefix is the first storage path segment of the attachments
	StoragePrefix string
	// StaffRole is the role that works with the portal records
	StaffRole models.Role
	// RecordPolicy guards record details
	RecordPolicy access.Policy
	// DocumentPolicy guards attachment downloads
	DocumentPolicy access.Policy
	// ListRoles may open the record list; zero lets any authenticated user list their own records
	ListRoles models.Role
	// ListAllRoles see every record instead of their own
	ListAllRoles models.Role
	// Tokens are the guessable download tokens of the unpatched portal
	Tokens map[string]string
}

// BackupKey is the storage key of the database dump reachable through predictable tokens
const BackupKey = "backups/db_dump.sql"

var portals = []*Portal{
	{
		Name:           "hr",
		Title:          "HR recruiting portal",
		Records:        "candidates",
		Documents:      "resumes",
		Area:           "hr",
		StoragePrefix:  "resumes",
		StaffRole:      models.RoleHR,
		RecordPolicy:   access.Policy{AllowOwner: true, OwnerRoles: models.RoleHR, Roles: models.RoleAdmin},
		DocumentPolicy: access.OwnerOr(models.RoleAdmin | models.RoleHR),
		ListRoles:      models.RoleAdmin | models.RoleHR,
		ListAllRoles:   models.RoleAdmin,
		Tokens: map[string]string{
			"resume_1": "resumes/1/sample.txt",
			"backup":   BackupKey,
		},
	},
	{
		Name:           "lms",
		Title:          "Learning management system",
		Records:        "assignments",
		Documents:      "submissions",
		Area:           "courses",
		StoragePrefix:  "submissions",
		StaffRole:      models.RoleInstructor,
		RecordPolicy:   access.OwnerOr(models.RoleAdmin),
		DocumentPolicy: access.OwnerOr(models.RoleAdmin),
		ListRoles:      models.RoleAdmin | models.RoleInstructor,
		ListAllRoles:   models.RoleAdmin,
		Tokens: map[string]string{
			"sub_1":  "submissions/1/sample.txt",
			"backup": BackupKey,
		},
	},
	{
		Name:           "fintech",
		Title:          "Online banking",
		Records:        "accounts",
		Documents:      "statements",
		Area:           "banking",
		StoragePrefix:  "statements",
		StaffRole:      models.RoleTeller,
		RecordPolicy:   access.OwnerOr(models.RoleAdmin | models.RoleTeller),
		DocumentPolicy: access.OwnerOr(models.RoleAdmin | models.RoleTeller),
		ListRoles:      models.RoleAdmin | models.RoleTeller,
		ListAllRoles:   models.RoleAdmin,
		Tokens: map[string]string{
			"stmt_1": "statements/1/sample.txt",
			"backup": BackupKey,
		},
	},
	{
		Name:           "supply",
		Title:          "Supply chain warehouse",
		Records:        "items",
		Documents:      "shipments",
		Area:           "warehouse",
		StoragePrefix:  "shipments",
		StaffRole:      models.RoleSupplyManager,
		RecordPolicy:   access.RolesOnly(models.RoleAdmin | models.RoleSupplyManager),
		DocumentPolicy: access.RolesOnly(models.RoleAdmin | models.RoleSupplyManager),
		ListRoles:      models.RoleAdmin | models.RoleSupplyManager,
		ListAllRoles:   models.RoleAdmin | models.RoleSupplyManager,
		Tokens: map[string]string{
			"doc_1":  "shipments/1/sample.txt",
			"backup": BackupKey,
		},
	},
	{
		Name:           "shop",
		Title:          "Online shop",
		Records:        "orders",
		Documents:      "invoices",
		Area:           "account",
		StoragePrefix:  "invoices",
		StaffRole:      models.RoleManager,
		RecordPolicy:   access.OwnerOr(models.RoleAdmin | models.RoleManager),
		DocumentPolicy: access.OwnerOr(models.RoleAdmin | models.RoleManager),
		ListAllRoles:   models.RoleAdmin | models.RoleManager,
		Tokens: map[string]string{
			"inv_1":  "invoices/1/sample.txt",
			"backup": BackupKey,
		},
	},
}

// Portals returns every force browsing portal
func Portals() []*Portal {
	return portals
}

// FindPortal returns the portal with the given name
func FindPortal(name string) (*Portal, bool) {
	return lo.Find(portals, func(p *Portal) bool { return p.Name == name })
}

// CanList reports whether the principal may open the record list of the portal
func (p *Portal) CanList(principal *models.Principal) bool {
	if principal == nil {
		return false
	}
	if p.ListRoles == models.RoleNone {
		return true
	}
	return principal.Roles.Has(p.ListRoles | p.ListAllRoles)
}

// ListsAll reports whether the principal sees every record of the portal
func (p *Portal) ListsAll(principal *models.Principal) bool {
	return principal != nil && principal.Roles.Has(p.ListAllRoles)
}

// StaffRoles returns the roles the whole role gated area is restricted to.
// It is RoleNone when record owners without a staff role reach part of the area.
func (p *Portal) StaffRoles() models.Role {
	if p.RecordPolicy.AllowOwner || p.DocumentPolicy.AllowOwner || p.ListRoles == models.RoleNone {
		return models.RoleNone
	}
	return p.ListRoles | p.RecordPolicy.Roles | p.DocumentPolicy.Roles
}
