// Package access holds the shared ownership and role checks used by every lesson
package access

import (
	"github.com/securitylessons/backend/internal/models"
)

// Policy describes who may access an owned record.
//
// A principal holding any role in Roles is always allowed.
// When AllowOwner is set, an owner of the record is allowed too, provided
// that OwnerRoles is empty or the owner holds one of OwnerRoles.
type Policy struct {
	AllowOwner bool
	OwnerRoles models.Role
	Roles      models.Role
}

// OwnerOnly allows the owner and nobody else
var OwnerOnly = Policy{AllowOwner: true}

// OwnerOr allows the owner or anyone holding one of roles
func OwnerOr(roles models.Role) Policy {
	return Policy{AllowOwner: true, Roles: roles}
}

// RolesOnly allows only principals holding one of roles
func RolesOnly(roles models.Role) Policy {
	return Policy{Roles: roles}
}

// IsAuthorized reports whether the principal may access a record owned by any of owners.
// An anonymous principal is never authorized.
func IsAuthorized(p *models.Principal, policy Policy, owners ...int) bool {
	if p == nil {
		return false
	}

	if policy.Roles != models.RoleNone && p.Roles.Has(policy.Roles) {
		return true
	}

	if !policy.AllowOwner {
		return false
	}
	if policy.OwnerRoles != models.RoleNone && !p.Roles.Has(policy.OwnerRoles) {
		return false
	}

	for _, owner := range owners {
		if owner == p.UserID {
			return true
		}
	}
	return false
}

// Check is IsAuthorized expressed as an error:
// nil when allowed, models.ErrUnauthenticated for an anonymous principal,
// models.ErrForbidden otherwise.
func Check(p *models.Principal, policy Policy, owners ...int) error {
	if p == nil {
		return models.ErrUnauthenticated
	}
	if !IsAuthorized(p, policy, owners...) {
		return models.ErrForbidden
	}
	return nil
}

// VulnCheck is the ownership check a vulnerable endpoint performs
type VulnCheck int

const (
	// CheckNone performs no check at all
	CheckNone VulnCheck = iota
	// CheckRequestOwner compares the record owner with an owner id supplied by the client
	CheckRequestOwner
	// CheckSession compares the record owner with the session identity
	CheckSession
)

func (c VulnCheck) String() string {
	switch c {
	case CheckRequestOwner:
		return "request-owner"
	case CheckSession:
		return "session"
	default:
		return "none"
	}
}

// CheckClaimedOwner trusts the owner id sent by the client.
// It fails only when the claim is missing or does not match the record owner.
func CheckClaimedOwner(claimed *int, owner int) error {
	if claimed == nil {
		return models.ErrUnauthenticated
	}
	if *claimed != owner {
		return models.ErrForbidden
	}
	return nil
}
