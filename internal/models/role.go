package models

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Role is a set of role flags attached to a user
type Role int

// Role flags
const (
	RoleAdmin Role = 1 << iota
	RoleHR
	RoleInstructor
	RoleTeller
	RoleSupplyManager
	RoleManager
)

// RoleNone is the empty role set of a plain user
const RoleNone Role = 0

var allRoles = []Role{RoleAdmin, RoleHR, RoleInstructor, RoleTeller, RoleSupplyManager, RoleManager}

var roleNames = map[Role]string{
	RoleAdmin:         "admin",
	RoleHR:            "hr",
	RoleInstructor:    "instructor",
	RoleTeller:        "teller",
	RoleSupplyManager: "supply_manager",
	RoleManager:       "manager",
}

// Has reports whether the set contains at least one of the roles in other
func (r Role) Has(other Role) bool {
	return r&other != 0
}

// Names returns the role names contained in the set in declaration order
func (r Role) Names() []string {
	return lo.FilterMap(allRoles, func(role Role, _ int) (string, bool) {
		return roleNames[role], r.Has(role)
	})
}

func (r Role) String() string {
	names := r.Names()
	if len(names) == 0 {
		return "user"
	}
	return strings.Join(names, ",")
}

// ParseRoles builds a role set from role names.
// Unknown names produce an error.
func ParseRoles(names []string) (Role, error) {
	var set Role
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		role, ok := lo.FindKey(roleNames, name)
		if !ok {
			return RoleNone, fmt.Errorf("unknown role %q", name)
		}
		set |= role
	}
	return set, nil
}
