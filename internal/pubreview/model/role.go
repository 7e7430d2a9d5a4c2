package model

import "strings"

// Role is the privilege tier carried by every user account.
type Role string

const (
	RoleDefault       Role = "default"
	RoleModerator     Role = "moderator"
	RoleAdministrator Role = "administrator"
)

// Roles lists every role from the lowest to the highest rank.
var Roles = []Role{RoleDefault, RoleModerator, RoleAdministrator}

// Rank converts a role into its position in the hierarchy. Unknown values rank
// as the default role.
func (r Role) Rank() int {
	switch r {
	case RoleModerator:
		return 1
	case RoleAdministrator:
		return 2
	default:
		return 0
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDefault, RoleModerator, RoleAdministrator:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole normalises s into a Role.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	return role, role.Valid()
}

// MeetsOrExceeds reports whether actual ranks at or above required.
func MeetsOrExceeds(actual, required Role) bool {
	return actual.Rank() >= required.Rank()
}

// RolesAtOrBelow returns the inclusive downward closure of role. It is used to
// filter records by their visibility floor: a moderator sees moderator and
// default records, an administrator sees everything.
func RolesAtOrBelow(role Role) []Role {
	out := make([]Role, 0, len(Roles))
	for _, r := range Roles {
		if MeetsOrExceeds(role, r) {
			out = append(out, r)
		}
	}
	return out
}
