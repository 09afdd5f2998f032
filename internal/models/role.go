package models

import "strings"

type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleAuthority Role = "authority"
	RoleAdmin     Role = "admin"
)

// Rank orders roles for cumulative permission checks: a user with rank N
// satisfies any requirement of rank <= N. Unknown roles rank below citizen.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleAuthority:
		return 2
	case RoleCitizen:
		return 1
	default:
		return 0
	}
}

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCitizen:
		return RoleCitizen, true
	case RoleAuthority:
		return RoleAuthority, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}
