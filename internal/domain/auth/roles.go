package auth

import "strings"

const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "RH"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
)

var Roles = []string{RoleAdmin, RoleHR, RoleManager, RoleEmployee}

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

type UserContext struct {
	UserID   int64
	Username string
	RoleName string
}

// NormalizeRole upper-cases a role name and reports whether it is known.
func NormalizeRole(role string) (string, bool) {
	role = strings.ToUpper(strings.TrimSpace(role))
	for _, known := range Roles {
		if role == known {
			return role, true
		}
	}
	return role, false
}

// IsAdministrative reports whether actor may move employees between divisions.
// The comparison is case-insensitive; surrounding whitespace is not trimmed.
func IsAdministrative(actor string) bool {
	return strings.EqualFold(actor, RoleAdmin) || strings.EqualFold(actor, RoleHR)
}
