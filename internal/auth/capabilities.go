package auth

import (
	"errors"

	"github.com/mrlokans/catalog/internal/entities"
)

// ErrPermissionDenied is returned when an account lacks a capability.
var ErrPermissionDenied = errors.New("insufficient permissions")

// Capability names an action guarded by authorization.
type Capability string

const (
	// CapManageBooks allows creating, editing and deleting books and labels.
	CapManageBooks Capability = "catalog.manage_books"
	// CapManageAccounts allows creating and deleting accounts.
	CapManageAccounts Capability = "accounts.manage"
)

var roleCapabilities = map[entities.UserRole][]Capability{
	entities.UserRoleAdmin:     {CapManageBooks, CapManageAccounts},
	entities.UserRoleLibrarian: {CapManageBooks},
	entities.UserRoleMember:    {},
}

// RoleHasCapability reports whether the role grants the capability.
func RoleHasCapability(role entities.UserRole, capability Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// Capabilities lists the capabilities granted to a role.
func Capabilities(role entities.UserRole) []Capability {
	caps := roleCapabilities[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}
