package domain

import "github.com/google/uuid"

// Role is the closed set of actor roles.
type Role string

const (
	RoleCustomer     Role = "customer"
	RoleEmployee     Role = "employee"
	RoleStoreManager Role = "store_manager"
	RoleAdmin        Role = "admin"
)

// ParseRole converts a stored role string, reporting false for unknown values.
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleCustomer, RoleEmployee, RoleStoreManager, RoleAdmin:
		return Role(value), true
	default:
		return "", false
	}
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// Actor is a resolved identity referenced by activities and transitions.
type Actor struct {
	ID   uuid.UUID
	Role Role
	Name string
}

// ActorRoles maps every actor id referenced by an operation to its resolved role.
type ActorRoles map[uuid.UUID]Role
