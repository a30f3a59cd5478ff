package authority

import (
	"strings"
)

const (
	RoleAdmin      = "admin"
	RoleContractor = "contractor"
	RoleWorker     = "worker"
	RoleSupplier   = "supplier"
)

// RegistrableRoles can be chosen on self registration, admin accounts are bootstrapped only
var RegistrableRoles = []string{RoleContractor, RoleWorker, RoleSupplier}

func IsRegistrableRole(role string) bool {
	for _, r := range RegistrableRoles {
		if r == role {
			return true
		}
	}
	return false
}

type Permissions []string

func (c Permissions) HasRole(role string) bool {
	for _, v := range c {
		if strings.EqualFold(v, role) {
			return true
		}
	}
	return false
}

func (c Permissions) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if c.HasRole(role) {
			return true
		}
	}
	return false
}

func (c Permissions) HasRolePrefix(prefix string) bool {
	for _, v := range c {
		if strings.HasPrefix(strings.ToLower(v), strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

// PermissionsOfRole each account holds exactly one role
func PermissionsOfRole(role string) Permissions {
	if role == "" {
		return Permissions{}
	}
	return Permissions{role}
}
