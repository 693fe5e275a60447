// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access, including admin account management
	RoleSuperAdmin UserRole = "superadmin"

	// Can manage the catalogue, orders, customers, content, and feedback
	RoleAdmin UserRole = "admin"

	// Default role for registered shoppers
	RoleCustomer UserRole = "customer"
)

// legacySuperAdmin is the historical spelling of the superadmin role that
// still exists in data written by earlier releases. Both spellings are
// accepted as equivalent.
const legacySuperAdmin UserRole = "super_admin"

// Normalize collapses legacy role spellings into their canonical form.
func Normalize(r UserRole) UserRole {
	if r == legacySuperAdmin {
		return RoleSuperAdmin
	}
	return r
}

// Valid reports whether the role is one of the known roles after normalization.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch Normalize(r) {
	case RoleSuperAdmin:
		return 40
	case RoleAdmin:
		return 30
	case RoleCustomer:
		return 10
	default:
		return 0
	}
}
