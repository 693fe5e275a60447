// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/fruvia/internal/platform/sec"
)

/*
TestNormalize checks that the legacy superadmin spelling collapses to the
canonical one and everything else passes through.
*/
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   sec.UserRole
		want sec.UserRole
	}{
		{"legacy_superadmin", "super_admin", sec.RoleSuperAdmin},
		{"canonical_superadmin", sec.RoleSuperAdmin, sec.RoleSuperAdmin},
		{"admin_untouched", sec.RoleAdmin, sec.RoleAdmin},
		{"customer_untouched", sec.RoleCustomer, sec.RoleCustomer},
		{"unknown_untouched", "moderator", "moderator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sec.Normalize(tt.in))
		})
	}
}

/*
TestUserRole_Valid checks role validity across canonical, legacy, and
unknown spellings.
*/
func TestUserRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleCustomer.Valid())
	assert.True(t, sec.RoleAdmin.Valid())
	assert.True(t, sec.RoleSuperAdmin.Valid())
	assert.True(t, sec.UserRole("super_admin").Valid())
	assert.False(t, sec.UserRole("").Valid())
	assert.False(t, sec.UserRole("moderator").Valid())
}

/*
TestUserRole_AtLeast checks the role hierarchy, including the legacy
superadmin spelling on either side of the comparison.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		name   string
		role   sec.UserRole
		target sec.UserRole
		want   bool
	}{
		{"customer_meets_customer", sec.RoleCustomer, sec.RoleCustomer, true},
		{"customer_below_admin", sec.RoleCustomer, sec.RoleAdmin, false},
		{"admin_meets_admin", sec.RoleAdmin, sec.RoleAdmin, true},
		{"admin_below_superadmin", sec.RoleAdmin, sec.RoleSuperAdmin, false},
		{"superadmin_meets_admin", sec.RoleSuperAdmin, sec.RoleAdmin, true},
		{"legacy_superadmin_meets_admin", "super_admin", sec.RoleAdmin, true},
		{"superadmin_meets_legacy_target", sec.RoleSuperAdmin, "super_admin", true},
		{"unknown_below_customer", "moderator", sec.RoleCustomer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.target))
		})
	}
}
