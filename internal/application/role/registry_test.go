package role

import (
	"testing"

	"github.com/exchange-admin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionsOf_UnknownRoleIsEmpty(t *testing.T) {
	reg := DefaultRegistry()
	for _, r := range []domain.Role{domain.RoleUser, "", "root", "SUPER_ADMIN"} {
		set := reg.PermissionsOf(r)
		assert.Zero(t, set.Len(), "role %q", r)
		for _, p := range domain.AllPermissions() {
			assert.False(t, reg.Allows(r, p), "role %q permission %q", r, p)
		}
	}
}

func TestPermissionsOf_NilRegistryIsEmpty(t *testing.T) {
	var reg *Registry
	assert.Zero(t, reg.PermissionsOf(domain.RoleSuperAdmin).Len())
	assert.False(t, reg.Allows(domain.RoleSuperAdmin, domain.PermViewKYC))
}

func TestSuperAdmin_HoldsFullEnumeration(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, domain.AllPermissions(), reg.PermissionsOf(domain.RoleSuperAdmin).List())
}

func TestOtherRoles_AreStrictSubsetsOfSuperAdmin(t *testing.T) {
	reg := DefaultRegistry()
	super := reg.PermissionsOf(domain.RoleSuperAdmin)
	for _, r := range domain.AdminRoles() {
		if r == domain.RoleSuperAdmin {
			continue
		}
		set := reg.PermissionsOf(r)
		require.NotZero(t, set.Len(), "role %s has no permissions", r)
		assert.Less(t, set.Len(), super.Len(), "role %s is not a strict subset", r)
		for _, p := range set.List() {
			assert.True(t, super.Has(p), "role %s holds %s outside the enumeration", r, p)
		}
	}
}

func TestKYCAdmin_Permissions(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []domain.Permission{
		domain.PermViewUsers, domain.PermViewKYC, domain.PermApproveKYC, domain.PermRejectKYC,
	}, reg.PermissionsOf(domain.RoleKYCAdmin).List())
}

func TestNewRegistry_CopiesInputAndDropsUnknown(t *testing.T) {
	perms := []domain.Permission{domain.PermViewKYC, "launch_rockets"}
	reg := NewRegistry(map[domain.Role][]domain.Permission{domain.RoleListingManager: perms})
	perms[0] = domain.PermManageAdmins

	set := reg.PermissionsOf(domain.RoleListingManager)
	assert.Equal(t, []domain.Permission{domain.PermViewKYC}, set.List())
	assert.Equal(t, len(domain.AllPermissions()), reg.PermissionsOf(domain.RoleSuperAdmin).Len())
}

func TestNewRegistry_SuperAdminCannotBeNarrowed(t *testing.T) {
	reg := NewRegistry(map[domain.Role][]domain.Permission{
		domain.RoleSuperAdmin: {domain.PermViewUsers},
	})
	assert.True(t, reg.Allows(domain.RoleSuperAdmin, domain.PermManageAdmins))
}

func TestRoles_Sorted(t *testing.T) {
	roles := DefaultRegistry().Roles()
	assert.Len(t, roles, len(domain.AdminRoles()))
	for i := 1; i < len(roles); i++ {
		assert.Less(t, string(roles[i-1]), string(roles[i]))
	}
}
