package role

import (
	"sort"

	"github.com/exchange-admin/internal/domain"
)

// PermissionSet is an immutable set of permissions.
type PermissionSet struct {
	perms map[domain.Permission]struct{}
}

func newPermissionSet(perms []domain.Permission) PermissionSet {
	set := PermissionSet{perms: make(map[domain.Permission]struct{}, len(perms))}
	for _, p := range perms {
		if p.IsKnown() {
			set.perms[p] = struct{}{}
		}
	}
	return set
}

// Has reports whether p is in the set. The zero value contains nothing.
func (s PermissionSet) Has(p domain.Permission) bool {
	_, ok := s.perms[p]
	return ok
}

// Len reports how many permissions the set holds.
func (s PermissionSet) Len() int { return len(s.perms) }

// List returns the members in enumeration order.
func (s PermissionSet) List() []domain.Permission {
	out := make([]domain.Permission, 0, len(s.perms))
	for _, p := range domain.AllPermissions() {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Registry maps roles to permission sets. It is built once and never mutated,
// so it can be shared across goroutines without locking.
type Registry struct {
	table map[domain.Role]PermissionSet
}

// NewRegistry copies table into a frozen registry. Unknown permissions are
// dropped and super_admin always holds the full enumeration.
func NewRegistry(table map[domain.Role][]domain.Permission) *Registry {
	r := &Registry{table: make(map[domain.Role]PermissionSet, len(table)+1)}
	for role, perms := range table {
		r.table[role] = newPermissionSet(perms)
	}
	r.table[domain.RoleSuperAdmin] = newPermissionSet(domain.AllPermissions())
	return r
}

// DefaultRegistry returns the production role table.
func DefaultRegistry() *Registry {
	return NewRegistry(map[domain.Role][]domain.Permission{
		domain.RoleKYCAdmin: {
			domain.PermViewUsers, domain.PermViewKYC, domain.PermApproveKYC, domain.PermRejectKYC,
		},
		domain.RoleCustomerSupport: {
			domain.PermViewUsers, domain.PermViewKYC, domain.PermViewTransactions,
		},
		domain.RoleP2PManager: {
			domain.PermViewUsers, domain.PermViewP2P, domain.PermManageP2P, domain.PermResolveDisputes,
		},
		domain.RoleAffiliateManager: {
			domain.PermViewUsers, domain.PermViewAffiliates, domain.PermManageAffiliates, domain.PermViewReports,
		},
		domain.RoleBusinessDevelopmentManager: {
			domain.PermViewUsers, domain.PermViewAffiliates, domain.PermViewListings, domain.PermViewReports,
		},
		domain.RoleTechnicalTeam: {
			domain.PermViewSystem, domain.PermManageDeployments,
		},
		domain.RoleListingManager: {
			domain.PermViewListings, domain.PermManageListings,
		},
		domain.RoleComplianceOfficer: {
			domain.PermViewUsers, domain.PermViewKYC, domain.PermViewTransactions,
			domain.PermViewCompliance, domain.PermManageCompliance,
			domain.PermViewReports, domain.PermExportReports,
		},
		domain.RoleRiskManager: {
			domain.PermViewUsers, domain.PermViewTransactions,
			domain.PermViewRisk, domain.PermManageRisk, domain.PermViewReports,
		},
	})
}

// PermissionsOf returns the permissions granted to role. Roles without an
// entry get the empty set.
func (r *Registry) PermissionsOf(role domain.Role) PermissionSet {
	if r == nil {
		return PermissionSet{}
	}
	return r.table[role]
}

// Allows reports whether role holds p.
func (r *Registry) Allows(role domain.Role, p domain.Permission) bool {
	return r.PermissionsOf(role).Has(p)
}

// Roles returns every role with an entry, sorted by name.
func (r *Registry) Roles() []domain.Role {
	if r == nil {
		return nil
	}
	out := make([]domain.Role, 0, len(r.table))
	for role := range r.table {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
