package domain

import "strings"

// Role is the job function stored on an account. Customer accounts carry
// RoleUser, which is not an admin role and never authorizes admin routes.
type Role string

const (
	RoleSuperAdmin                 Role = "super_admin"
	RoleKYCAdmin                   Role = "kyc_admin"
	RoleCustomerSupport            Role = "customer_support"
	RoleP2PManager                 Role = "p2p_manager"
	RoleAffiliateManager           Role = "affiliate_manager"
	RoleBusinessDevelopmentManager Role = "business_development_manager"
	RoleTechnicalTeam              Role = "technical_team"
	RoleListingManager             Role = "listing_manager"
	RoleComplianceOfficer          Role = "compliance_officer"
	RoleRiskManager                Role = "risk_manager"

	RoleUser Role = "user"
)

var adminRoles = [...]Role{
	RoleSuperAdmin,
	RoleKYCAdmin,
	RoleCustomerSupport,
	RoleP2PManager,
	RoleAffiliateManager,
	RoleBusinessDevelopmentManager,
	RoleTechnicalTeam,
	RoleListingManager,
	RoleComplianceOfficer,
	RoleRiskManager,
}

// AdminRoles returns the admin role enumeration in declaration order.
func AdminRoles() []Role {
	out := make([]Role, len(adminRoles))
	copy(out, adminRoles[:])
	return out
}

// IsAdmin reports whether r is one of the enumerated admin roles.
func (r Role) IsAdmin() bool {
	for _, a := range adminRoles {
		if r == a {
			return true
		}
	}
	return false
}

// ParseRole normalises a stored role string. ok is false for values outside
// the admin enumeration and RoleUser.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r == RoleUser || r.IsAdmin()
}
