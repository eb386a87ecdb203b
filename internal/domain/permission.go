package domain

// Permission is an atomic capability gating one admin action.
type Permission string

const (
	PermViewUsers         Permission = "view_users"
	PermEditUsers         Permission = "edit_users"
	PermSuspendUsers      Permission = "suspend_users"
	PermViewKYC           Permission = "view_kyc"
	PermApproveKYC        Permission = "approve_kyc"
	PermRejectKYC         Permission = "reject_kyc"
	PermViewTransactions  Permission = "view_transactions"
	PermViewP2P           Permission = "view_p2p"
	PermManageP2P         Permission = "manage_p2p"
	PermResolveDisputes   Permission = "resolve_disputes"
	PermViewAffiliates    Permission = "view_affiliates"
	PermManageAffiliates  Permission = "manage_affiliates"
	PermViewListings      Permission = "view_listings"
	PermManageListings    Permission = "manage_listings"
	PermViewReports       Permission = "view_reports"
	PermExportReports     Permission = "export_reports"
	PermViewSystem        Permission = "view_system"
	PermManageDeployments Permission = "manage_deployments"
	PermViewCompliance    Permission = "view_compliance"
	PermManageCompliance  Permission = "manage_compliance"
	PermViewRisk          Permission = "view_risk"
	PermManageRisk        Permission = "manage_risk"
	PermManageAdmins      Permission = "manage_admins"
)

var allPermissions = [...]Permission{
	PermViewUsers,
	PermEditUsers,
	PermSuspendUsers,
	PermViewKYC,
	PermApproveKYC,
	PermRejectKYC,
	PermViewTransactions,
	PermViewP2P,
	PermManageP2P,
	PermResolveDisputes,
	PermViewAffiliates,
	PermManageAffiliates,
	PermViewListings,
	PermManageListings,
	PermViewReports,
	PermExportReports,
	PermViewSystem,
	PermManageDeployments,
	PermViewCompliance,
	PermManageCompliance,
	PermViewRisk,
	PermManageRisk,
	PermManageAdmins,
}

// AllPermissions returns the full permission enumeration in a fixed order.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions[:])
	return out
}

// IsKnown reports whether p belongs to the permission enumeration.
func (p Permission) IsKnown() bool {
	for _, k := range allPermissions {
		if p == k {
			return true
		}
	}
	return false
}
