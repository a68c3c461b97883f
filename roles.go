package authkit

import "github.com/wowktm/authkit/permission"

// Permission is one capability tag from the closed catalog in
// [github.com/wowktm/authkit/permission].
type Permission = permission.Permission

// PermissionSet is a bitmask-backed collection of permissions.
type PermissionSet = permission.Set

var (
	buyerGrants = permission.NewSet(
		permission.OrdersView,
		permission.OrdersCancel,
	)

	sellerGrants = permission.NewSet(
		permission.ProductsView,
		permission.ProductsCreate,
		permission.ProductsEdit,
		permission.ProductsDelete,
		permission.ProductsPublish,
		permission.OrdersView,
		permission.OrdersEdit,
		permission.OrdersFulfill,
		permission.AnalyticsView,
		permission.SellerDashboard,
		permission.SellerReports,
		permission.SellerSettings,
	)

	// Admin is a strict superset of buyer and seller by construction:
	// it starts from their union and adds the admin-only grants.
	adminGrants = buyerGrants.Union(sellerGrants).Union(permission.NewSet(
		permission.ProductsFeature,
		permission.OrdersViewAll,
		permission.OrdersRefund,
		permission.UsersView,
		permission.UsersEdit,
		permission.UsersDelete,
		permission.UsersManageRoles,
		permission.AnalyticsExport,
		permission.AdminAccess,
		permission.AdminSettings,
		permission.AdminLogs,
	))
)

// PermissionsFor returns the default permission set for a role. It is total
// over the closed role set and constant-time; unknown roles get the empty
// set rather than an error, matching the least-privilege posture of every
// other query in this package.
func PermissionsFor(role Role) PermissionSet {
	switch role {
	case RoleBuyer:
		return buyerGrants
	case RoleSeller:
		return sellerGrants
	case RoleAdmin:
		return adminGrants
	}
	return permission.NewSet()
}
