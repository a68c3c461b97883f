package permission

import "fmt"

// Permission is one capability tag from the closed storefront catalog.
// The zero value is invalid; every valid Permission maps to a stable bit
// position inside a [Set].
type Permission uint8

const (
	// Product permissions.
	ProductsView Permission = iota + 1
	ProductsCreate
	ProductsEdit
	ProductsDelete
	ProductsPublish
	ProductsFeature

	// Order permissions.
	OrdersView
	OrdersViewAll
	OrdersEdit
	OrdersCancel
	OrdersFulfill
	OrdersRefund

	// User administration permissions.
	UsersView
	UsersEdit
	UsersDelete
	UsersManageRoles

	// Analytics permissions.
	AnalyticsView
	AnalyticsExport

	// Admin panel permissions.
	AdminAccess
	AdminSettings
	AdminLogs

	// Seller workspace permissions.
	SellerDashboard
	SellerReports
	SellerSettings

	permissionCount = iota + 1
)

var names = [...]string{
	ProductsView:     "products.view",
	ProductsCreate:   "products.create",
	ProductsEdit:     "products.edit",
	ProductsDelete:   "products.delete",
	ProductsPublish:  "products.publish",
	ProductsFeature:  "products.feature",
	OrdersView:       "orders.view",
	OrdersViewAll:    "orders.view_all",
	OrdersEdit:       "orders.edit",
	OrdersCancel:     "orders.cancel",
	OrdersFulfill:    "orders.fulfill",
	OrdersRefund:     "orders.refund",
	UsersView:        "users.view",
	UsersEdit:        "users.edit",
	UsersDelete:      "users.delete",
	UsersManageRoles: "users.manage_roles",
	AnalyticsView:    "analytics.view",
	AnalyticsExport:  "analytics.export",
	AdminAccess:      "admin.access",
	AdminSettings:    "admin.settings",
	AdminLogs:        "admin.logs",
	SellerDashboard:  "seller.dashboard",
	SellerReports:    "seller.reports",
	SellerSettings:   "seller.settings",
}

var byName = func() map[string]Permission {
	m := make(map[string]Permission, permissionCount)
	for p := ProductsView; p.Valid(); p++ {
		m[names[p]] = p
	}
	return m
}()

// Count is the number of permissions in the catalog.
const Count = permissionCount - 1

// Valid reports whether p is a member of the catalog.
func (p Permission) Valid() bool {
	return p >= ProductsView && p < permissionCount
}

// String returns the namespaced tag, e.g. "orders.refund".
// Invalid values render as "permission(N)".
func (p Permission) String() string {
	if !p.Valid() {
		return fmt.Sprintf("permission(%d)", uint8(p))
	}
	return names[p]
}

// Parse resolves a namespaced tag back to its Permission.
// The catalog is closed: unknown tags return false.
func Parse(tag string) (Permission, bool) {
	p, ok := byName[tag]
	return p, ok
}

// All returns every permission in the catalog in declaration order.
func All() []Permission {
	out := make([]Permission, 0, Count)
	for p := ProductsView; p.Valid(); p++ {
		out = append(out, p)
	}
	return out
}
