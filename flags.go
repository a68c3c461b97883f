package authkit

import "github.com/wowktm/authkit/permission"

// FeatureFlags is the derived entitlement record for one user snapshot.
// It is recomputed on every call and never persisted. The two Max fields
// are nil when no ceiling applies (buyer, admin, or absent user); admin's
// nil means unlimited, buyer's nil means not applicable.
type FeatureFlags struct {
	CanCreateProducts     bool
	CanEditProducts       bool
	CanDeleteProducts     bool
	CanViewAllOrders      bool
	CanManageUsers        bool
	CanAccessAnalytics    bool
	CanAccessAdminPanel   bool
	CanFeatureProducts    bool
	CanExportData         bool
	CanManageSettings     bool
	CanViewLogs           bool
	CanUseBulkOperations  bool
	CanScheduleProducts   bool
	CanUseAdvancedFilters bool

	MaxProductsAllowed        *int
	MaxImageUploadsPerProduct *int
}

// FeatureKey names one FeatureFlags field for [IsFeatureEnabled] lookups.
type FeatureKey string

const (
	FeatureCanCreateProducts     FeatureKey = "canCreateProducts"
	FeatureCanEditProducts       FeatureKey = "canEditProducts"
	FeatureCanDeleteProducts     FeatureKey = "canDeleteProducts"
	FeatureCanViewAllOrders      FeatureKey = "canViewAllOrders"
	FeatureCanManageUsers        FeatureKey = "canManageUsers"
	FeatureCanAccessAnalytics    FeatureKey = "canAccessAnalytics"
	FeatureCanAccessAdminPanel   FeatureKey = "canAccessAdminPanel"
	FeatureCanFeatureProducts    FeatureKey = "canFeatureProducts"
	FeatureCanExportData         FeatureKey = "canExportData"
	FeatureCanManageSettings     FeatureKey = "canManageSettings"
	FeatureCanViewLogs           FeatureKey = "canViewLogs"
	FeatureCanUseBulkOperations  FeatureKey = "canUseBulkOperations"
	FeatureCanScheduleProducts   FeatureKey = "canScheduleProducts"
	FeatureCanUseAdvancedFilters FeatureKey = "canUseAdvancedFilters"
	FeatureMaxProductsAllowed    FeatureKey = "maxProductsAllowed"
	FeatureMaxImageUploads       FeatureKey = "maxImageUploadsPerProduct"
)

// Seller ceilings keyed by subscription tier. Admin has no ceiling and
// buyer has none either; both surface as nil pointers.
const (
	basicMaxProducts      = 10
	premiumMaxProducts    = 100
	enterpriseMaxProducts = 1000

	basicMaxImages      = 3
	premiumMaxImages    = 10
	enterpriseMaxImages = 20
)

func sellerCeilings(tier SubscriptionTier) (maxProducts, maxImages *int) {
	// Only basic and premium are matched explicitly; everything else,
	// absent tiers included, resolves to the enterprise ceilings.
	products, images := enterpriseMaxProducts, enterpriseMaxImages
	switch tier {
	case TierBasic:
		products, images = basicMaxProducts, basicMaxImages
	case TierPremium:
		products, images = premiumMaxProducts, premiumMaxImages
	}
	return &products, &images
}

// DeriveFlags computes the entitlement record for u. It is pure and total:
// a nil user yields the all-false record with no ceilings. Boolean flags
// are permission-derived except CanUseBulkOperations and
// CanScheduleProducts (role-keyed) and CanUseAdvancedFilters (granted to
// every signed-in user).
func DeriveFlags(u *User) FeatureFlags {
	if u == nil {
		return FeatureFlags{}
	}

	flags := FeatureFlags{
		CanCreateProducts:     HasPermission(u, permission.ProductsCreate),
		CanEditProducts:       HasPermission(u, permission.ProductsEdit),
		CanDeleteProducts:     HasPermission(u, permission.ProductsDelete),
		CanViewAllOrders:      HasPermission(u, permission.OrdersViewAll),
		CanManageUsers:        HasPermission(u, permission.UsersManageRoles),
		CanAccessAnalytics:    HasPermission(u, permission.AnalyticsView),
		CanAccessAdminPanel:   HasPermission(u, permission.AdminAccess),
		CanFeatureProducts:    HasPermission(u, permission.ProductsFeature),
		CanExportData:         HasPermission(u, permission.AnalyticsExport),
		CanManageSettings:     HasPermission(u, permission.AdminSettings),
		CanViewLogs:           HasPermission(u, permission.AdminLogs),
		CanUseBulkOperations:  u.Role != RoleBuyer,
		CanScheduleProducts:   u.Role == RoleSeller || u.Role == RoleAdmin,
		CanUseAdvancedFilters: true,
	}

	if u.Role == RoleSeller {
		flags.MaxProductsAllowed, flags.MaxImageUploadsPerProduct = sellerCeilings(u.Tier)
	}

	return flags
}

// IsFeatureEnabled reports whether the named flag is truthy for u. Numeric
// ceilings coerce to true iff present and nonzero — callers rely on this
// loose coercion, so it must not be tightened. Unknown keys are false.
func IsFeatureEnabled(u *User, key FeatureKey) bool {
	flags := DeriveFlags(u)

	switch key {
	case FeatureCanCreateProducts:
		return flags.CanCreateProducts
	case FeatureCanEditProducts:
		return flags.CanEditProducts
	case FeatureCanDeleteProducts:
		return flags.CanDeleteProducts
	case FeatureCanViewAllOrders:
		return flags.CanViewAllOrders
	case FeatureCanManageUsers:
		return flags.CanManageUsers
	case FeatureCanAccessAnalytics:
		return flags.CanAccessAnalytics
	case FeatureCanAccessAdminPanel:
		return flags.CanAccessAdminPanel
	case FeatureCanFeatureProducts:
		return flags.CanFeatureProducts
	case FeatureCanExportData:
		return flags.CanExportData
	case FeatureCanManageSettings:
		return flags.CanManageSettings
	case FeatureCanViewLogs:
		return flags.CanViewLogs
	case FeatureCanUseBulkOperations:
		return flags.CanUseBulkOperations
	case FeatureCanScheduleProducts:
		return flags.CanScheduleProducts
	case FeatureCanUseAdvancedFilters:
		return flags.CanUseAdvancedFilters
	case FeatureMaxProductsAllowed:
		return flags.MaxProductsAllowed != nil && *flags.MaxProductsAllowed != 0
	case FeatureMaxImageUploads:
		return flags.MaxImageUploadsPerProduct != nil && *flags.MaxImageUploadsPerProduct != 0
	}
	return false
}
