package authkit

import "testing"

func sellerWithTier(tier SubscriptionTier) *User {
	u := userWithRole(RoleSeller)
	u.Tier = tier
	return u
}

func TestDeriveFlagsNilUser(t *testing.T) {
	flags := DeriveFlags(nil)

	if flags != (FeatureFlags{}) {
		t.Fatalf("nil user must derive the zero record, got %+v", flags)
	}
	if flags.CanUseAdvancedFilters {
		t.Fatal("advanced filters require a signed-in user")
	}
}

func TestDeriveFlagsBuyer(t *testing.T) {
	flags := DeriveFlags(userWithRole(RoleBuyer))

	if flags.CanCreateProducts || flags.CanManageUsers || flags.CanAccessAdminPanel {
		t.Fatalf("buyer derived capability flags it should not have: %+v", flags)
	}
	if flags.CanUseBulkOperations {
		t.Error("bulk operations are withheld from buyers")
	}
	if flags.CanScheduleProducts {
		t.Error("scheduling is seller and admin only")
	}
	if !flags.CanUseAdvancedFilters {
		t.Error("every signed-in user gets advanced filters")
	}
	if flags.MaxProductsAllowed != nil || flags.MaxImageUploadsPerProduct != nil {
		t.Error("buyers have no product ceilings")
	}
}

func TestDeriveFlagsSellerTiers(t *testing.T) {
	cases := []struct {
		tier         SubscriptionTier
		wantProducts int
		wantImages   int
	}{
		{TierBasic, 10, 3},
		{TierPremium, 100, 10},
		{TierEnterprise, 1000, 20},
		// Only basic and premium match explicitly; absent or unknown
		// tiers resolve to the enterprise ceilings.
		{"", 1000, 20},
		{"gold", 1000, 20},
	}

	for _, tc := range cases {
		flags := DeriveFlags(sellerWithTier(tc.tier))

		if !flags.CanCreateProducts || !flags.CanScheduleProducts || !flags.CanUseBulkOperations {
			t.Errorf("tier %q: seller capability flags wrong: %+v", tc.tier, flags)
		}
		if flags.MaxProductsAllowed == nil || *flags.MaxProductsAllowed != tc.wantProducts {
			t.Errorf("tier %q: MaxProductsAllowed = %v, want %d", tc.tier, flags.MaxProductsAllowed, tc.wantProducts)
		}
		if flags.MaxImageUploadsPerProduct == nil || *flags.MaxImageUploadsPerProduct != tc.wantImages {
			t.Errorf("tier %q: MaxImageUploadsPerProduct = %v, want %d", tc.tier, flags.MaxImageUploadsPerProduct, tc.wantImages)
		}
	}
}

func TestDeriveFlagsAdminUnlimited(t *testing.T) {
	flags := DeriveFlags(userWithRole(RoleAdmin))

	if !flags.CanCreateProducts || !flags.CanManageUsers || !flags.CanAccessAdminPanel || !flags.CanViewLogs {
		t.Fatalf("admin must derive every capability flag: %+v", flags)
	}
	if flags.MaxProductsAllowed != nil || flags.MaxImageUploadsPerProduct != nil {
		t.Fatal("admin ceilings must be nil (unlimited)")
	}
}

func TestIsFeatureEnabledNumericCoercion(t *testing.T) {
	seller := sellerWithTier(TierBasic)
	admin := userWithRole(RoleAdmin)

	// Present nonzero ceiling coerces to true.
	if !IsFeatureEnabled(seller, FeatureMaxProductsAllowed) {
		t.Error("seller ceiling must coerce to true")
	}
	// Admin's nil ceiling coerces to false even though it means unlimited.
	if IsFeatureEnabled(admin, FeatureMaxProductsAllowed) {
		t.Error("absent ceiling must coerce to false")
	}
	if IsFeatureEnabled(nil, FeatureMaxImageUploads) {
		t.Error("nil user has no ceilings")
	}
}

func TestIsFeatureEnabledBooleansAndUnknownKey(t *testing.T) {
	seller := userWithRole(RoleSeller)

	if !IsFeatureEnabled(seller, FeatureCanCreateProducts) {
		t.Error("seller can create products")
	}
	if IsFeatureEnabled(seller, FeatureCanManageUsers) {
		t.Error("seller cannot manage users")
	}
	if IsFeatureEnabled(seller, FeatureKey("canDoAnything")) {
		t.Error("unknown keys must be false")
	}
	if IsFeatureEnabled(nil, FeatureCanUseAdvancedFilters) {
		t.Error("advanced filters are false without a user")
	}
}
