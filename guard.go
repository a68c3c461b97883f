package authkit

// AccessRequirement describes what a route or UI fragment demands of the
// current user. Zero-valued fields are unset: an empty requirement allows
// any authenticated user. Requirements are built per check and never
// persisted.
type AccessRequirement struct {
	// RequiredRole demands an exact role match (admin always passes).
	RequiredRole Role
	// AllowedRoles demands membership in the list (admin always passes).
	AllowedRoles []Role
	// RequiredPermission demands a single permission.
	RequiredPermission Permission
	// RequiredPermissions demands any of the listed permissions, or all of
	// them when RequireAll is set.
	RequiredPermissions []Permission
	RequireAll          bool
}

// Decision is the three-way outcome of an access evaluation. The caller
// owns the mapping to UI behavior (render, fallback, redirect).
type Decision uint8

const (
	// DecisionAllow grants access.
	DecisionAllow Decision = iota
	// DecisionDeny refuses access for an authenticated user.
	DecisionDeny
	// DecisionRedirectToAuth refuses access because no user is present.
	DecisionRedirectToAuth
)

// String returns the lowercase decision name.
func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionDeny:
		return "deny"
	case DecisionRedirectToAuth:
		return "redirect_to_auth"
	}
	return "unknown"
}

// Evaluate resolves req against the user snapshot. Pure and total; it
// never errors. Rules apply in a fixed order, first failure wins:
//
//  1. nil user: RedirectToAuth, regardless of req.
//  2. RequiredRole set and not satisfied: Deny.
//  3. AllowedRoles set, user's role not listed, and user is not admin: Deny.
//  4. RequiredPermission set and not held: Deny.
//  5. RequiredPermissions set and the any/all reduction fails: Deny.
//  6. Allow.
//
// Role and permission checks are independent: passing a role rule never
// skips the permission rules.
func Evaluate(u *User, req AccessRequirement) Decision {
	if u == nil {
		return DecisionRedirectToAuth
	}

	if req.RequiredRole != "" && !CheckRoleAccess(u, req.RequiredRole) {
		return DecisionDeny
	}

	if len(req.AllowedRoles) > 0 && u.Role != RoleAdmin {
		if !containsRole(req.AllowedRoles, u.Role) {
			return DecisionDeny
		}
	}

	if req.RequiredPermission.Valid() && !HasPermission(u, req.RequiredPermission) {
		return DecisionDeny
	}

	if len(req.RequiredPermissions) > 0 {
		ok := false
		if req.RequireAll {
			ok = HasAllPermissions(u, req.RequiredPermissions...)
		} else {
			ok = HasAnyPermission(u, req.RequiredPermissions...)
		}
		if !ok {
			return DecisionDeny
		}
	}

	return DecisionAllow
}

func containsRole(roles []Role, r Role) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}
