package authkit

// The evaluator answers point queries over a single [User] snapshot. Every
// function here is pure and total: a nil user, an unknown permission, or an
// empty query degrades to false — never to an error or a panic.

// HasPermission reports whether the user holds p. A nil user holds nothing.
func HasPermission(u *User, p Permission) bool {
	if u == nil {
		return false
	}
	return u.Permissions.Has(p)
}

// HasAnyPermission reports whether the user holds at least one of perms.
// False for a nil user or an empty query.
func HasAnyPermission(u *User, perms ...Permission) bool {
	if u == nil {
		return false
	}
	for _, p := range perms {
		if u.Permissions.Has(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the user holds every member of perms.
// Vacuously true for an empty query when a user is present; always false
// for a nil user.
func HasAllPermissions(u *User, perms ...Permission) bool {
	if u == nil {
		return false
	}
	for _, p := range perms {
		if !u.Permissions.Has(p) {
			return false
		}
	}
	return true
}

// CheckRoleAccess reports whether the user satisfies the required role.
// Admin satisfies any required role; every other role needs an exact match.
// The admin bypass is asymmetric on purpose: requiredRole=admin is still
// only satisfied by admin.
func CheckRoleAccess(u *User, requiredRole Role) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == requiredRole
}
