// Package authkit is the authorization and feature-entitlement engine for a
// multi-vendor storefront: it maps a user's role and subscription tier to the
// permissions they hold and the capability limits they are granted, and it
// evaluates route/UI access requirements against that state.
//
// The evaluator ([HasPermission], [CheckRoleAccess], [Evaluate]) and the
// entitlement deriver ([DeriveFlags], [IsFeatureEnabled]) are pure functions
// over an immutable [User] snapshot and are safe to call from any number of
// goroutines. The [Engine] is the only stateful surface: it owns the session
// lifecycle (restore, login, logout, role updates) and serializes all
// mutations internally.
//
// # Architecture boundaries
//
// authkit is the public surface. It exposes [Engine], [Builder], [Config],
// the pure evaluators, and value types (User, FeatureFlags, Decision).
// Audit dispatch lives under internal/ and is never exported directly;
// credential persistence lives behind the store.UserStore interface.
//
// # What this package must NOT do
//
//   - Render anything, or know how a Decision maps to UI.
//   - Cache derived entitlements: FeatureFlags are recomputed per call and
//     never stored.
//   - Read ambient session state: every evaluator takes the snapshot as an
//     argument.
//
// # Performance contract
//
// Evaluate and DeriveFlags are hot paths on every guarded route render.
// They must not perform I/O and must not allocate beyond the returned
// value.
package authkit
