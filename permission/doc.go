// Package permission defines the closed catalog of storefront capability
// tags and a bitmask-backed set type used by authkit authorization checks.
//
// # Catalog
//
// The catalog is fixed at compile time: 24 tags namespaced by resource
// (products, orders, users, analytics, admin, seller). Tags are opaque and
// carry no implication between each other; aggregation happens only through
// role grants in the root package.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. [Set] is a
// single machine word; membership and subset checks are constant-time.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import authkit or any of its subpackages.
//   - Accept tags outside the catalog ([Parse] rejects them).
package permission
