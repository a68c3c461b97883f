// Package store provides account and one-shot token persistence behind the
// [UserStore] interface, with a Redis-backed implementation for production
// and an in-memory implementation for tests and single-process use.
//
// # Architecture boundaries
//
// This package owns key layout and record encoding. It does NOT evaluate
// permissions, hash passwords, or enforce authorization policy — those
// responsibilities belong to the root package.
//
// # What this package must NOT do
//
//   - Import authkit or permission (no upward imports).
//   - Interpret the permission bitmask beyond round-tripping it.
//   - Store plaintext passwords.
package store
