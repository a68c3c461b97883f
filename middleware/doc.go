// Package middleware exposes HTTP middleware that enforces authkit access
// requirements per request.
//
// # Guards
//
//   - [Require] — resolves the bearer token statelessly and evaluates an
//     [authkit.AccessRequirement] against the resulting user.
//   - [Optional] — resolves the bearer token when present but never rejects;
//     handlers see an anonymous request instead.
//
// Each guard reads the Authorization header, calls Engine.ResolveToken, and
// injects the user snapshot into the request context for handlers.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into engine calls. It makes no
// authorization decisions of its own — requirement evaluation is delegated
// to authkit.Evaluate.
//
// # What this package must NOT do
//
//   - Parse or create session tokens directly (delegates to Engine).
//   - Touch the engine's session slot (per-request auth is stateless).
//   - Map decisions to anything beyond 401/403/next.
package middleware
