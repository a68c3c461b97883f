// Package audit implements async event dispatching for authorization and
// session lifecycle operations.
//
// # Components
//
//   - [Sink] — interface for event consumers (channel, JSON writer, logrus, no-op).
//   - [Event] — structured record with timestamp, type, actor, target, decision.
//
// # Architecture boundaries
//
// This package owns event shapes and sink delivery. It does NOT decide
// which events to emit — that responsibility belongs to the Engine.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import authkit or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
