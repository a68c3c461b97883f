package authkit

import (
	"io"
	"time"

	internalaudit "github.com/wowktm/authkit/internal/audit"
)

// Role is the coarse-grained user category that determines the default
// permission set. The set of roles is closed.
type Role string

const (
	// RoleBuyer is the default role for shoppers.
	RoleBuyer Role = "buyer"
	// RoleSeller is the role for marketplace vendors.
	RoleSeller Role = "seller"
	// RoleAdmin is the operator role; it satisfies any required role.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the closed role values.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// SubscriptionTier classifies seller plans. It affects numeric capability
// ceilings for the seller role only; the empty value means no tier.
type SubscriptionTier string

const (
	// TierBasic is an exported constant used by the entitlement deriver.
	TierBasic SubscriptionTier = "basic"
	// TierPremium is an exported constant used by the entitlement deriver.
	TierPremium SubscriptionTier = "premium"
	// TierEnterprise is an exported constant used by the entitlement deriver.
	TierEnterprise SubscriptionTier = "enterprise"
)

// Valid reports whether t is a known tier. The empty tier is not valid but
// is an accepted absent value on [User].
func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierBasic, TierPremium, TierEnterprise:
		return true
	}
	return false
}

// User is the authorization-relevant projection of an account record. It is
// an immutable snapshot: evaluators take it by pointer but never mutate it,
// and the Engine replaces the whole value on any session change.
type User struct {
	ID            string
	Email         string
	FirstName     string
	LastName      string
	Phone         string
	Role          Role
	Permissions   PermissionSet
	EmailVerified bool
	Active        bool
	Tier          SubscriptionTier

	BusinessName string
	CreatedAt    time.Time
	LastLogin    time.Time
}

// Credentials carries a login attempt. RememberMe extends the session token
// lifetime; it never changes the authorization result.
type Credentials struct {
	Email      string
	Password   string
	RememberMe bool
}

// SessionState is the lifecycle phase of the engine's single session slot.
type SessionState uint8

const (
	// SessionUninitialized is the state before the first Restore call.
	SessionUninitialized SessionState = iota
	// SessionLoading is the state while a stored credential is validated.
	SessionLoading
	// SessionAuthenticated means a User snapshot is available.
	SessionAuthenticated
	// SessionAnonymous means no user is signed in.
	SessionAnonymous
)

// String returns the lowercase state name for logs and audit metadata.
func (s SessionState) String() string {
	switch s {
	case SessionUninitialized:
		return "uninitialized"
	case SessionLoading:
		return "loading"
	case SessionAuthenticated:
		return "authenticated"
	case SessionAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// LogrusSink is an [AuditSink] that logs events through a logrus logger.
type LogrusSink = internalaudit.LogrusSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
