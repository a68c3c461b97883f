package authkit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/wowktm/authkit/password"
	"github.com/wowktm/authkit/store"
)

// Engine owns the single session slot and every stateful operation: login,
// restore, logout, signup, verification, reset, and role updates. The pure
// evaluators (HasPermission, DeriveFlags, Evaluate) never touch it.
//
// All session mutations are serialized: concurrent Login/Logout/Restore
// calls queue rather than interleave, so the slot always reflects exactly
// one completed operation.
type Engine struct {
	config  Config
	store   store.UserStore
	hasher  *password.Hasher
	mailer  Mailer
	audit   *auditDispatcher
	metrics *Metrics

	// opMu serializes whole session mutations (login, restore, logout,
	// role self-update) so they queue instead of interleaving. mu guards
	// only the slot fields for fast concurrent reads.
	opMu  sync.Mutex
	mu    sync.RWMutex
	state SessionState
	user  *User

	// now is swappable for deterministic tests.
	now func() time.Time
}

// CurrentUser returns the authenticated user snapshot, or nil when the
// session is anonymous, loading, or uninitialized. The returned value is
// shared and must not be mutated.
func (e *Engine) CurrentUser() *User {
	if e == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user
}

// SessionState returns the current lifecycle phase of the session slot.
func (e *Engine) SessionState() SessionState {
	if e == nil {
		return SessionUninitialized
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Authorize evaluates req against the current session user, records the
// decision in metrics and audit, and returns it. The evaluation itself is
// [Evaluate]; this wrapper adds observability and the session read.
func (e *Engine) Authorize(ctx context.Context, req AccessRequirement) Decision {
	if e == nil {
		return DecisionRedirectToAuth
	}

	start := e.now()
	user := e.CurrentUser()
	decision := Evaluate(user, req)
	e.metrics.Observe(MetricAuthorizeLatency, e.now().Sub(start))

	switch decision {
	case DecisionAllow:
		e.metrics.Inc(MetricAccessAllowed)
	case DecisionDeny:
		e.metrics.Inc(MetricAccessDenied)
	case DecisionRedirectToAuth:
		e.metrics.Inc(MetricAccessRedirected)
	}

	userID, role := "", Role("")
	if user != nil {
		userID, role = user.ID, user.Role
	}
	e.emitAudit(ctx, EventAccessDecision, decision == DecisionAllow, userID, role, "", nil,
		func() map[string]string {
			return map[string]string{
				"decision":      decision.String(),
				"required_role": string(req.RequiredRole),
				"require_all":   strconv.FormatBool(req.RequireAll),
			}
		})

	return decision
}

// Close shuts down the audit dispatcher, draining queued events. The engine
// must not be used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped under
// backpressure since the engine was built.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// setSession swaps the session slot under the write lock.
func (e *Engine) setSession(state SessionState, user *User) {
	e.mu.Lock()
	e.state = state
	e.user = user
	e.mu.Unlock()
}

// userFromRecord projects a stored record into an authorization snapshot.
func userFromRecord(rec store.Record) *User {
	return &User{
		ID:            rec.ID,
		Email:         rec.Email,
		FirstName:     rec.FirstName,
		LastName:      rec.LastName,
		Phone:         rec.Phone,
		Role:          Role(rec.Role),
		Permissions:   PermissionSet(rec.Permissions),
		EmailVerified: rec.EmailVerified,
		Active:        rec.Active,
		Tier:          SubscriptionTier(rec.Tier),
		BusinessName:  rec.BusinessName,
		CreatedAt:     rec.CreatedAt,
		LastLogin:     rec.LastLogin,
	}
}
