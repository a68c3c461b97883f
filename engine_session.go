package authkit

import (
	"context"
	"errors"
	"strings"

	"github.com/wowktm/authkit/store"
)

// Login authenticates the credentials, replaces the session slot with the
// resulting user snapshot, and returns the snapshot and a signed session
// token. On any failure the slot is anonymous.
//
// The attempt is bounded by Session.LoginTimeout; expiry returns
// ErrSessionTimeout, never ErrInvalidCredentials, because the attempt was
// not decided.
func (e *Engine) Login(ctx context.Context, creds Credentials) (*User, string, error) {
	if e == nil {
		return nil, "", ErrEngineNotReady
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.config.Session.LoginTimeout)
	defer cancel()

	user, token, err := e.login(ctx, creds)
	if err != nil {
		e.setSession(SessionAnonymous, nil)

		if isTimeout(ctx, err) {
			e.metrics.Inc(MetricLoginTimeout)
			e.emitAudit(ctx, EventLoginTimeout, false, "", "", "", ErrSessionTimeout, nil)
			return nil, "", ErrSessionTimeout
		}

		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, EventLoginFailure, false, "", "", "", err, func() map[string]string {
			return map[string]string{"email": creds.Email}
		})
		return nil, "", err
	}

	e.setSession(SessionAuthenticated, user)
	e.metrics.Inc(MetricLoginSuccess)
	e.emitAudit(ctx, EventLoginSuccess, true, user.ID, user.Role, "", nil, nil)

	return user, token, nil
}

func (e *Engine) login(ctx context.Context, creds Credentials) (*User, string, error) {
	email := normalizeEmail(creds.Email)
	if ValidateEmail(email) != nil || creds.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	rec, err := e.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", mapStoreErr(err)
	}

	ok, err := e.hasher.Verify(creds.Password, rec.PasswordHash)
	if err != nil || !ok {
		return nil, "", ErrInvalidCredentials
	}

	if !rec.Active {
		return nil, "", ErrAccountDeactivated
	}

	rec.LastLogin = e.now()
	if err := e.store.Update(ctx, rec); err != nil {
		return nil, "", mapStoreErr(err)
	}

	user := userFromRecord(rec)
	token, err := e.issueSessionToken(user, creds.RememberMe)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Restore validates a stored session token and rebuilds the session slot
// from the backing store. Permissions come from the stored record, not the
// token, so grants revoked since issuance do not survive a restore.
//
// An empty token resolves to an anonymous session without error. The slot
// is in SessionLoading for the duration of the attempt.
func (e *Engine) Restore(ctx context.Context, token string) (*User, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	if token == "" {
		e.setSession(SessionAnonymous, nil)
		return nil, nil
	}

	e.setSession(SessionLoading, nil)

	ctx, cancel := context.WithTimeout(ctx, e.config.Session.RestoreTimeout)
	defer cancel()

	user, err := e.resolveToken(ctx, token)
	if err != nil {
		e.setSession(SessionAnonymous, nil)

		if isTimeout(ctx, err) {
			e.metrics.Inc(MetricRestoreFailure)
			e.emitAudit(ctx, EventRestoreFailure, false, "", "", "", ErrSessionTimeout, nil)
			return nil, ErrSessionTimeout
		}

		e.metrics.Inc(MetricRestoreFailure)
		e.emitAudit(ctx, EventRestoreFailure, false, "", "", "", err, nil)
		return nil, err
	}

	e.setSession(SessionAuthenticated, user)
	e.metrics.Inc(MetricSessionRestored)
	e.emitAudit(ctx, EventRestoreSuccess, true, user.ID, user.Role, "", nil, nil)

	return user, nil
}

// Logout clears the session slot. It is idempotent: logging out an
// anonymous session is a no-op that still succeeds.
func (e *Engine) Logout(ctx context.Context) {
	if e == nil {
		return
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	prev := e.CurrentUser()
	e.setSession(SessionAnonymous, nil)
	e.metrics.Inc(MetricLogout)

	userID, role := "", Role("")
	if prev != nil {
		userID, role = prev.ID, prev.Role
	}
	e.emitAudit(ctx, EventLogout, true, userID, role, "", nil, nil)
}

// ResolveToken validates a session token and returns a fresh user snapshot
// without touching the engine's session slot. Middleware uses this for
// stateless per-request authentication.
func (e *Engine) ResolveToken(ctx context.Context, token string) (*User, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	return e.resolveToken(ctx, token)
}

func (e *Engine) resolveToken(ctx context.Context, token string) (*User, error) {
	userID, err := e.parseSessionToken(token)
	if err != nil {
		return nil, err
	}

	rec, err := e.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, mapStoreErr(err)
	}
	if !rec.Active {
		return nil, ErrAccountDeactivated
	}

	return userFromRecord(rec), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isTimeout distinguishes deadline expiry from operational failures.
func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded)
}

func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrUnavailable):
		return ErrStoreUnavailable
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrDuplicate):
		return ErrUserExists
	}
	return err
}
