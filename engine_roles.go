package authkit

import (
	"context"

	"github.com/wowktm/authkit/permission"
)

// UpdateRole changes the target account's role and resets its permissions
// to the new role's defaults. Individually granted extras do not survive a
// role change.
//
// The current session user is the actor and must hold users.manage_roles.
// If the actor updates their own role, the session snapshot is replaced so
// the new grants take effect immediately.
func (e *Engine) UpdateRole(ctx context.Context, targetID string, newRole Role) error {
	if e == nil {
		return ErrEngineNotReady
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	actor := e.CurrentUser()

	if !newRole.Valid() {
		return ErrInvalidRole
	}
	if !HasPermission(actor, permission.UsersManageRoles) {
		e.metrics.Inc(MetricRoleUpdateDenied)
		actorID, actorRole := "", Role("")
		if actor != nil {
			actorID, actorRole = actor.ID, actor.Role
		}
		e.emitAudit(ctx, EventRoleUpdateDenied, false, actorID, actorRole, targetID,
			ErrInsufficientPermission, func() map[string]string {
				return map[string]string{"new_role": string(newRole)}
			})
		return ErrInsufficientPermission
	}

	rec, err := e.store.GetByID(ctx, targetID)
	if err != nil {
		return mapStoreErr(err)
	}

	rec.Role = string(newRole)
	rec.Permissions = uint64(PermissionsFor(newRole))
	if err := e.store.Update(ctx, rec); err != nil {
		return mapStoreErr(err)
	}

	// A self-update must be visible to the next Authorize call.
	if actor.ID == targetID {
		e.setSession(SessionAuthenticated, userFromRecord(rec))
	}

	e.metrics.Inc(MetricRoleUpdateSuccess)
	e.emitAudit(ctx, EventRoleUpdateSuccess, true, actor.ID, actor.Role, targetID, nil,
		func() map[string]string {
			return map[string]string{"new_role": string(newRole)}
		})

	return nil
}
