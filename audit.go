package authkit

import (
	"context"

	"github.com/sirupsen/logrus"

	internalaudit "github.com/wowktm/authkit/internal/audit"
)

// NewLogrusSink creates a [LogrusSink]. A nil logger falls back to the
// logrus standard logger.
func NewLogrusSink(logger *logrus.Logger) *LogrusSink {
	return internalaudit.NewLogrusSink(logger)
}

// Audit event types emitted by the engine.
const (
	EventLoginSuccess        = "session.login.success"
	EventLoginFailure        = "session.login.failure"
	EventLoginTimeout        = "session.login.timeout"
	EventRestoreSuccess      = "session.restore.success"
	EventRestoreFailure      = "session.restore.failure"
	EventLogout              = "session.logout"
	EventRoleUpdateSuccess   = "roles.update.success"
	EventRoleUpdateDenied    = "roles.update.denied"
	EventAccessDecision      = "access.decision"
	EventSignupSuccess       = "account.signup.success"
	EventSignupFailure       = "account.signup.failure"
	EventVerificationSuccess = "account.verify.success"
	EventVerificationFailure = "account.verify.failure"
	EventResetRequested      = "account.reset.requested"
	EventResetSuccess        = "account.reset.success"
	EventResetFailure        = "account.reset.failure"
)

// emitAudit builds and dispatches one event. The metadata callback is only
// invoked when a dispatcher is attached, keeping the disabled path
// allocation-free.
func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	role Role,
	targetID string,
	cause error,
	metadata func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := internalaudit.Event{
		Timestamp: e.now(),
		EventType: eventType,
		UserID:    userID,
		Role:      string(role),
		TargetID:  targetID,
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}

	e.audit.Emit(ctx, event)
}
