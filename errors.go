package authkit

import "errors"

var (
	// ErrInvalidCredentials is returned by Login when the email/password
	// pair does not match a stored account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDeactivated is returned by Login for accounts with the
	// active flag cleared.
	ErrAccountDeactivated = errors.New("account deactivated")
	// ErrInsufficientPermission is returned by mutating operations when the
	// acting user lacks the required permission.
	ErrInsufficientPermission = errors.New("insufficient permission")
	// ErrSessionTimeout is returned when a login or restore operation does
	// not complete within the configured deadline. It is distinct from
	// ErrInvalidCredentials: the attempt was never decided.
	ErrSessionTimeout = errors.New("session operation timed out")
	// ErrUserNotFound is returned by account operations targeting an
	// unknown user ID.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned by Signup when the email or phone is
	// already registered.
	ErrUserExists = errors.New("account already exists")
	// ErrInvalidRole is returned when a role outside the closed set is
	// supplied to a role update or signup.
	ErrInvalidRole = errors.New("invalid role")
	// ErrTokenInvalid is returned by Restore for malformed, expired, or
	// mis-signed session tokens.
	ErrTokenInvalid = errors.New("invalid session token")
	// ErrResetTokenInvalid is returned by ResetPassword for unknown or
	// expired reset tokens.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
	// ErrVerificationInvalid is returned by VerifyEmail for unknown
	// verification tokens.
	ErrVerificationInvalid = errors.New("invalid verification token")
	// ErrPasswordPolicy is returned when a new password fails the policy
	// in [ValidatePassword].
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrSignupDisabled is returned by Signup when account creation is
	// disabled in the configuration.
	ErrSignupDisabled = errors.New("signup disabled")
	// ErrSignupInvalid is returned by Signup when field validation fails;
	// the wrapped FieldErrors carry per-field details.
	ErrSignupInvalid = errors.New("invalid signup request")
	// ErrEngineNotReady is returned when an Engine method is called on a
	// nil or incompletely built engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrStoreUnavailable is returned when the backing user store cannot
	// be reached.
	ErrStoreUnavailable = errors.New("user store unavailable")
)

// FieldError describes a single invalid signup field.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

// FieldErrors aggregates signup validation failures. It wraps
// [ErrSignupInvalid] so callers can branch with errors.Is and still render
// per-field messages.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return ErrSignupInvalid.Error()
	}
	msg := e[0].Message
	if len(e) > 1 {
		msg += " (and more)"
	}
	return msg
}

// Unwrap lets errors.Is(err, ErrSignupInvalid) succeed.
func (e FieldErrors) Unwrap() error {
	return ErrSignupInvalid
}
