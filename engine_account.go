package authkit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wowktm/authkit/store"
)

// Mailer delivers account lifecycle mail. Implementations receive the raw
// token and are responsible for link construction and templating.
type Mailer interface {
	SendVerification(ctx context.Context, email, token string) error
	SendPasswordReset(ctx context.Context, email, token string) error
}

// NoOpMailer discards all outbound mail. It is the default when no mailer
// is configured.
type NoOpMailer struct{}

func (NoOpMailer) SendVerification(context.Context, string, string) error  { return nil }
func (NoOpMailer) SendPasswordReset(context.Context, string, string) error { return nil }

// SignupRequest carries a registration attempt. Role may be RoleBuyer or
// RoleSeller; empty defaults to buyer and admin accounts cannot be
// self-registered.
type SignupRequest struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	Role            Role
	BusinessName    string
	AgreeToTerms    bool
}

// Signup validates the request, creates the account with the role's default
// permission set, and sends a verification mail. The new account starts
// active but unverified, and signup never logs the user in.
//
// Validation failures return [FieldErrors]; duplicate email or phone
// returns ErrUserExists.
func (e *Engine) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if !e.config.Signup.Enabled {
		return nil, ErrSignupDisabled
	}

	role := req.Role
	if role == "" {
		role = RoleBuyer
	}
	if role != RoleBuyer && role != RoleSeller {
		return nil, ErrInvalidRole
	}

	if errs := e.validateSignup(req, role); len(errs) > 0 {
		e.metrics.Inc(MetricSignupInvalid)
		e.emitAudit(ctx, EventSignupFailure, false, "", role, "", errs, func() map[string]string {
			return map[string]string{"email": req.Email, "field": errs[0].Field}
		})
		return nil, errs
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	rec := store.Record{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(req.Email),
		FirstName:    trimName(req.FirstName),
		LastName:     trimName(req.LastName),
		Phone:        NormalizePhone(req.Phone),
		PasswordHash: hash,
		Role:         string(role),
		Permissions:  uint64(PermissionsFor(role)),
		Active:       true,
		BusinessName: trimName(req.BusinessName),
		CreatedAt:    e.now(),
	}
	if role == RoleSeller {
		rec.Tier = string(TierBasic)
	}

	if err := e.store.Create(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			e.metrics.Inc(MetricSignupDuplicate)
			e.emitAudit(ctx, EventSignupFailure, false, "", role, "", ErrUserExists, func() map[string]string {
				return map[string]string{"email": rec.Email}
			})
			return nil, ErrUserExists
		}
		return nil, mapStoreErr(err)
	}

	token := uuid.NewString()
	if err := e.store.PutVerificationToken(ctx, token, rec.ID, e.config.Verification.TokenTTL); err != nil {
		return nil, mapStoreErr(err)
	}
	if err := e.mailer.SendVerification(ctx, rec.Email, token); err != nil {
		return nil, fmt.Errorf("send verification mail: %w", err)
	}

	e.metrics.Inc(MetricSignupSuccess)
	e.emitAudit(ctx, EventSignupSuccess, true, rec.ID, role, "", nil, nil)

	return userFromRecord(rec), nil
}

func (e *Engine) validateSignup(req SignupRequest, role Role) FieldErrors {
	var errs FieldErrors

	if fe := ValidateName(req.FirstName, "firstName"); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := ValidateName(req.LastName, "lastName"); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := ValidateEmail(req.Email); fe != nil {
		errs = append(errs, *fe)
	}
	if req.Phone != "" {
		if fe := ValidatePhone(req.Phone); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if _, fe := ValidatePassword(req.Password); fe != nil {
		errs = append(errs, *fe)
	}
	if req.Password != req.ConfirmPassword {
		errs = append(errs, FieldError{
			Field:   "confirmPassword",
			Code:    "PASSWORD_MISMATCH",
			Message: "Passwords do not match",
		})
	}
	if e.config.Signup.RequireTerms && !req.AgreeToTerms {
		errs = append(errs, FieldError{
			Field:   "agreeToTerms",
			Code:    "TERMS_NOT_ACCEPTED",
			Message: "You must agree to the terms and conditions",
		})
	}
	if role == RoleSeller && trimName(req.BusinessName) == "" {
		errs = append(errs, FieldError{
			Field:   "businessName",
			Code:    "BUSINESS_NAME_REQUIRED",
			Message: "Business name is required for sellers",
		})
	}

	return errs
}

// VerifyEmail consumes a verification token and marks the account verified.
// Tokens are single-use; unknown or expired tokens return
// ErrVerificationInvalid.
func (e *Engine) VerifyEmail(ctx context.Context, token string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	userID, err := e.store.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.metrics.Inc(MetricVerificationFailure)
			e.emitAudit(ctx, EventVerificationFailure, false, "", "", "", ErrVerificationInvalid, nil)
			return ErrVerificationInvalid
		}
		return mapStoreErr(err)
	}

	rec, err := e.store.GetByID(ctx, userID)
	if err != nil {
		return mapStoreErr(err)
	}

	rec.EmailVerified = true
	if err := e.store.Update(ctx, rec); err != nil {
		return mapStoreErr(err)
	}

	e.metrics.Inc(MetricVerificationSuccess)
	e.emitAudit(ctx, EventVerificationSuccess, true, rec.ID, Role(rec.Role), "", nil, nil)

	return nil
}

// RequestPasswordReset issues a reset token and mails it. Whether the email
// is registered is never revealed: unknown addresses succeed silently.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	email = normalizeEmail(email)
	if fe := ValidateEmail(email); fe != nil {
		return FieldErrors{*fe}
	}

	e.metrics.Inc(MetricResetRequest)

	rec, err := e.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.emitAudit(ctx, EventResetRequested, true, "", "", "", nil, func() map[string]string {
				return map[string]string{"known": "false"}
			})
			return nil
		}
		return mapStoreErr(err)
	}

	token := uuid.NewString()
	if err := e.store.PutResetToken(ctx, token, rec.ID, e.config.Reset.TokenTTL); err != nil {
		return mapStoreErr(err)
	}
	if err := e.mailer.SendPasswordReset(ctx, rec.Email, token); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	e.emitAudit(ctx, EventResetRequested, true, rec.ID, Role(rec.Role), "", nil, nil)
	return nil
}

// ResetPassword consumes a reset token and replaces the account password.
// The new password must satisfy the full strength policy.
func (e *Engine) ResetPassword(ctx context.Context, token, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if _, fe := ValidatePassword(newPassword); fe != nil {
		return fmt.Errorf("%w: %s", ErrPasswordPolicy, fe.Message)
	}

	userID, err := e.store.ConsumeResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.metrics.Inc(MetricResetFailure)
			e.emitAudit(ctx, EventResetFailure, false, "", "", "", ErrResetTokenInvalid, nil)
			return ErrResetTokenInvalid
		}
		return mapStoreErr(err)
	}

	rec, err := e.store.GetByID(ctx, userID)
	if err != nil {
		return mapStoreErr(err)
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	rec.PasswordHash = hash
	if err := e.store.Update(ctx, rec); err != nil {
		return mapStoreErr(err)
	}

	e.metrics.Inc(MetricResetSuccess)
	e.emitAudit(ctx, EventResetSuccess, true, rec.ID, Role(rec.Role), "", nil, nil)

	return nil
}

func trimName(s string) string {
	return strings.TrimSpace(s)
}
