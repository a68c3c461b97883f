package authkit

import (
	"fmt"
	"regexp"
	"strings"
)

// Field validation mirrors the storefront's signup form rules so server-side
// and client-side rejections agree.

const (
	maxEmailLength      = 254
	maxEmailLocalLength = 64
	minNameLength       = 2
	maxNameLength       = 50
	minPhoneDigits      = 10
	maxPhoneDigits      = 15
	minPasswordLength   = 8
	// PasswordStrengthMax is the score of a password satisfying every rule.
	PasswordStrengthMax = 5
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	namePattern     = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)

	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// ValidateEmail checks basic shape and RFC length caps. A nil return means
// the address is acceptable.
func ValidateEmail(email string) *FieldError {
	if email == "" {
		return &FieldError{Field: "email", Code: "INVALID_EMAIL", Message: "Email is required"}
	}
	if !emailPattern.MatchString(email) {
		return &FieldError{Field: "email", Code: "INVALID_EMAIL", Message: "Please enter a valid email address"}
	}
	if len(email) > maxEmailLength {
		return &FieldError{Field: "email", Code: "INVALID_EMAIL", Message: "Email address is too long"}
	}
	local, _, _ := strings.Cut(email, "@")
	if len(local) > maxEmailLocalLength {
		return &FieldError{Field: "email", Code: "INVALID_EMAIL", Message: "Email local part is too long"}
	}
	return nil
}

// ValidatePhone accepts the empty string (phone is optional) and otherwise
// requires 10 to 15 digits after stripping separators.
func ValidatePhone(phone string) *FieldError {
	if phone == "" {
		return nil
	}
	digits := NormalizePhone(phone)
	if len(digits) < minPhoneDigits {
		return &FieldError{Field: "phone", Code: "INVALID_PHONE", Message: "Phone number must be at least 10 digits"}
	}
	if len(digits) > maxPhoneDigits {
		return &FieldError{Field: "phone", Code: "INVALID_PHONE", Message: "Phone number is too long"}
	}
	return nil
}

// NormalizePhone strips every non-digit character. Stores index phones in
// this normalized form.
func NormalizePhone(phone string) string {
	return nonDigitPattern.ReplaceAllString(phone, "")
}

// ValidatePassword scores password against five rules (length, uppercase,
// lowercase, digit, special character) and returns the strength alongside
// any violation. Strength ranges 0 to [PasswordStrengthMax]; a password is
// acceptable only at full strength.
func ValidatePassword(password string) (strength int, fieldErr *FieldError) {
	if password == "" {
		return 0, &FieldError{Field: "password", Code: "INVALID_PASSWORD", Message: "Password is required"}
	}

	var missing []string
	if len(password) < minPasswordLength {
		missing = append(missing, "at least 8 characters")
	} else {
		strength++
	}
	if !upperPattern.MatchString(password) {
		missing = append(missing, "one uppercase letter")
	} else {
		strength++
	}
	if !lowerPattern.MatchString(password) {
		missing = append(missing, "one lowercase letter")
	} else {
		strength++
	}
	if !digitPattern.MatchString(password) {
		missing = append(missing, "one number")
	} else {
		strength++
	}
	if !specialPattern.MatchString(password) {
		missing = append(missing, "one special character")
	} else {
		strength++
	}

	if len(missing) > 0 {
		return strength, &FieldError{
			Field:   "password",
			Code:    "INVALID_PASSWORD",
			Message: "Password must contain " + strings.Join(missing, ", "),
		}
	}
	return strength, nil
}

// ValidateName checks a first or last name: 2 to 50 characters after
// trimming, letters, spaces, hyphens, and apostrophes only. fieldName keys
// the resulting FieldError ("firstName" or "lastName").
func ValidateName(name, fieldName string) *FieldError {
	label, code := nameField(fieldName)

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &FieldError{Field: fieldName, Code: code, Message: label + " is required"}
	}
	if len(trimmed) < minNameLength {
		return &FieldError{Field: fieldName, Code: code, Message: fmt.Sprintf("%s must be at least %d characters", label, minNameLength)}
	}
	if len(trimmed) > maxNameLength {
		return &FieldError{Field: fieldName, Code: code, Message: fmt.Sprintf("%s must be less than %d characters", label, maxNameLength)}
	}
	if !namePattern.MatchString(name) {
		return &FieldError{Field: fieldName, Code: code, Message: label + " can only contain letters, spaces, hyphens, and apostrophes"}
	}
	return nil
}

func nameField(field string) (label, code string) {
	switch field {
	case "firstName":
		return "First name", "INVALID_FIRST_NAME"
	case "lastName":
		return "Last name", "INVALID_LAST_NAME"
	}
	return field, "INVALID_NAME"
}
