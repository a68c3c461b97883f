package authkit

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"sita@example.com",
		"a.b+tag@sub.example.org",
	}
	for _, email := range valid {
		if fe := ValidateEmail(email); fe != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", email, fe)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"two@@example.com",
		"spaces in@example.com",
		"noperiod@example",
		strings.Repeat("a", 65) + "@example.com",
		"user@" + strings.Repeat("d", 250) + ".com",
	}
	for _, email := range invalid {
		if fe := ValidateEmail(email); fe == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", email)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	if fe := ValidatePhone(""); fe != nil {
		t.Errorf("phone is optional, got %v", fe)
	}
	if fe := ValidatePhone("(980) 123-4567"); fe != nil {
		t.Errorf("separators must be ignored, got %v", fe)
	}
	if fe := ValidatePhone("12345"); fe == nil {
		t.Error("short phone must be rejected")
	}
	if fe := ValidatePhone("1234567890123456"); fe == nil {
		t.Error("16-digit phone must be rejected")
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("+1 (980) 123-4567"); got != "19801234567" {
		t.Fatalf("NormalizePhone = %q", got)
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		password     string
		wantStrength int
		wantValid    bool
	}{
		{"", 0, false},
		{"short", 1, false},              // lowercase only
		{"alllowercase", 2, false},       // length + lowercase
		{"Password", 3, false},           // length + upper + lower
		{"Password1", 4, false},          // missing special
		{"Password1!", 5, true},
		{"Tr0ub4dor&Three", 5, true},
	}

	for _, tc := range cases {
		strength, fe := ValidatePassword(tc.password)
		if strength != tc.wantStrength {
			t.Errorf("ValidatePassword(%q) strength = %d, want %d", tc.password, strength, tc.wantStrength)
		}
		if (fe == nil) != tc.wantValid {
			t.Errorf("ValidatePassword(%q) valid = %v, want %v (err %v)", tc.password, fe == nil, tc.wantValid, fe)
		}
	}
}

func TestValidatePasswordMessageListsMissingRules(t *testing.T) {
	_, fe := ValidatePassword("password")
	if fe == nil {
		t.Fatal("expected violation")
	}
	for _, fragment := range []string{"one uppercase letter", "one number", "one special character"} {
		if !strings.Contains(fe.Message, fragment) {
			t.Errorf("message %q missing %q", fe.Message, fragment)
		}
	}
}

func TestValidateName(t *testing.T) {
	if fe := ValidateName("Sita", "firstName"); fe != nil {
		t.Errorf("plain name rejected: %v", fe)
	}
	if fe := ValidateName("O'Brien-Smith", "lastName"); fe != nil {
		t.Errorf("apostrophes and hyphens must pass: %v", fe)
	}

	cases := []struct {
		name  string
		field string
	}{
		{"", "firstName"},
		{" ", "firstName"},
		{"A", "firstName"},
		{strings.Repeat("x", 51), "lastName"},
		{"R2-D2", "firstName"}, // digits
	}
	for _, tc := range cases {
		fe := ValidateName(tc.name, tc.field)
		if fe == nil {
			t.Errorf("ValidateName(%q) = nil, want error", tc.name)
			continue
		}
		if fe.Field != tc.field {
			t.Errorf("ValidateName(%q) field = %q, want %q", tc.name, fe.Field, tc.field)
		}
	}

	if fe := ValidateName("", "firstName"); fe.Code != "INVALID_FIRST_NAME" {
		t.Errorf("first name code = %q", fe.Code)
	}
	if fe := ValidateName("", "lastName"); fe.Code != "INVALID_LAST_NAME" {
		t.Errorf("last name code = %q", fe.Code)
	}
}
