package authkit

import (
	"errors"
	"time"
)

// Config defines the tunable behavior of an [Engine]. Configure it before
// [Builder.Build] and treat it as immutable afterwards.
type Config struct {
	Session      SessionConfig
	Signup       SignupConfig
	Verification VerificationConfig
	Reset        ResetConfig
	Password     PasswordConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls session token issuance and lifecycle timeouts.
type SessionConfig struct {
	// SigningKey is the HMAC key for session tokens. Required, >= 32 bytes.
	SigningKey []byte
	// Issuer is embedded in and required from every session token.
	Issuer string
	// TokenTTL is the session token lifetime without remember-me.
	TokenTTL time.Duration
	// RememberMeTTL is the session token lifetime with remember-me.
	RememberMeTTL time.Duration
	// LoginTimeout bounds a single login attempt. Expiry surfaces
	// ErrSessionTimeout, not ErrInvalidCredentials.
	LoginTimeout time.Duration
	// RestoreTimeout bounds a session restore attempt.
	RestoreTimeout time.Duration
}

/*
====================================
ACCOUNT CONFIG
====================================
*/

// SignupConfig controls account creation.
type SignupConfig struct {
	Enabled      bool
	RequireTerms bool
}

// VerificationConfig controls email verification tokens.
type VerificationConfig struct {
	TokenTTL time.Duration
}

// ResetConfig controls password reset tokens.
type ResetConfig struct {
	TokenTTL time.Duration
}

// PasswordConfig carries the Argon2id parameters for credential hashing.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
OBSERVABILITY CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events under backpressure instead of blocking the
	// emitting goroutine. Dropped events are counted.
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration [New] starts from. The session
// signing key is intentionally absent and must be supplied by the caller.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			Issuer:         "authkit",
			TokenTTL:       24 * time.Hour,
			RememberMeTTL:  30 * 24 * time.Hour,
			LoginTimeout:   10 * time.Second,
			RestoreTimeout: 5 * time.Second,
		},
		Signup: SignupConfig{
			Enabled:      true,
			RequireTerms: true,
		},
		Verification: VerificationConfig{
			TokenTTL: 48 * time.Hour,
		},
		Reset: ResetConfig{
			TokenTTL: 24 * time.Hour,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations that would produce an unusable engine.
func (c Config) Validate() error {
	if len(c.Session.SigningKey) < 32 {
		return errors.New("session signing key must be at least 32 bytes")
	}
	if c.Session.Issuer == "" {
		return errors.New("session issuer required")
	}
	if c.Session.TokenTTL <= 0 {
		return errors.New("session token TTL must be positive")
	}
	if c.Session.RememberMeTTL < c.Session.TokenTTL {
		return errors.New("remember-me TTL must not be shorter than token TTL")
	}
	if c.Session.LoginTimeout <= 0 || c.Session.RestoreTimeout <= 0 {
		return errors.New("session timeouts must be positive")
	}
	if c.Verification.TokenTTL <= 0 {
		return errors.New("verification token TTL must be positive")
	}
	if c.Reset.TokenTTL <= 0 {
		return errors.New("reset token TTL must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive when audit is enabled")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.SigningKey = cloneBytes(cfg.Session.SigningKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
