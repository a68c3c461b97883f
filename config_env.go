package authkit

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envConfig is the flat environment projection of [Config]. Only the
// commonly deployment-specific knobs are exposed; everything else keeps
// its default.
type envConfig struct {
	SigningKey     string        `envconfig:"SESSION_SIGNING_KEY" required:"true"`
	Issuer         string        `envconfig:"SESSION_ISSUER" default:"authkit"`
	TokenTTL       time.Duration `envconfig:"SESSION_TOKEN_TTL" default:"24h"`
	RememberMeTTL  time.Duration `envconfig:"SESSION_REMEMBER_ME_TTL" default:"720h"`
	LoginTimeout   time.Duration `envconfig:"SESSION_LOGIN_TIMEOUT" default:"10s"`
	RestoreTimeout time.Duration `envconfig:"SESSION_RESTORE_TIMEOUT" default:"5s"`

	SignupEnabled        bool          `envconfig:"SIGNUP_ENABLED" default:"true"`
	VerificationTokenTTL time.Duration `envconfig:"VERIFICATION_TOKEN_TTL" default:"48h"`
	ResetTokenTTL        time.Duration `envconfig:"RESET_TOKEN_TTL" default:"24h"`

	AuditEnabled   bool `envconfig:"AUDIT_ENABLED" default:"true"`
	AuditBuffer    int  `envconfig:"AUDIT_BUFFER_SIZE" default:"256"`
	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// ConfigFromEnv builds a Config from AUTHKIT_-prefixed environment
// variables layered over [defaultConfig]. AUTHKIT_SESSION_SIGNING_KEY is
// the only required variable.
func ConfigFromEnv() (Config, error) {
	var env envConfig
	if err := envconfig.Process("authkit", &env); err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()
	cfg.Session.SigningKey = []byte(env.SigningKey)
	cfg.Session.Issuer = env.Issuer
	cfg.Session.TokenTTL = env.TokenTTL
	cfg.Session.RememberMeTTL = env.RememberMeTTL
	cfg.Session.LoginTimeout = env.LoginTimeout
	cfg.Session.RestoreTimeout = env.RestoreTimeout
	cfg.Signup.Enabled = env.SignupEnabled
	cfg.Verification.TokenTTL = env.VerificationTokenTTL
	cfg.Reset.TokenTTL = env.ResetTokenTTL
	cfg.Audit.Enabled = env.AuditEnabled
	cfg.Audit.BufferSize = env.AuditBuffer
	cfg.Metrics.Enabled = env.MetricsEnabled

	return cfg, cfg.Validate()
}
