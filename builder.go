package authkit

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wowktm/authkit/password"
	"github.com/wowktm/authkit/store"
)

// Builder assembles an [Engine]. Configure it with the With* methods, then
// call [Builder.Build] exactly once.
type Builder struct {
	config      Config
	redis       *redis.Client
	redisPrefix string
	userStore   store.UserStore
	auditSink   AuditSink
	mailer      Mailer

	built bool
}

// New returns a Builder preloaded with default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration. Zero-value fields are NOT
// backfilled with defaults; start from the default config when overriding
// selectively.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSigningKey sets the session token HMAC key without replacing the
// rest of the configuration.
func (b *Builder) WithSigningKey(key []byte) *Builder {
	b.config.Session.SigningKey = cloneBytes(key)
	return b
}

// WithRedis selects a Redis-backed user store. prefix namespaces all keys;
// empty means the default prefix.
func (b *Builder) WithRedis(client *redis.Client, prefix string) *Builder {
	b.redis = client
	b.redisPrefix = prefix
	return b
}

// WithUserStore injects a custom [store.UserStore]. Takes precedence over
// WithRedis.
func (b *Builder) WithUserStore(s store.UserStore) *Builder {
	b.userStore = s
	return b
}

// WithAuditSink sets the destination for audit events. Without a sink,
// enabled auditing falls back to a no-op sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMailer sets the outbound mail hook for verification and reset flows.
func (b *Builder) WithMailer(m Mailer) *Builder {
	b.mailer = m
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the Authorize latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the Engine. The builder
// is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	userStore := b.userStore
	if userStore == nil {
		if b.redis != nil {
			userStore = store.NewRedis(b.redis, b.redisPrefix)
		} else {
			// In-memory store: suitable for tests and single-process use.
			userStore = store.NewMemory()
		}
	}

	hasher, err := password.NewHasher(password.Params{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	mailer := b.mailer
	if mailer == nil {
		mailer = NoOpMailer{}
	}

	return &Engine{
		config:  cfg,
		store:   userStore,
		hasher:  hasher,
		mailer:  mailer,
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
		state:   SessionUninitialized,
		now:     time.Now,
	}, nil
}
