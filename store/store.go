package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record matches the lookup key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned by Create when the email or phone is
	// already indexed.
	ErrDuplicate = errors.New("duplicate record")
	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// Record is the persisted account row. Permissions are stored as the raw
// catalog bitmask; the root package owns its interpretation.
type Record struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone,omitempty"`
	PasswordHash  string    `json:"password_hash"`
	Role          string    `json:"role"`
	Permissions   uint64    `json:"permissions"`
	EmailVerified bool      `json:"email_verified"`
	Active        bool      `json:"active"`
	Tier          string    `json:"tier,omitempty"`
	BusinessName  string    `json:"business_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	LastLogin     time.Time `json:"last_login,omitempty"`
}

// UserStore is the persistence boundary for accounts and one-shot tokens.
// Lookup keys (email, phone) are stored normalized; callers normalize
// before calling. Token consumption is single-use: a second Consume of the
// same token returns ErrNotFound.
type UserStore interface {
	GetByID(ctx context.Context, id string) (Record, error)
	GetByEmail(ctx context.Context, email string) (Record, error)
	Create(ctx context.Context, rec Record) error
	Update(ctx context.Context, rec Record) error

	PutVerificationToken(ctx context.Context, token, userID string, ttl time.Duration) error
	ConsumeVerificationToken(ctx context.Context, token string) (string, error)
	PutResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}
