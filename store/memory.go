package store

import (
	"context"
	"sync"
	"time"
)

type tokenEntry struct {
	userID    string
	expiresAt time.Time
}

// Memory is an in-process [UserStore]. It is safe for concurrent use and
// honors context cancellation so engine-level timeouts behave the same as
// against Redis. Token expiry is checked lazily on consume.
type Memory struct {
	mu      sync.RWMutex
	users   map[string]Record
	byEmail map[string]string
	byPhone map[string]string
	verify  map[string]tokenEntry
	reset   map[string]tokenEntry

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:   make(map[string]Record),
		byEmail: make(map[string]string),
		byPhone: make(map[string]string),
		verify:  make(map[string]tokenEntry),
		reset:   make(map[string]tokenEntry),
		now:     time.Now,
	}
}

func (m *Memory) GetByID(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.users[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) GetByEmail(ctx context.Context, email string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return Record{}, ErrNotFound
	}
	return m.users[id], nil
}

func (m *Memory) Create(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[rec.Email]; exists {
		return ErrDuplicate
	}
	if rec.Phone != "" {
		if _, exists := m.byPhone[rec.Phone]; exists {
			return ErrDuplicate
		}
	}
	if _, exists := m.users[rec.ID]; exists {
		return ErrDuplicate
	}

	m.users[rec.ID] = rec
	m.byEmail[rec.Email] = rec.ID
	if rec.Phone != "" {
		m.byPhone[rec.Phone] = rec.ID
	}
	return nil
}

func (m *Memory) Update(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.users[rec.ID]
	if !ok {
		return ErrNotFound
	}

	// Keep the secondary indexes consistent on email/phone rewrites.
	if old.Email != rec.Email {
		delete(m.byEmail, old.Email)
		m.byEmail[rec.Email] = rec.ID
	}
	if old.Phone != rec.Phone {
		if old.Phone != "" {
			delete(m.byPhone, old.Phone)
		}
		if rec.Phone != "" {
			m.byPhone[rec.Phone] = rec.ID
		}
	}

	m.users[rec.ID] = rec
	return nil
}

func (m *Memory) PutVerificationToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return m.putToken(ctx, m.verify, token, userID, ttl)
}

func (m *Memory) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	return m.consumeToken(ctx, m.verify, token)
}

func (m *Memory) PutResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return m.putToken(ctx, m.reset, token, userID, ttl)
}

func (m *Memory) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	return m.consumeToken(ctx, m.reset, token)
}

func (m *Memory) putToken(ctx context.Context, bucket map[string]tokenEntry, token, userID string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket[token] = tokenEntry{
		userID:    userID,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

func (m *Memory) consumeToken(ctx context.Context, bucket map[string]tokenEntry, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := bucket[token]
	if !ok {
		return "", ErrNotFound
	}
	delete(bucket, token)

	if m.now().After(entry.expiresAt) {
		return "", ErrNotFound
	}
	return entry.userID, nil
}
