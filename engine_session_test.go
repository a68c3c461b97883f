package authkit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wowktm/authkit/store"
)

func testConfig() Config {
	cfg := defaultConfig()
	cfg.Session.SigningKey = []byte("0123456789abcdef0123456789abcdef")
	// Cheap hashing keeps the account flows fast under -race.
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Audit.Enabled = false
	return cfg
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	engine, err := New().WithConfig(testConfig()).Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

// seedAccount creates an account through Signup so records carry the same
// shape production accounts do. Sellers get a business name.
func seedAccount(t *testing.T, engine *Engine, email string, role Role) *User {
	t.Helper()

	req := SignupRequest{
		FirstName:       "Test",
		LastName:        "User",
		Email:           email,
		Password:        "Password1!",
		ConfirmPassword: "Password1!",
		Role:            role,
		AgreeToTerms:    true,
	}
	if role == RoleSeller {
		req.BusinessName = "Test Traders"
	}

	user, err := engine.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("seed signup error: %v", err)
	}
	return user
}

// seedAdmin writes an admin record directly; admin accounts are not
// self-registered.
func seedAdmin(t *testing.T, engine *Engine, email string) *User {
	t.Helper()

	hash, err := engine.hasher.Hash("Password1!")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	rec := store.Record{
		ID:            "admin-" + email,
		Email:         email,
		FirstName:     "Ad",
		LastName:      "Min",
		PasswordHash:  hash,
		Role:          string(RoleAdmin),
		Permissions:   uint64(PermissionsFor(RoleAdmin)),
		EmailVerified: true,
		Active:        true,
		CreatedAt:     engine.now(),
	}
	if err := engine.store.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed admin error: %v", err)
	}
	return userFromRecord(rec)
}

func TestLoginSuccess(t *testing.T) {
	engine := newTestEngine(t)
	seedAccount(t, engine, "sita@example.com", RoleSeller)

	user, token, err := engine.Login(context.Background(), Credentials{
		Email:    "sita@example.com",
		Password: "Password1!",
	})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if user.Role != RoleSeller {
		t.Fatalf("role = %s", user.Role)
	}
	if user.LastLogin.IsZero() {
		t.Fatal("LastLogin must be set on login")
	}

	if engine.SessionState() != SessionAuthenticated {
		t.Fatalf("state = %s", engine.SessionState())
	}
	if got := engine.CurrentUser(); got == nil || got.ID != user.ID {
		t.Fatal("session slot must hold the logged-in user")
	}
	if engine.metrics.Value(MetricLoginSuccess) != 1 {
		t.Fatal("login success counter not incremented")
	}
}

func TestLoginCaseInsensitiveEmail(t *testing.T) {
	engine := newTestEngine(t)
	seedAccount(t, engine, "sita@example.com", RoleBuyer)

	if _, _, err := engine.Login(context.Background(), Credentials{
		Email:    "  SITA@Example.COM ",
		Password: "Password1!",
	}); err != nil {
		t.Fatalf("Login error: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	engine := newTestEngine(t)
	seedAccount(t, engine, "sita@example.com", RoleBuyer)

	_, _, err := engine.Login(context.Background(), Credentials{
		Email:    "sita@example.com",
		Password: "WrongPass1!",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if engine.SessionState() != SessionAnonymous {
		t.Fatalf("state = %s", engine.SessionState())
	}
	if engine.metrics.Value(MetricLoginFailure) != 1 {
		t.Fatal("login failure counter not incremented")
	}
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	engine := newTestEngine(t)

	_, _, err := engine.Login(context.Background(), Credentials{
		Email:    "ghost@example.com",
		Password: "Password1!",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	engine := newTestEngine(t)
	user := seedAccount(t, engine, "sita@example.com", RoleBuyer)

	rec, err := engine.store.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	rec.Active = false
	if err := engine.store.Update(context.Background(), rec); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	_, _, err = engine.Login(context.Background(), Credentials{
		Email:    "sita@example.com",
		Password: "Password1!",
	})
	if !errors.Is(err, ErrAccountDeactivated) {
		t.Fatalf("expected ErrAccountDeactivated, got %v", err)
	}
}

// stallStore blocks reads until the context dies, simulating a hung
// backend.
type stallStore struct {
	store.UserStore
}

func (s stallStore) GetByEmail(ctx context.Context, email string) (store.Record, error) {
	<-ctx.Done()
	return store.Record{}, ctx.Err()
}

func (s stallStore) GetByID(ctx context.Context, id string) (store.Record, error) {
	<-ctx.Done()
	return store.Record{}, ctx.Err()
}

func TestLoginTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Session.LoginTimeout = 20 * time.Millisecond

	engine, err := New().
		WithConfig(cfg).
		WithUserStore(stallStore{store.NewMemory()}).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)

	_, _, err = engine.Login(context.Background(), Credentials{
		Email:    "sita@example.com",
		Password: "Password1!",
	})
	if !errors.Is(err, ErrSessionTimeout) {
		t.Fatalf("expected ErrSessionTimeout, got %v", err)
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("a timeout must not be reported as bad credentials")
	}
	if engine.SessionState() != SessionAnonymous {
		t.Fatalf("state = %s", engine.SessionState())
	}
	if engine.metrics.Value(MetricLoginTimeout) != 1 {
		t.Fatal("login timeout counter not incremented")
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	seedAccount(t, engine, "sita@example.com", RoleSeller)

	_, token, err := engine.Login(context.Background(), Credentials{
		Email:    "sita@example.com",
		Password: "Password1!",
	})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	engine.Logout(context.Background())

	user, err := engine.Restore(context.Background(), token)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if user.Email != "sita@example.com" {
		t.Fatalf("restored wrong user: %s", user.Email)
	}
	if engine.SessionState() != SessionAuthenticated {
		t.Fatalf("state = %s", engine.SessionState())
	}
	if engine.metrics.Value(MetricSessionRestored) != 1 {
		t.Fatal("restore counter not incremented")
	}
}

func TestRestoreEmptyTokenIsAnonymous(t *testing.T) {
	engine := newTestEngine(t)

	user, err := engine.Restore(context.Background(), "")
	if err != nil || user != nil {
		t.Fatalf("empty token: got user %v, err %v", user, err)
	}
	if engine.SessionState() != SessionAnonymous {
		t.Fatalf("state = %s", engine.SessionState())
	}
}

func TestRestoreInvalidToken(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Restore(context.Background(), "not-a-token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if engine.SessionState() != SessionAnonymous {
		t.Fatalf("state = %s", engine.SessionState())
	}
}

// A role change between issue and restore must surface the stored grants,
// not the ones captured at login.
func TestRestoreReflectsCurrentGrants(t *testing.T) {
	engine := newTestEngine(t)
	user := seedAccount(t, engine, "sita@example.com", RoleSeller)

	_, token, err := engine.Login(context.Background(), Credentials{
		Email:    "sita@example.com",
		Password: "Password1!",
	})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	rec, err := engine.store.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	rec.Role = string(RoleBuyer)
	rec.Permissions = uint64(PermissionsFor(RoleBuyer))
	if err := engine.store.Update(context.Background(), rec); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	restored, err := engine.Restore(context.Background(), token)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if restored.Role != RoleBuyer {
		t.Fatalf("restored role = %s, want buyer", restored.Role)
	}
	if restored.Permissions != PermissionsFor(RoleBuyer) {
		t.Fatal("restored permissions must come from the store, not the token")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	engine := newTestEngine(t)
	seedAccount(t, engine, "sita@example.com", RoleBuyer)

	if _, _, err := engine.Login(context.Background(), Credentials{
		Email:    "sita@example.com",
		Password: "Password1!",
	}); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	engine.Logout(context.Background())
	engine.Logout(context.Background())

	if engine.SessionState() != SessionAnonymous {
		t.Fatalf("state = %s", engine.SessionState())
	}
	if engine.CurrentUser() != nil {
		t.Fatal("slot must be empty after logout")
	}
	if engine.metrics.Value(MetricLogout) != 2 {
		t.Fatal("each logout call counts, repeats included")
	}
}

func TestSessionStateStartsUninitialized(t *testing.T) {
	engine := newTestEngine(t)
	if engine.SessionState() != SessionUninitialized {
		t.Fatalf("state = %s", engine.SessionState())
	}
}

// Concurrent logins must serialize: the slot always reflects exactly one
// completed login, never a blend.
func TestConcurrentLoginsSerialize(t *testing.T) {
	engine := newTestEngine(t)
	seedAccount(t, engine, "a@example.com", RoleBuyer)
	seedAccount(t, engine, "b@example.com", RoleSeller)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		email := "a@example.com"
		if i%2 == 1 {
			email = "b@example.com"
		}
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			_, _, _ = engine.Login(context.Background(), Credentials{
				Email:    email,
				Password: "Password1!",
			})
		}(email)
	}
	wg.Wait()

	user := engine.CurrentUser()
	if user == nil {
		t.Fatal("expected an authenticated session")
	}
	if user.Permissions != PermissionsFor(user.Role) {
		t.Fatal("slot holds a blended snapshot")
	}
	if engine.metrics.Value(MetricLoginSuccess) != 8 {
		t.Fatalf("success count = %d, want 8", engine.metrics.Value(MetricLoginSuccess))
	}
}
