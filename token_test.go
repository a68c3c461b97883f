package authkit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	user := seedAccount(t, engine, "sita@example.com", RoleBuyer)

	token, err := engine.issueSessionToken(user, false)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	subject, err := engine.parseSessionToken(token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if subject != user.ID {
		t.Fatalf("subject = %q, want %q", subject, user.ID)
	}
}

func TestTokenExpires(t *testing.T) {
	engine := newTestEngine(t)
	user := seedAccount(t, engine, "sita@example.com", RoleBuyer)

	token, err := engine.issueSessionToken(user, false)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	// Jump past the standard TTL.
	base := time.Now()
	engine.now = func() time.Time {
		return base.Add(engine.config.Session.TokenTTL + time.Minute)
	}

	if _, err := engine.parseSessionToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after expiry, got %v", err)
	}
}

func TestRememberMeExtendsTTL(t *testing.T) {
	engine := newTestEngine(t)
	user := seedAccount(t, engine, "sita@example.com", RoleBuyer)

	short, err := engine.issueSessionToken(user, false)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	long, err := engine.issueSessionToken(user, true)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	base := time.Now()
	engine.now = func() time.Time {
		return base.Add(engine.config.Session.TokenTTL + time.Hour)
	}

	if _, err := engine.parseSessionToken(short); !errors.Is(err, ErrTokenInvalid) {
		t.Fatal("standard token must be dead past its TTL")
	}
	if _, err := engine.parseSessionToken(long); err != nil {
		t.Fatalf("remember-me token must still parse, got %v", err)
	}
}

func TestTokenWrongKeyRejected(t *testing.T) {
	issuer := newTestEngine(t)
	user := seedAccount(t, issuer, "sita@example.com", RoleBuyer)

	token, err := issuer.issueSessionToken(user, false)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	cfg := testConfig()
	cfg.Session.SigningKey = []byte("ffffffffffffffffffffffffffffffff")
	other, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(other.Close)

	if _, err := other.parseSessionToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid under a different key, got %v", err)
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	engine := newTestEngine(t)

	for _, token := range []string{"", "x", "a.b.c", "header.payload"} {
		if _, err := engine.parseSessionToken(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("parse(%q): expected ErrTokenInvalid, got %v", token, err)
		}
	}
}

// ResolveToken is stateless: it must not touch the session slot.
func TestResolveTokenLeavesSessionAlone(t *testing.T) {
	engine := newTestEngine(t)
	seedAccount(t, engine, "sita@example.com", RoleBuyer)

	_, token, err := engine.Login(context.Background(), Credentials{
		Email:    "sita@example.com",
		Password: "Password1!",
	})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	engine.Logout(context.Background())

	user, err := engine.ResolveToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ResolveToken error: %v", err)
	}
	if user.Email != "sita@example.com" {
		t.Fatalf("resolved wrong user: %s", user.Email)
	}
	if engine.SessionState() != SessionAnonymous {
		t.Fatal("ResolveToken must not reopen the session")
	}
	if engine.CurrentUser() != nil {
		t.Fatal("slot must stay empty")
	}
}
