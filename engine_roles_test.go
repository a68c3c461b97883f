package authkit

import (
	"context"
	"errors"
	"testing"

	"github.com/wowktm/authkit/permission"
)

func loginAs(t *testing.T, engine *Engine, email string) *User {
	t.Helper()

	user, _, err := engine.Login(context.Background(), Credentials{
		Email:    email,
		Password: "Password1!",
	})
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return user
}

func TestUpdateRoleRequiresManagePermission(t *testing.T) {
	engine := newTestEngine(t)
	seedAccount(t, engine, "seller@example.com", RoleSeller)
	target := seedAccount(t, engine, "buyer@example.com", RoleBuyer)

	loginAs(t, engine, "seller@example.com")

	err := engine.UpdateRole(context.Background(), target.ID, RoleSeller)
	if !errors.Is(err, ErrInsufficientPermission) {
		t.Fatalf("expected ErrInsufficientPermission, got %v", err)
	}
	if engine.metrics.Value(MetricRoleUpdateDenied) != 1 {
		t.Fatal("denied counter not incremented")
	}

	rec, err := engine.store.GetByID(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if rec.Role != string(RoleBuyer) {
		t.Fatal("denied update must not change the stored role")
	}
}

func TestUpdateRoleAnonymousActorDenied(t *testing.T) {
	engine := newTestEngine(t)
	target := seedAccount(t, engine, "buyer@example.com", RoleBuyer)

	err := engine.UpdateRole(context.Background(), target.ID, RoleSeller)
	if !errors.Is(err, ErrInsufficientPermission) {
		t.Fatalf("expected ErrInsufficientPermission, got %v", err)
	}
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	engine := newTestEngine(t)
	seedAdmin(t, engine, "admin@example.com")
	target := seedAccount(t, engine, "buyer@example.com", RoleBuyer)

	loginAs(t, engine, "admin@example.com")

	if err := engine.UpdateRole(context.Background(), target.ID, Role("moderator")); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUpdateRoleUnknownTarget(t *testing.T) {
	engine := newTestEngine(t)
	seedAdmin(t, engine, "admin@example.com")
	loginAs(t, engine, "admin@example.com")

	if err := engine.UpdateRole(context.Background(), "ghost", RoleSeller); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// Promoting a buyer resets their grants to the new role's defaults;
// individually granted extras do not survive.
func TestUpdateRoleDiscardsExtraGrants(t *testing.T) {
	engine := newTestEngine(t)
	seedAdmin(t, engine, "admin@example.com")
	target := seedAccount(t, engine, "buyer@example.com", RoleBuyer)

	// Hand-grant an extra permission outside the buyer defaults.
	rec, err := engine.store.GetByID(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	extra := PermissionSet(rec.Permissions).With(permission.AnalyticsView)
	rec.Permissions = uint64(extra)
	if err := engine.store.Update(context.Background(), rec); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	loginAs(t, engine, "admin@example.com")
	if err := engine.UpdateRole(context.Background(), target.ID, RoleSeller); err != nil {
		t.Fatalf("UpdateRole error: %v", err)
	}

	rec, err = engine.store.GetByID(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if rec.Role != string(RoleSeller) {
		t.Fatalf("role = %s", rec.Role)
	}
	if PermissionSet(rec.Permissions) != PermissionsFor(RoleSeller) {
		t.Fatal("permissions must be exactly the seller defaults")
	}
	if engine.metrics.Value(MetricRoleUpdateSuccess) != 1 {
		t.Fatal("success counter not incremented")
	}
}

// An admin demoting themselves must see the new grants immediately in the
// session slot.
func TestUpdateRoleSelfUpdateReplacesSession(t *testing.T) {
	engine := newTestEngine(t)
	admin := seedAdmin(t, engine, "admin@example.com")

	loginAs(t, engine, "admin@example.com")

	if err := engine.UpdateRole(context.Background(), admin.ID, RoleBuyer); err != nil {
		t.Fatalf("UpdateRole error: %v", err)
	}

	current := engine.CurrentUser()
	if current == nil || current.Role != RoleBuyer {
		t.Fatalf("session role = %v, want buyer", current)
	}
	if current.Permissions != PermissionsFor(RoleBuyer) {
		t.Fatal("session permissions must be the buyer defaults")
	}

	// The demoted admin can no longer manage roles.
	if err := engine.UpdateRole(context.Background(), admin.ID, RoleAdmin); !errors.Is(err, ErrInsufficientPermission) {
		t.Fatalf("expected ErrInsufficientPermission after demotion, got %v", err)
	}
}
