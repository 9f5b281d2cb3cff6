package relay

import (
	"path/filepath"
	"strings"
	"testing"

	"stardrift/store"
)

func testAuth(t *testing.T) (*Auth, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAuth(db), db
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := testAuth(t)

	id, token, err := auth.Register("alice", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == 0 || token == "" {
		t.Fatal("register should return id and token")
	}

	gotID, gotToken, err := auth.Login("alice", "hunter2", "1.2.3.4")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if gotID != id || gotToken == "" {
		t.Error("login should return the registered pilot")
	}

	if _, _, err := auth.Login("alice", "wrong", "1.2.3.4"); err == nil {
		t.Error("wrong password should fail")
	}
	if _, _, err := auth.Login("nobody", "hunter2", "1.2.3.4"); err == nil {
		t.Error("unknown user should fail")
	}
}

func TestRegisterValidation(t *testing.T) {
	auth, _ := testAuth(t)

	if _, _, err := auth.Register("a", "hunter2"); err == nil {
		t.Error("too-short username should fail")
	}
	if _, _, err := auth.Register("alice", "x"); err == nil {
		t.Error("too-short password should fail")
	}
	if _, _, err := auth.Register(strings.Repeat("x", 20), "hunter2"); err == nil {
		t.Error("too-long username should fail")
	}

	if _, _, err := auth.Register("alice", "hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := auth.Register("alice", "hunter2"); err == nil {
		t.Error("duplicate username should fail")
	}
}

func TestValidateToken(t *testing.T) {
	auth, _ := testAuth(t)

	id, token, err := auth.Register("bob", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	gotID, username, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if gotID != id || username != "bob" {
		t.Errorf("token claims mismatch: %d %s", gotID, username)
	}

	if _, _, err := auth.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token should fail")
	}

	// A token signed with a different secret must be rejected
	other, _ := testAuth(t)
	otherToken, err := other.generateToken(99, "eve")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := auth.ValidateToken(otherToken); err == nil {
		t.Error("foreign-secret token should fail")
	}
}

func TestSecretPersistsAcrossRestarts(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	first := NewAuth(db)
	_, token, err := first.Register("carol", "hunter2")
	if err != nil {
		t.Fatal(err)
	}

	// Simulated restart: a fresh Auth over the same database must load
	// the same secret and accept the old token.
	second := NewAuth(db)
	if _, _, err := second.ValidateToken(token); err != nil {
		t.Errorf("token should survive restart: %v", err)
	}
}

func TestLoginRateLimit(t *testing.T) {
	auth, _ := testAuth(t)
	if _, _, err := auth.Register("dave", "hunter2"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < maxLoginAttempts; i++ {
		auth.Login("dave", "wrong", "9.9.9.9")
	}
	_, _, err := auth.Login("dave", "hunter2", "9.9.9.9")
	if err == nil || !strings.Contains(err.Error(), "too many") {
		t.Errorf("expected rate limit error, got %v", err)
	}

	// Another IP is unaffected
	if _, _, err := auth.Login("dave", "hunter2", "8.8.8.8"); err != nil {
		t.Errorf("other IP should not be limited: %v", err)
	}
}

func TestGenerateGuestName(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		name := GenerateGuestName()
		if !strings.HasPrefix(name, "Pilot_") {
			t.Fatalf("unexpected guest name %q", name)
		}
		seen[name] = true
	}
	if len(seen) < 2 {
		t.Error("guest names should vary")
	}
}
