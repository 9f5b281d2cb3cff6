package store

import (
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateAndGetPilot(t *testing.T) {
	db := testDB(t)

	id, err := db.CreatePilot("alice", "hash123")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := db.GetPilotByUsername("alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p == nil || p.ID != id || p.PassHash != "hash123" || p.IsGuest {
		t.Errorf("pilot mismatch: %+v", p)
	}

	missing, err := db.GetPilotByUsername("nobody")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("unknown username should return nil")
	}
}

func TestUsernameUniqueness(t *testing.T) {
	db := testDB(t)

	if _, err := db.CreatePilot("alice", "h"); err != nil {
		t.Fatal(err)
	}
	exists, err := db.UsernameExists("alice")
	if err != nil || !exists {
		t.Errorf("expected alice to exist, got %v %v", exists, err)
	}
	if _, err := db.CreatePilot("alice", "h2"); err == nil {
		t.Error("duplicate username should fail")
	}
}

func TestCreateGuest(t *testing.T) {
	db := testDB(t)

	id, err := db.CreateGuest("Pilot_ab12")
	if err != nil {
		t.Fatalf("create guest: %v", err)
	}
	p, err := db.GetPilotByUsername("Pilot_ab12")
	if err != nil || p == nil {
		t.Fatalf("get guest: %v", err)
	}
	if p.ID != id || !p.IsGuest {
		t.Errorf("guest mismatch: %+v", p)
	}
}

func TestLeaderboardOrderingAndGuestExclusion(t *testing.T) {
	db := testDB(t)

	alice, _ := db.CreatePilot("alice", "h")
	bob, _ := db.CreatePilot("bob", "h")
	guest, _ := db.CreateGuest("Pilot_ffff")

	db.RecordFlight(alice, 100, true, "rust")
	db.RecordFlight(alice, 50, false, "")
	db.RecordFlight(bob, 200, true, "tower")
	db.RecordFlight(guest, 9999, false, "")

	entries, err := db.Leaderboard(10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("guests should be excluded, got %d entries", len(entries))
	}
	if entries[0].Username != "bob" || entries[0].Seconds != 200 || entries[0].Rank != 1 {
		t.Errorf("first entry mismatch: %+v", entries[0])
	}
	if entries[1].Username != "alice" || entries[1].Seconds != 150 {
		t.Errorf("second entry mismatch: %+v", entries[1])
	}
	if entries[1].Flights != 2 || entries[1].Crashes != 1 {
		t.Errorf("flight counts mismatch: %+v", entries[1])
	}
}

func TestSettings(t *testing.T) {
	db := testDB(t)

	if v := db.GetSetting("missing"); v != "" {
		t.Errorf("unset key should be empty, got %q", v)
	}
	if err := db.SetSetting("k", "v1"); err != nil {
		t.Fatal(err)
	}
	if v := db.GetSetting("k"); v != "v1" {
		t.Errorf("got %q, want v1", v)
	}
	if err := db.SetSetting("k", "v2"); err != nil {
		t.Fatal(err)
	}
	if v := db.GetSetting("k"); v != "v2" {
		t.Errorf("overwrite failed, got %q", v)
	}
}

func TestInsertEventsBatch(t *testing.T) {
	db := testDB(t)

	now := time.Now().UTC()
	batch := []Event{
		{Type: "join", Pilot: "alice", Timestamp: now},
		{Type: "crash", Pilot: "alice", Detail: "rust", Timestamp: now},
		{Type: "join", Pilot: "bob", Timestamp: now},
	}
	if err := db.InsertEvents(batch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	joins, err := db.EventCount("join")
	if err != nil || joins != 2 {
		t.Errorf("join count = %d (%v), want 2", joins, err)
	}
	crashes, _ := db.EventCount("crash")
	if crashes != 1 {
		t.Errorf("crash count = %d, want 1", crashes)
	}
}

func TestOpenIsIdempotentOnSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	db.CreatePilot("alice", "h")
	db.Close()

	// Reopening an existing database must not clobber data
	db2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()
	p, err := db2.GetPilotByUsername("alice")
	if err != nil || p == nil {
		t.Errorf("data should survive reopen: %v %v", p, err)
	}
}
