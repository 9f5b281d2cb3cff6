// Package store persists pilot accounts and flight history in SQLite.
package store

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PilotRow represents a pilot account record
type PilotRow struct {
	ID        int64
	Username  string
	PassHash  string
	IsGuest   bool
	CreatedAt time.Time
}

// FlightRow represents one completed flight (spawn to crash or disconnect)
type FlightRow struct {
	ID        int64
	PilotID   int64
	Seconds   float64
	Crashed   bool
	CrashedOn string
	StartedAt time.Time
}

// LeaderboardEntry is one row of the flight-time leaderboard
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Flights  int     `json:"flights"`
	Seconds  float64 `json:"seconds"`
	Crashes  int     `json:"crashes"`
}

// Open opens (or creates) the SQLite database
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pilots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		is_guest INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS flights (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pilot_id INTEGER NOT NULL REFERENCES pilots(id),
		seconds REAL NOT NULL DEFAULT 0,
		crashed INTEGER NOT NULL DEFAULT 0,
		crashed_on TEXT NOT NULL DEFAULT '',
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		pilot TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_flights_pilot ON flights(pilot_id);
	CREATE INDEX IF NOT EXISTS idx_pilots_username ON pilots(username);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("store: migration error: %v", err)
	}
	return err
}

// CreatePilot creates a registered pilot account (returns pilot ID)
func (db *DB) CreatePilot(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO pilots (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CreateGuest creates a guest pilot (no password)
func (db *DB) CreateGuest(username string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO pilots (username, is_guest) VALUES (?, 1)",
		username,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPilotByUsername returns a pilot by username, nil if absent
func (db *DB) GetPilotByUsername(username string) (*PilotRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, is_guest, created_at FROM pilots WHERE username = ?",
		username,
	)
	p := &PilotRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.IsGuest, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM pilots WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// RecordFlight records one completed flight for a pilot
func (db *DB) RecordFlight(pilotID int64, seconds float64, crashed bool, crashedOn string) error {
	_, err := db.conn.Exec(
		"INSERT INTO flights (pilot_id, seconds, crashed, crashed_on) VALUES (?, ?, ?, ?)",
		pilotID, seconds, crashed, crashedOn,
	)
	return err
}

// Leaderboard returns the top pilots by accumulated flight time
func (db *DB) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	rows, err := db.conn.Query(`
		SELECT p.username, COUNT(f.id), COALESCE(SUM(f.seconds), 0), COALESCE(SUM(f.crashed), 0)
		FROM pilots p JOIN flights f ON f.pilot_id = p.id
		WHERE p.is_guest = 0
		GROUP BY p.id
		ORDER BY SUM(f.seconds) DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Flights, &e.Seconds, &e.Crashes); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetSetting returns a settings value, or "" when unset
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT v FROM settings WHERE k = ?", key).Scan(&v)
	if err != nil {
		return ""
	}
	return v
}

// SetSetting stores a settings value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v",
		key, value,
	)
	return err
}

// Event is a single trackable relay event
type Event struct {
	Type      string
	Pilot     string
	Detail    string
	Timestamp time.Time
}

// EventCount returns how many events of a type have been recorded
func (db *DB) EventCount(evtType string) (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM events WHERE type = ?", evtType).Scan(&count)
	return count, err
}

// InsertEvents writes a batch of events in one transaction
func (db *DB) InsertEvents(batch []Event) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO events (type, pilot, detail, created_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range batch {
		if _, err := stmt.Exec(e.Type, e.Pilot, e.Detail, e.Timestamp); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
