package recording

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // CGO-free SQLite

	"github.com/ivlev/autocam/internal/events"
)

// Event kinds stored in the events table
const (
	kindPosition = "position"
	kindClick    = "click"
	kindKey      = "key"
	kindDrag     = "drag"
	kindScroll   = "scroll"
	kindUIState  = "ui_state"
)

// Store keeps recorded sessions in a SQLite database
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the store at path
func Open(path string) (*Store, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS sessions(
	  id          TEXT    PRIMARY KEY,
	  created_ns  INTEGER NOT NULL,
	  duration    REAL    NOT NULL,
	  frame_rate  REAL    NOT NULL,
	  screen_w    REAL    NOT NULL,
	  screen_h    REAL    NOT NULL
	);
	CREATE TABLE IF NOT EXISTS events(
	  id         INTEGER PRIMARY KEY,
	  session_id TEXT    NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	  kind       TEXT    NOT NULL CHECK (kind IN ('position','click','key','drag','scroll','ui_state')),
	  ts         REAL    NOT NULL,
	  data_json  TEXT    NOT NULL CHECK (json_valid(data_json))
	);
	CREATE INDEX IF NOT EXISTS idx_events_session  ON events(session_id, id);
	CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_ns);
	`)
	if err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession validates and stores a recording in one transaction and
// returns the new session ID
func (s *Store) CreateSession(rec events.Recording, uiStates []events.UIStateSample) (string, error) {
	if err := Validate(rec, uiStates); err != nil {
		return "", err
	}

	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO sessions(id, created_ns, duration, frame_rate, screen_w, screen_h) VALUES(?,?,?,?,?,?)`,
		id, s.now().UnixNano(), rec.Duration, rec.FrameRate, rec.Screen.Width, rec.Screen.Height); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO events(session_id, kind, ts, data_json) VALUES(?,?,?,json(?))`)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	insert := func(kind string, ts float64, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s event: %w", kind, err)
		}
		if _, err := stmt.Exec(id, kind, ts, string(data)); err != nil {
			return fmt.Errorf("failed to insert %s event: %w", kind, err)
		}
		return nil
	}

	err = func() error {
		for _, p := range rec.Positions {
			if err := insert(kindPosition, p.Time, p); err != nil {
				return err
			}
		}
		for _, c := range rec.Clicks {
			if err := insert(kindClick, c.Time, c); err != nil {
				return err
			}
		}
		for _, k := range rec.Keys {
			if err := insert(kindKey, k.Time, k); err != nil {
				return err
			}
		}
		for _, d := range rec.Drags {
			if err := insert(kindDrag, d.StartTime, d); err != nil {
				return err
			}
		}
		for _, sc := range rec.Scrolls {
			if err := insert(kindScroll, sc.Time, sc); err != nil {
				return err
			}
		}
		for _, u := range uiStates {
			if err := insert(kindUIState, u.Time, u); err != nil {
				return err
			}
		}
		return nil
	}()
	if err != nil {
		_ = tx.Rollback()
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// LoadSession reads a stored session back. Events come back in insertion
// order.
func (s *Store) LoadSession(id string) (events.Recording, []events.UIStateSample, error) {
	var rec events.Recording
	row := s.db.QueryRow(`SELECT duration, frame_rate, screen_w, screen_h FROM sessions WHERE id = ?`, id)
	if err := row.Scan(&rec.Duration, &rec.FrameRate, &rec.Screen.Width, &rec.Screen.Height); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return rec, nil, fmt.Errorf("failed to read session: %w", err)
	}

	rows, err := s.db.Query(`SELECT kind, data_json FROM events WHERE session_id = ? ORDER BY id`, id)
	if err != nil {
		return rec, nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var uiStates []events.UIStateSample
	for rows.Next() {
		var kind, data string
		if err := rows.Scan(&kind, &data); err != nil {
			return rec, nil, fmt.Errorf("failed to scan event: %w", err)
		}

		var uerr error
		switch kind {
		case kindPosition:
			var v events.MousePosition
			uerr = json.Unmarshal([]byte(data), &v)
			rec.Positions = append(rec.Positions, v)
		case kindClick:
			var v events.Click
			uerr = json.Unmarshal([]byte(data), &v)
			rec.Clicks = append(rec.Clicks, v)
		case kindKey:
			var v events.KeyEvent
			uerr = json.Unmarshal([]byte(data), &v)
			rec.Keys = append(rec.Keys, v)
		case kindDrag:
			var v events.Drag
			uerr = json.Unmarshal([]byte(data), &v)
			rec.Drags = append(rec.Drags, v)
		case kindScroll:
			var v events.Scroll
			uerr = json.Unmarshal([]byte(data), &v)
			rec.Scrolls = append(rec.Scrolls, v)
		case kindUIState:
			var v events.UIStateSample
			uerr = json.Unmarshal([]byte(data), &v)
			uiStates = append(uiStates, v)
		default:
			uerr = fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, kind)
		}
		if uerr != nil {
			return rec, nil, fmt.Errorf("failed to decode %s event: %w", kind, uerr)
		}
	}
	if err := rows.Err(); err != nil {
		return rec, nil, fmt.Errorf("failed to read events: %w", err)
	}

	return rec, uiStates, nil
}

// LatestSession returns the ID of the most recently created session
func (s *Store) LatestSession() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT id FROM sessions ORDER BY created_ns DESC, rowid DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query sessions: %w", err)
	}
	return id, nil
}
