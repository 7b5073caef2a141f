package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/incremental/internal/economy"
	"github.com/talgya/incremental/internal/engine"
)

// Journal is the SQLite-backed session history. It is an audit trail only;
// the JSON save remains the source of truth for game state.
type Journal struct {
	conn *sqlx.DB
}

// Session summarises one run of the game.
type Session struct {
	ID           string
	StartedAt    time.Time
	EndedAt      time.Time
	OfflineTicks uint64
	LiveTicks    uint64
	Upgrades     uint64
}

// Timestamps are stored as unix milliseconds.
type eventRow struct {
	SessionID   string `db:"session_id"`
	Tick        uint64 `db:"tick"`
	At          int64  `db:"at"`
	Category    string `db:"category"`
	Resource    string `db:"resource"`
	Level       uint64 `db:"level"`
	CostAmount  string `db:"cost_amount"` // TEXT: a saturated cost does not fit INTEGER
	CostKind    string `db:"cost_kind"`
	Description string `db:"description"`
}

// OpenJournal opens or creates the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{conn: conn}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL,
		offline_ticks INTEGER NOT NULL,
		live_ticks INTEGER NOT NULL,
		upgrades INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		at INTEGER NOT NULL,
		category TEXT NOT NULL,
		resource TEXT NOT NULL,
		level INTEGER NOT NULL,
		cost_amount TEXT NOT NULL,
		cost_kind TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// SaveSession inserts or replaces a session summary.
func (j *Journal) SaveSession(s Session) error {
	_, err := j.conn.Exec(`INSERT OR REPLACE INTO sessions
		(id, started_at, ended_at, offline_ticks, live_ticks, upgrades)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.StartedAt.UnixMilli(), s.EndedAt.UnixMilli(),
		int64(s.OfflineTicks), int64(s.LiveTicks), int64(s.Upgrades),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

// SaveEvents appends a session's events in one transaction.
func (j *Journal) SaveEvents(sessionID string, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := j.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamed(`INSERT INTO events
		(session_id, tick, at, category, resource, level, cost_amount, cost_kind, description)
		VALUES (:session_id, :tick, :at, :category, :resource, :level, :cost_amount, :cost_kind, :description)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(toRow(sessionID, e)); err != nil {
			return fmt.Errorf("insert event at tick %d: %w", e.Tick, err)
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair.
func (j *Journal) SaveMeta(key, value string) error {
	_, err := j.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value. A missing key yields "" and no error.
func (j *Journal) GetMeta(key string) (string, error) {
	var value string
	err := j.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// RecentEvents returns the most recent events, newest first.
func (j *Journal) RecentEvents(limit int) ([]engine.Event, error) {
	var rows []eventRow
	err := j.conn.Select(&rows, `SELECT session_id, tick, at, category, resource, level,
		cost_amount, cost_kind, description
		FROM events ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}

	events := make([]engine.Event, 0, len(rows))
	for _, r := range rows {
		e, err := r.event()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// LifetimeTicks sums offline and live ticks across every recorded session.
func (j *Journal) LifetimeTicks() (uint64, error) {
	var total int64
	err := j.conn.Get(&total, "SELECT COALESCE(SUM(offline_ticks + live_ticks), 0) FROM sessions")
	return uint64(total), err
}

func toRow(sessionID string, e engine.Event) eventRow {
	row := eventRow{
		SessionID:   sessionID,
		Tick:        e.Tick,
		At:          e.At.UnixMilli(),
		Category:    e.Category,
		Level:       e.Level,
		CostAmount:  strconv.FormatUint(e.Cost.Amount, 10),
		Description: e.Description,
	}
	// Catch-up events carry no resource.
	if e.Category == engine.CategoryUpgrade {
		row.Resource = e.Kind.String()
		row.CostKind = e.Cost.Kind.String()
	}
	return row
}

func (r eventRow) event() (engine.Event, error) {
	e := engine.Event{
		Tick:        r.Tick,
		At:          time.UnixMilli(r.At),
		Category:    r.Category,
		Level:       r.Level,
		Description: r.Description,
	}
	amount, err := strconv.ParseUint(r.CostAmount, 10, 64)
	if err != nil {
		return e, fmt.Errorf("event cost %q: %w", r.CostAmount, err)
	}
	e.Cost.Amount = amount
	if r.Resource != "" {
		if e.Kind, err = economy.ParseKind(r.Resource); err != nil {
			return e, err
		}
	}
	if r.CostKind != "" {
		if e.Cost.Kind, err = economy.ParseKind(r.CostKind); err != nil {
			return e, err
		}
	}
	return e, nil
}
