package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	defaultAuditPath = "audit/audit.sqlite"
	EnvAuditDB       = "NEOPIR_AUDIT_DB"
)

// Logger writes audit events to a specific SQLite DB path.
type Logger struct {
	DBPath string
}

// Event is one stored audit row.
type Event struct {
	ID          int64
	Timestamp   string
	Actor       string
	Type        string
	PayloadJSON string
}

// NewLogger returns a Logger bound to the provided DB path.
func NewLogger(dbPath string) *Logger {
	return &Logger{DBPath: dbPath}
}

// LogEvent writes an audit event to the SQLite-backed log.
func LogEvent(actor string, eventType string, payload any) error {
	return logEvent("", actor, eventType, payload)
}

// LogEvent writes an audit event to the configured SQLite-backed log.
func (l *Logger) LogEvent(actor string, eventType string, payload any) error {
	if l == nil {
		return logEvent("", actor, eventType, payload)
	}
	return logEvent(l.DBPath, actor, eventType, payload)
}

// Recent returns up to limit events, newest first. A non-positive limit
// returns all events.
func (l *Logger) Recent(limit int) ([]Event, error) {
	path := ""
	if l != nil {
		path = l.DBPath
	}
	resolved, err := resolveDBPath(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := ensureSchema(db); err != nil {
		return nil, err
	}

	query := "SELECT id, ts, actor, type, payload_json FROM events ORDER BY id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.Actor, &ev.Type, &ev.PayloadJSON); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func logEvent(dbPath string, actor string, eventType string, payload any) error {
	resolved, err := resolveDBPath(dbPath)
	if err != nil {
		return err
	}
	return writeEvent(resolved, actor, eventType, payload)
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts DATETIME NOT NULL,
			actor TEXT NOT NULL,
			type TEXT NOT NULL,
			payload_json TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

func resolveDBPath(dbPath string) (string, error) {
	if dbPath == "" {
		dbPath = os.Getenv(EnvAuditDB)
	}
	if dbPath == "" {
		dbPath = defaultAuditPath
	}
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("resolve audit db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure audit db dir: %w", err)
	}
	return absPath, nil
}

func writeEvent(dbPath string, actor string, eventType string, payload any) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open audit db: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := ensureSchema(db); err != nil {
		return err
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	_, err = db.Exec(
		"INSERT INTO events (ts, actor, type, payload_json) VALUES (?, ?, ?, ?)",
		time.Now().UTC(),
		actor,
		eventType,
		string(payloadJSON),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}

	return nil
}
