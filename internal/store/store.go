package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"neopir/internal/inventory"
	"neopir/internal/scoring"
	"neopir/internal/session"
)

// timeLayout has fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned when a session id has no stored row.
var ErrNotFound = errors.New("session not found")

// Store persists questionnaire sessions in SQLite so they can be resumed.
type Store struct {
	DBPath string
	db     *sql.DB
}

// Summary is the listing view of a stored session.
type Summary struct {
	ID        string
	Inventory string
	StartedAt time.Time
	UpdatedAt time.Time
	Answered  int
	Completed bool
}

// Open opens or creates the session database.
func Open(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve session db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure session db dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	store := &Store{
		DBPath: absPath,
		db:     db,
	}

	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	inventory TEXT NOT NULL,
	started_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	cursor INTEGER NOT NULL DEFAULT 0,
	answered INTEGER NOT NULL DEFAULT 0,
	completed INTEGER NOT NULL DEFAULT 0,
	responses_json TEXT NOT NULL,
	result_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create session schema: %w", err)
	}
	return nil
}

// SaveSession inserts or replaces the stored state of sess.
func (s *Store) SaveSession(sess *session.Session) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("session with id is required")
	}
	responsesJSON, err := json.Marshal(sess.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	var resultJSON sql.NullString
	if sess.Result != nil {
		data, err := json.Marshal(sess.Result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		resultJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (id, inventory, started_at, updated_at, cursor, answered, completed, responses_json, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			inventory = excluded.inventory,
			updated_at = excluded.updated_at,
			cursor = excluded.cursor,
			answered = excluded.answered,
			completed = excluded.completed,
			responses_json = excluded.responses_json,
			result_json = excluded.result_json
	`,
		sess.ID,
		sess.Inventory.Name,
		sess.StartedAt.UTC().Format(timeLayout),
		sess.UpdatedAt.UTC().Format(timeLayout),
		sess.Cursor,
		sess.Answered(),
		boolToInt(sess.Completed),
		string(responsesJSON),
		resultJSON,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// LoadSession restores a session against inv. The result is recomputed from
// the stored responses rather than trusted from the row.
func (s *Store) LoadSession(id string, inv *inventory.Inventory) (*session.Session, error) {
	var (
		invName              string
		startedAt, updatedAt string
		cursor, completed    int
		responsesJSON        string
	)
	err := s.db.QueryRow(
		"SELECT inventory, started_at, updated_at, cursor, completed, responses_json FROM sessions WHERE id = ?",
		id,
	).Scan(&invName, &startedAt, &updatedAt, &cursor, &completed, &responsesJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	if invName != inv.Name {
		return nil, fmt.Errorf("session %s was taken with inventory %q, not %q", id, invName, inv.Name)
	}

	var responses scoring.Responses
	if err := json.Unmarshal([]byte(responsesJSON), &responses); err != nil {
		return nil, fmt.Errorf("decode responses for %s: %w", id, err)
	}
	if responses == nil {
		responses = scoring.Responses{}
	}
	started, err := parseTime(startedAt)
	if err != nil {
		return nil, err
	}
	updated, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return session.Restore(inv, id, started, updated, responses, cursor, completed != 0)
}

// ListSessions returns stored sessions, most recently updated first. A
// non-positive limit lists all of them.
func (s *Store) ListSessions(limit int) ([]Summary, error) {
	query := "SELECT id, inventory, started_at, updated_at, answered, completed FROM sessions ORDER BY updated_at DESC, id ASC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum                  Summary
			startedAt, updatedAt string
			completed            int
		)
		if err := rows.Scan(&sum.ID, &sum.Inventory, &startedAt, &updatedAt, &sum.Answered, &completed); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if sum.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, err
		}
		if sum.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		sum.Completed = completed != 0
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// LatestIncomplete returns the id of the most recently updated unfinished
// session, or "" when there is none.
func (s *Store) LatestIncomplete() (string, error) {
	var id string
	err := s.db.QueryRow(
		"SELECT id FROM sessions WHERE completed = 0 ORDER BY updated_at DESC LIMIT 1",
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query latest incomplete session: %w", err)
	}
	return id, nil
}

// DeleteSession removes a stored session.
func (s *Store) DeleteSession(id string) error {
	res, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", v, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
