package integration_test

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

type auditRow struct {
	Actor string
	Type  string
}

// loadAuditRows returns events in insertion order.
func loadAuditRows(t *testing.T, dbPath string) []auditRow {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open audit db: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	rows, err := db.Query("SELECT actor, type FROM events ORDER BY id")
	if err != nil {
		t.Fatalf("query audit events: %v", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []auditRow
	for rows.Next() {
		var r auditRow
		if err := rows.Scan(&r.Actor, &r.Type); err != nil {
			t.Fatalf("scan audit event: %v", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate audit events: %v", err)
	}
	return out
}

// requireAuditEvents checks that every wanted type was logged by the CLI.
func requireAuditEvents(t *testing.T, dbPath string, want []string) {
	t.Helper()
	requireAuditSequence(t, dbPath, "cli", nil, want)
}

// requireAuditSequence checks that ordered appears as a subsequence of the
// actor's events and that every type in present appears at all.
func requireAuditSequence(t *testing.T, dbPath, actor string, ordered, present []string) {
	t.Helper()
	seen := map[string]bool{}
	next := 0
	for _, r := range loadAuditRows(t, dbPath) {
		if r.Actor != actor {
			continue
		}
		seen[r.Type] = true
		if next < len(ordered) && r.Type == ordered[next] {
			next++
		}
	}
	if next < len(ordered) {
		t.Fatalf("audit events for %s in %s: %q not seen in order", actor, dbPath, ordered[next:])
	}
	for _, eventType := range present {
		if !seen[eventType] {
			t.Fatalf("missing %s audit event %s in %s", actor, eventType, dbPath)
		}
	}
}
