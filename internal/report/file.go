package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// WriteReport writes r as indented JSON through a temp file and rename.
func WriteReport(path string, r *Report) error {
	if path == "" {
		return fmt.Errorf("report path is required")
	}
	if r == nil {
		return fmt.Errorf("report is required")
	}
	if r.GeneratedAt == "" {
		return fmt.Errorf("report generated_at is required")
	}
	r.SchemaVersion = SchemaVersion

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure report dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}

// LoadReport reads a report, rejecting unknown fields and other schema versions.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return Decode(data)
}

// Decode parses a report document.
func Decode(data []byte) (*Report, error) {
	var r Report
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if r.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported report schema_version %d", r.SchemaVersion)
	}
	if r.GeneratedAt == "" {
		return nil, fmt.Errorf("report missing generated_at")
	}
	return &r, nil
}

// fileTimeLayout is fixed width so names sort chronologically. Nanoseconds keep
// reports generated within the same second apart.
const fileTimeLayout = "20060102T150405.000000000Z"

// PathFor returns the canonical file name for a report generated at t.
func PathFor(dir string, t time.Time, sessionID string) string {
	name := t.UTC().Format(fileTimeLayout)
	if sessionID != "" {
		short := sessionID
		if len(short) > 8 {
			short = short[:8]
		}
		name += "-" + short
	}
	return filepath.Join(dir, name+".json")
}

// List returns report paths in dir, oldest first.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read reports dir: %w", err)
	}
	var out []string
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
			continue
		}
		// timestamp prefix sorts chronologically
		out = append(out, filepath.Join(dir, ent.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Latest returns the most recent report path in dir.
func Latest(dir string) (string, error) {
	paths, err := List(dir)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no reports found in %s", dir)
	}
	return paths[len(paths)-1], nil
}
