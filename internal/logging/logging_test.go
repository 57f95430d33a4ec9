package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "JSON", Output: &buf})
	logger.Info("hidden")
	logger.Warn("shown", "session_id", "s1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "s1", entry["session_id"])
}

func TestNewTextDefault(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Output: &buf}).Info("hello", "k", 1)
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=1")
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvFormat, "json")

	cfg := FromEnv(Config{Level: "error"})
	assert.Equal(t, "error", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" Debug "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}
