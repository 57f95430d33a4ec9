package audit

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesAndReadsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audit.sqlite")
	logger := NewLogger(path)

	require.NoError(t, logger.LogEvent("cli", "session_started", map[string]any{"session_id": "s1"}))
	require.NoError(t, logger.LogEvent("cli", "session_finalized", map[string]any{"session_id": "s1", "answered": 60}))

	events, err := logger.Recent(0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "session_finalized", events[0].Type)
	assert.Equal(t, "session_started", events[1].Type)
	assert.Equal(t, "cli", events[0].Actor)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(events[0].PayloadJSON), &payload))
	assert.Equal(t, float64(60), payload["answered"])

	limited, err := logger.Recent(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLogEventUsesEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.sqlite")
	t.Setenv(EnvAuditDB, path)

	require.NoError(t, LogEvent("api", "score_finished", nil))

	events, err := NewLogger(path).Recent(10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "null", events[0].PayloadJSON)

	var nilLogger *Logger
	require.NoError(t, nilLogger.LogEvent("api", "score_started", nil))
	events, err = nilLogger.Recent(0)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
