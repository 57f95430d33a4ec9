package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neopir/internal/inventory"
	"neopir/internal/scoring"
)

var fixedTime = time.Date(2026, 1, 17, 12, 30, 0, 0, time.UTC)

func buildUniform(t *testing.T, v int, sessionID string) *Report {
	t.Helper()
	inv := inventory.MustDefault()
	r := scoring.Responses{}
	for _, item := range inv.Items() {
		r[item.ID] = v
	}
	rep, err := Build(inv, scoring.Evaluate(inv, r), r, Meta{SessionID: sessionID, GeneratedAt: fixedTime})
	require.NoError(t, err)
	return rep
}

func buildSkewed(t *testing.T) *Report {
	t.Helper()
	inv := inventory.MustDefault()
	r := scoring.Responses{}
	for _, item := range inv.Items() {
		v := 3
		if item.Dimension == inventory.Extraversion {
			v = 5
			if item.Reverse {
				v = 1
			}
		}
		r[item.ID] = v
	}
	rep, err := Build(inv, scoring.Evaluate(inv, r), r, Meta{GeneratedAt: fixedTime.Add(time.Hour)})
	require.NoError(t, err)
	return rep
}

func TestBuildCanonicalOrder(t *testing.T) {
	rep := buildUniform(t, 3, "s-1")
	require.Len(t, rep.Dimensions, 5)

	var codes []string
	for _, d := range rep.Dimensions {
		codes = append(codes, d.Code)
		assert.Equal(t, 36, d.Raw)
		assert.Equal(t, 60.0, d.Percentile)
		assert.Equal(t, scoring.LevelMedium, d.Level)
		assert.Len(t, d.Facets, inventory.FacetsPerDimension)
	}
	assert.Equal(t, []string{"N", "E", "O", "A", "C"}, codes)
	assert.Equal(t, "N", rep.Dominant)
	assert.Equal(t, "N", rep.Weakest)
	assert.Equal(t, 60, rep.Answered)
	assert.Equal(t, "2026-01-17T12:30:00Z", rep.GeneratedAt)

	e, ok := rep.Dimension("E")
	require.True(t, ok)
	assert.Equal(t, "Warmth", e.Facets[0].Name)
}

func TestBuildPartialResponses(t *testing.T) {
	inv := inventory.MustDefault()
	r := scoring.Responses{"N1": 5}
	rep, err := Build(inv, scoring.Evaluate(inv, r), r, Meta{GeneratedAt: fixedTime})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Answered)
	assert.Equal(t, 60, rep.Total)
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rep := buildSkewed(t)
	path := PathFor(dir, fixedTime, "0123456789abcdef")
	assert.Equal(t, filepath.Join(dir, "20260117T123000.000000000Z-01234567.json"), path)

	require.NoError(t, WriteReport(path, rep))
	loaded, err := LoadReport(path)
	require.NoError(t, err)
	assert.Equal(t, rep, loaded)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestLoadRejectsUnknownFieldsAndVersions(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.json")
	require.NoError(t, os.WriteFile(unknown, []byte(`{"schema_version":1,"generated_at":"x","surprise":true}`), 0o644))
	_, err := LoadReport(unknown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode report")

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"schema_version":2,"generated_at":"x"}`), 0o644))
	_, err = LoadReport(future)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report schema_version 2")
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	_, err := Latest(dir)
	require.Error(t, err)

	older := buildUniform(t, 3, "")
	newer := buildSkewed(t)
	require.NoError(t, WriteReport(PathFor(dir, fixedTime, ""), older))
	require.NoError(t, WriteReport(PathFor(dir, fixedTime.Add(time.Hour), ""), newer))

	latest, err := Latest(dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(latest, "20260117T133000.000000000Z.json"))
}

func TestMarkdown(t *testing.T) {
	md := Markdown(buildSkewed(t))
	assert.Contains(t, md, "| Extraversion | 60 | 100.0 | High |")
	assert.Contains(t, md, "| Neuroticism | 36 | 60.0 | Medium |")
	assert.Contains(t, md, "Your most pronounced trait is Extraversion (100%).")
	assert.Contains(t, md, "## Strengths")
	assert.Contains(t, md, "- **Anxiety**: 6")
	assert.NotContains(t, md, "## Areas for development")
}

func TestCompareAndDiff(t *testing.T) {
	a := buildUniform(t, 3, "")
	b := buildSkewed(t)

	deltas := Compare(a, b)
	require.Len(t, deltas, 5)
	assert.Equal(t, "E", deltas[1].Code)
	assert.InDelta(t, 40.0, deltas[1].Change, 1e-9)
	assert.True(t, deltas[1].LevelChanged())
	assert.False(t, deltas[0].LevelChanged())

	text, err := Diff(a, b, "before.json", "after.json")
	require.NoError(t, err)
	assert.Contains(t, text, "--- before.json")
	assert.Contains(t, text, "+++ after.json")
	assert.Contains(t, text, "-| Extraversion | 36 | 60.0 | Medium |\n")
	assert.Contains(t, text, "+| Extraversion | 60 | 100.0 | High |\n")

	same, err := Diff(a, a, "x", "y")
	require.NoError(t, err)
	assert.Empty(t, same)
}

func TestPathForSameSecond(t *testing.T) {
	dir := t.TempDir()
	first := PathFor(dir, fixedTime, "")
	second := PathFor(dir, fixedTime.Add(500*time.Millisecond), "")
	require.NotEqual(t, first, second)

	older := buildUniform(t, 3, "")
	newer := buildSkewed(t)
	require.NoError(t, WriteReport(first, older))
	require.NoError(t, WriteReport(second, newer))

	paths, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, paths)

	latest, err := Latest(dir)
	require.NoError(t, err)
	assert.Equal(t, second, latest)

	// single-digit nanoseconds must not break lexical ordering
	a := PathFor(dir, fixedTime.Add(9*time.Nanosecond), "")
	b := PathFor(dir, fixedTime.Add(10*time.Nanosecond), "")
	assert.Less(t, a, b)
}
