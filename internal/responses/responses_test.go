package responses

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neopir/internal/inventory"
	"neopir/internal/scoring"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestFileSourceShapes(t *testing.T) {
	inv := inventory.MustDefault()
	cases := map[string]string{
		"nested.yml":  "responses:\n  N1: 4\n  C12: 2\n",
		"flat.yml":    "N1: 4\nC12: 2\n",
		"flat.json":   `{"N1": 4, "C12": 2}`,
		"nested.json": `{"responses": {"N1": 4, "C12": 2}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			src := &FileSource{Path: writeFile(t, name, body), Inventory: inv}
			got, err := src.Collect(context.Background())
			require.NoError(t, err)
			assert.Equal(t, scoring.Responses{"N1": 4, "C12": 2}, got)
		})
	}
}

func TestFileSourceRejectsBadValues(t *testing.T) {
	inv := inventory.MustDefault()

	src := &FileSource{Path: writeFile(t, "bad.yml", "N1: 7\n"), Inventory: inv}
	_, err := src.Collect(context.Background())
	assert.True(t, errors.Is(err, scoring.ErrInvalidValue), "got %v", err)

	src = &FileSource{Path: writeFile(t, "unknown.yml", "Z9: 3\n"), Inventory: inv}
	_, err = src.Collect(context.Background())
	assert.True(t, errors.Is(err, scoring.ErrUnknownItem), "got %v", err)

	src = &FileSource{Path: writeFile(t, "list.yml", "- 1\n- 2\n"), Inventory: inv}
	_, err = src.Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top-level mapping")

	src = &FileSource{Path: filepath.Join(t.TempDir(), "missing.yml")}
	_, err = src.Collect(context.Background())
	assert.Error(t, err)
}

func TestParseKeepsDecodeErrors(t *testing.T) {
	_, err := Parse([]byte("responses: {N1: three}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "`responses:` mapping")
	assert.Contains(t, err.Error(), "three")

	_, err = Parse([]byte("N1: three\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "three")

	_, err = Parse([]byte(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top-level mapping")
}

func TestUniformSource(t *testing.T) {
	inv := inventory.MustDefault()
	got, err := (&UniformSource{Inventory: inv, Value: 2}).Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 60)
	assert.Equal(t, 2, got["A7"])

	_, err = (&UniformSource{Inventory: inv, Value: 0}).Collect(context.Background())
	assert.ErrorIs(t, err, scoring.ErrInvalidValue)
}

func TestCollectAllLaterWins(t *testing.T) {
	inv := inventory.MustDefault()
	merged, err := CollectAll(context.Background(), []Source{
		&UniformSource{Inventory: inv, Value: 3},
		nil,
		&MapSource{Inventory: inv, Responses: scoring.Responses{"N1": 5}},
	})
	require.NoError(t, err)
	assert.Len(t, merged, 60)
	assert.Equal(t, 5, merged["N1"])
	assert.Equal(t, 3, merged["N2"])

	_, err = CollectAll(context.Background(), []Source{
		&MapSource{Label: "manual", Inventory: inv, Responses: scoring.Responses{"N1": 9}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manual source")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CollectAll(ctx, []Source{&UniformSource{Inventory: inv, Value: 3}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "answers.yml")
	require.NoError(t, WriteFile(path, scoring.Responses{"E3": 1, "O2": 5}))
	got, err := (&FileSource{Path: path, Inventory: inventory.MustDefault()}).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scoring.Responses{"E3": 1, "O2": 5}, got)
}
