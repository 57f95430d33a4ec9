package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultInventoryShape(t *testing.T) {
	inv, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 60, inv.Len())
	assert.Equal(t, 1, inv.Scale.Min)
	assert.Equal(t, 5, inv.Scale.Max)
	assert.Equal(t, "Strongly agree", inv.Scale.Label(5))
	assert.Equal(t, "", inv.Scale.Label(6))

	for _, d := range Dimensions() {
		assert.Len(t, inv.ItemsFor(d), ItemsPerDimension, "dimension %s", d)
		facets := inv.Facets(d)
		require.Len(t, facets, FacetsPerDimension, "dimension %s", d)
		for _, f := range facets {
			assert.NotEmpty(t, f.Description, "facet %s/%s", d, f.Name)
		}
	}
}

func TestDefaultInventoryIsCached(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestItemLookups(t *testing.T) {
	inv := MustDefault()

	item, ok := inv.Item("N7")
	require.True(t, ok)
	assert.Equal(t, Neuroticism, item.Dimension)
	assert.Equal(t, "Anxiety", item.Facet)
	assert.True(t, item.Reverse)

	_, ok = inv.Item("X1")
	assert.False(t, ok)

	first, ok := inv.ItemAt(0)
	require.True(t, ok)
	assert.Equal(t, "N1", first.ID)
	assert.Equal(t, 0, inv.IndexOf("N1"))
	assert.Equal(t, -1, inv.IndexOf("nope"))

	desc, ok := inv.FacetDescription(Openness, "Ideas")
	require.True(t, ok)
	assert.Contains(t, desc, "curiosity")

	// E1 is keyed to gregariousness while warmth is declared first.
	e1, _ := inv.Item("E1")
	assert.Equal(t, "Gregariousness", e1.Facet)
	assert.Equal(t, "Warmth", inv.Facets(Extraversion)[0].Name)
}

func TestDimensionsCanonicalOrder(t *testing.T) {
	got := Dimensions()
	assert.Equal(t, []Dimension{"N", "E", "O", "A", "C"}, got)
	got[0] = "X"
	assert.Equal(t, Neuroticism, Dimensions()[0])
	assert.Equal(t, "Conscientiousness", Conscientiousness.Name())
	assert.Equal(t, "Z", Dimension("Z").Name())
	assert.Equal(t, 2, Openness.Index())
}

func TestParseReportsAllProblems(t *testing.T) {
	yml := `
scale:
  min: 1
  max: 5
  labels: [a, b]
dimensions:
  - code: N
    name: Neuroticism
    facets:
      - name: Anxiety
      - name: Anxiety
  - code: Q
    name: Quirkiness
items:
  - {id: N1, dimension: N, facet: Anxiety, text: "x"}
  - {id: N1, dimension: N, facet: Anxiety, text: "y", reverse: true}
  - {id: "", dimension: N, facet: Unknown, text: ""}
`
	_, err := Parse([]byte(yml), "bad.yml")
	require.Error(t, err)

	var vErrs ValidationErrors
	require.True(t, errors.As(err, &vErrs))

	msg := err.Error()
	for _, want := range []string{
		"scale.labels",
		"duplicate facet",
		"unknown dimension \"Q\"",
		"missing dimension E",
		"duplicate item id \"N1\"",
		"items[2].id",
		"items[2].text",
		"facet \"Unknown\" is not declared",
		"dimension N has 1 items",
	} {
		assert.Contains(t, msg, want)
	}
	for _, e := range vErrs {
		assert.Equal(t, "bad.yml", e.File)
	}
}

func TestParseRejectsUnbalancedKeying(t *testing.T) {
	doc := strings.Replace(string(DefaultYAML()),
		`{id: N7, dimension: N, facet: Anxiety, reverse: true,`,
		`{id: N7, dimension: N, facet: Anxiety, reverse: false,`, 1)
	_, err := Parse([]byte(doc), "unbalanced.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "facet N/Anxiety needs one forward and one reverse item")
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("items: [\n"), "broken.yml")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "broken.yml: yaml:"))
}

func TestLoadFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()

	inv, err := Load(filepath.Join(dir, "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSource, inv.Source)

	path := filepath.Join(dir, "custom.yml")
	doc := strings.Replace(string(DefaultYAML()), "name: neo-pi-r-short-60", "name: custom", 1)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	inv, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", inv.Name)
	assert.Equal(t, path, inv.Source)
}
