package inventory

// Dimension is one of the five personality domains.
type Dimension string

const (
	Neuroticism       Dimension = "N"
	Extraversion      Dimension = "E"
	Openness          Dimension = "O"
	Agreeableness     Dimension = "A"
	Conscientiousness Dimension = "C"
)

const (
	FacetsPerDimension = 6
	ItemsPerFacet      = 2
	ItemsPerDimension  = FacetsPerDimension * ItemsPerFacet
)

var canonicalOrder = []Dimension{Neuroticism, Extraversion, Openness, Agreeableness, Conscientiousness}

var dimensionNames = map[Dimension]string{
	Neuroticism:       "Neuroticism",
	Extraversion:      "Extraversion",
	Openness:          "Openness",
	Agreeableness:     "Agreeableness",
	Conscientiousness: "Conscientiousness",
}

// Dimensions returns the dimensions in canonical order N, E, O, A, C.
func Dimensions() []Dimension {
	out := make([]Dimension, len(canonicalOrder))
	copy(out, canonicalOrder)
	return out
}

// Valid reports whether d is one of the five known dimensions.
func (d Dimension) Valid() bool {
	_, ok := dimensionNames[d]
	return ok
}

// Name returns the human name of the dimension, or the code for unknown values.
func (d Dimension) Name() string {
	if name, ok := dimensionNames[d]; ok {
		return name
	}
	return string(d)
}

func (d Dimension) String() string {
	return string(d)
}

// Index returns the canonical position of d, or -1.
func (d Dimension) Index() int {
	for i, c := range canonicalOrder {
		if c == d {
			return i
		}
	}
	return -1
}

// Item is a single questionnaire statement.
type Item struct {
	ID        string
	Text      string
	Dimension Dimension
	Facet     string
	Reverse   bool
}

// Facet is a named sub-trait of a dimension.
type Facet struct {
	Name        string
	Description string
}

// Scale describes the Likert answer range.
type Scale struct {
	Min    int
	Max    int
	Labels []string
}

// Label returns the label for value v, or "" when none is configured.
func (s Scale) Label(v int) string {
	idx := v - s.Min
	if idx < 0 || idx >= len(s.Labels) {
		return ""
	}
	return s.Labels[idx]
}

// Contains reports whether v lies within the scale.
func (s Scale) Contains(v int) bool {
	return v >= s.Min && v <= s.Max
}

// Inventory is an immutable, validated questionnaire definition.
type Inventory struct {
	Name   string
	Scale  Scale
	Source string

	items  []Item
	byID   map[string]int
	facets map[Dimension][]Facet
}

// Items returns all items in presentation order.
func (inv *Inventory) Items() []Item {
	out := make([]Item, len(inv.items))
	copy(out, inv.items)
	return out
}

// Len returns the number of items.
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// ItemAt returns the item at position i in presentation order.
func (inv *Inventory) ItemAt(i int) (Item, bool) {
	if i < 0 || i >= len(inv.items) {
		return Item{}, false
	}
	return inv.items[i], true
}

// Item looks up an item by id.
func (inv *Inventory) Item(id string) (Item, bool) {
	idx, ok := inv.byID[id]
	if !ok {
		return Item{}, false
	}
	return inv.items[idx], true
}

// IndexOf returns the presentation position of id, or -1.
func (inv *Inventory) IndexOf(id string) int {
	idx, ok := inv.byID[id]
	if !ok {
		return -1
	}
	return idx
}

// ItemsFor returns the items of one dimension in presentation order.
func (inv *Inventory) ItemsFor(d Dimension) []Item {
	var out []Item
	for _, it := range inv.items {
		if it.Dimension == d {
			out = append(out, it)
		}
	}
	return out
}

// ItemsPerDimension returns the number of items keyed to d.
func (inv *Inventory) ItemsPerDimension(d Dimension) int {
	return len(inv.ItemsFor(d))
}

// Facets returns the facets of d in declared order.
func (inv *Inventory) Facets(d Dimension) []Facet {
	src := inv.facets[d]
	out := make([]Facet, len(src))
	copy(out, src)
	return out
}

// FacetDescription returns the description of a facet, if declared.
func (inv *Inventory) FacetDescription(d Dimension, facet string) (string, bool) {
	for _, f := range inv.facets[d] {
		if f.Name == facet {
			return f.Description, true
		}
	}
	return "", false
}
