package scoring

import (
	"fmt"
	"sort"
	"strings"

	"neopir/internal/inventory"
)

// Score sums item contributions per dimension and per facet.
//
// Reverse-keyed items contribute 6 - v. Items missing from responses add
// nothing and response ids unknown to the inventory are ignored. Values are
// not range-checked here; see Validate.
func Score(inv *inventory.Inventory, responses Responses) (map[inventory.Dimension]int, map[inventory.Dimension]map[string]int) {
	raw := make(map[inventory.Dimension]int)
	facets := make(map[inventory.Dimension]map[string]int)
	for _, d := range inventory.Dimensions() {
		raw[d] = 0
		facets[d] = make(map[string]int)
		for _, f := range inv.Facets(d) {
			facets[d][f.Name] = 0
		}
	}

	for _, item := range inv.Items() {
		v, ok := responses[item.ID]
		if !ok {
			continue
		}
		score := v
		if item.Reverse {
			score = 6 - v
		}
		raw[item.Dimension] += score
		facets[item.Dimension][item.Facet] += score
	}
	return raw, facets
}

// Normalize maps a raw dimension score onto 0..100 linearly.
//
// This is a heuristic proxy for a percentile, not a normed score. A
// non-positive denominator yields 0.
func Normalize(raw, itemCount, scaleMax int) float64 {
	denom := itemCount * scaleMax
	if denom <= 0 {
		return 0
	}
	return clamp(float64(raw)/float64(denom)*100, 0, 100)
}

// LevelFor classifies a percentile into Low, Medium or High.
func LevelFor(p float64) Level {
	switch {
	case p >= HighThreshold:
		return LevelHigh
	case p >= LowThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Interpret attaches a level and narrative to each given percentile.
func Interpret(percentiles map[inventory.Dimension]float64) map[inventory.Dimension]Interpretation {
	out := make(map[inventory.Dimension]Interpretation, len(percentiles))
	for d, p := range percentiles {
		level := LevelFor(p)
		out[d] = Interpretation{
			Level:       level,
			Percentile:  p,
			Description: Description(d, level),
		}
	}
	return out
}

// Evaluate runs the full pipeline: score, normalize, interpret.
func Evaluate(inv *inventory.Inventory, responses Responses) Result {
	raw, facets := Score(inv, responses)
	percentiles := make(map[inventory.Dimension]float64, len(raw))
	for _, d := range inventory.Dimensions() {
		itemCount := inv.ItemsPerDimension(d)
		if itemCount == 0 {
			itemCount = DefaultItemCount
		}
		percentiles[d] = Normalize(raw[d], itemCount, inv.Scale.Max)
	}
	return Result{
		Raw:             raw,
		Facets:          facets,
		Percentiles:     percentiles,
		Interpretations: Interpret(percentiles),
	}
}

// Dominant returns the dimension with the highest percentile. Ties go to the
// earliest dimension in canonical order. ok is false for empty input.
func Dominant(percentiles map[inventory.Dimension]float64) (inventory.Dimension, bool) {
	return pick(percentiles, func(candidate, best float64) bool { return candidate > best })
}

// Weakest returns the dimension with the lowest percentile, with the same
// tie-break as Dominant.
func Weakest(percentiles map[inventory.Dimension]float64) (inventory.Dimension, bool) {
	return pick(percentiles, func(candidate, best float64) bool { return candidate < best })
}

func pick(percentiles map[inventory.Dimension]float64, better func(candidate, best float64) bool) (inventory.Dimension, bool) {
	var (
		best  inventory.Dimension
		value float64
		found bool
	)
	for _, d := range inventory.Dimensions() {
		p, ok := percentiles[d]
		if !ok {
			continue
		}
		if !found || better(p, value) {
			best, value, found = d, p, true
		}
	}
	return best, found
}

// Validate checks every response against the inventory: unknown ids and
// out-of-range values are reported. Missing items are not an error here.
func Validate(inv *inventory.Inventory, responses Responses) error {
	ids := make([]string, 0, len(responses))
	for id := range responses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, ok := inv.Item(id); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownItem, id)
		}
		if v := responses[id]; !inv.Scale.Contains(v) {
			return fmt.Errorf("%w: %s=%d (want %d..%d)", ErrInvalidValue, id, v, inv.Scale.Min, inv.Scale.Max)
		}
	}
	return nil
}

// Missing lists the ids of items without a response, in presentation order.
func Missing(inv *inventory.Inventory, responses Responses) []string {
	var out []string
	for _, item := range inv.Items() {
		if _, ok := responses[item.ID]; !ok {
			out = append(out, item.ID)
		}
	}
	return out
}

// RequireComplete returns ErrIncomplete naming the missing ids, if any.
func RequireComplete(inv *inventory.Inventory, responses Responses) error {
	missing := Missing(inv, responses)
	if len(missing) == 0 {
		return nil
	}
	return &IncompleteError{Missing: missing}
}

// IncompleteError lists unanswered items. It matches ErrIncomplete.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %d unanswered (%s)", ErrIncomplete, len(e.Missing), strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncomplete
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
