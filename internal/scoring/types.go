package scoring

import (
	"errors"

	"neopir/internal/inventory"
)

// Level is the coarse interpretation band of a percentile.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

const (
	DefaultItemCount = inventory.ItemsPerDimension
	DefaultScaleMax  = 5

	HighThreshold = 70.0
	LowThreshold  = 30.0
)

var (
	// ErrInvalidValue marks a Likert answer outside the inventory scale.
	ErrInvalidValue = errors.New("invalid likert value")
	// ErrUnknownItem marks a response keyed to an id the inventory does not define.
	ErrUnknownItem = errors.New("unknown item")
	// ErrIncomplete marks a response set that does not cover every item.
	ErrIncomplete = errors.New("incomplete responses")
)

// Responses maps item id to a Likert answer. Partial maps are allowed.
type Responses map[string]int

// Clone returns an independent copy of r.
func (r Responses) Clone() Responses {
	out := make(Responses, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Interpretation is the narrative attached to one dimension.
type Interpretation struct {
	Level       Level   `json:"level"`
	Percentile  float64 `json:"percentile"`
	Description string  `json:"description"`
}

// Result is the outcome of scoring a response set. It is not mutated after
// Evaluate returns.
type Result struct {
	Raw             map[inventory.Dimension]int            `json:"raw"`
	Facets          map[inventory.Dimension]map[string]int `json:"facets"`
	Percentiles     map[inventory.Dimension]float64        `json:"percentiles"`
	Interpretations map[inventory.Dimension]Interpretation `json:"interpretations"`
}
