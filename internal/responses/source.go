package responses

import (
	"context"
	"fmt"

	"neopir/internal/inventory"
	"neopir/internal/scoring"
)

// Source yields a set of questionnaire answers.
type Source interface {
	Name() string
	Collect(ctx context.Context) (scoring.Responses, error)
}

// CollectAll runs sources in order and merges their answers. Later sources
// override earlier ones for the same item.
func CollectAll(ctx context.Context, sources []Source) (scoring.Responses, error) {
	merged := make(scoring.Responses)
	for _, src := range sources {
		if src == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := src.Collect(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s source: %w", src.Name(), err)
		}
		for id, v := range r {
			merged[id] = v
		}
	}
	return merged, nil
}

// UniformSource answers every item with the same value.
type UniformSource struct {
	Inventory *inventory.Inventory
	Value     int
}

func (s *UniformSource) Name() string { return "uniform" }

func (s *UniformSource) Collect(ctx context.Context) (scoring.Responses, error) {
	_ = ctx
	if s.Inventory == nil {
		return nil, fmt.Errorf("inventory is required")
	}
	if !s.Inventory.Scale.Contains(s.Value) {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", scoring.ErrInvalidValue, s.Value, s.Inventory.Scale.Min, s.Inventory.Scale.Max)
	}
	out := make(scoring.Responses, s.Inventory.Len())
	for _, item := range s.Inventory.Items() {
		out[item.ID] = s.Value
	}
	return out, nil
}

// MapSource serves a fixed response map, validated against the inventory.
type MapSource struct {
	Label     string
	Inventory *inventory.Inventory
	Responses scoring.Responses
}

func (s *MapSource) Name() string {
	if s.Label == "" {
		return "map"
	}
	return s.Label
}

func (s *MapSource) Collect(ctx context.Context) (scoring.Responses, error) {
	_ = ctx
	if s.Inventory != nil {
		if err := scoring.Validate(s.Inventory, s.Responses); err != nil {
			return nil, err
		}
	}
	return s.Responses.Clone(), nil
}
