package report

import (
	"fmt"
	"time"

	"neopir/internal/guidance"
	"neopir/internal/inventory"
	"neopir/internal/scoring"
)

const SchemaVersion = 1

// Report is the persisted, self-contained rendering of one scored session.
type Report struct {
	SchemaVersion int               `json:"schema_version"`
	SessionID     string            `json:"session_id,omitempty"`
	Inventory     string            `json:"inventory"`
	GeneratedAt   string            `json:"generated_at"`
	Answered      int               `json:"answered"`
	Total         int               `json:"total"`
	Dimensions    []DimensionScore  `json:"dimensions"`
	Dominant      string            `json:"dominant,omitempty"`
	Weakest       string            `json:"weakest,omitempty"`
	Guidance      guidance.Guidance `json:"guidance"`
}

type DimensionScore struct {
	Code        string        `json:"code"`
	Name        string        `json:"name"`
	Raw         int           `json:"raw"`
	Percentile  float64       `json:"percentile"`
	Level       scoring.Level `json:"level"`
	Description string        `json:"description"`
	Facets      []FacetScore  `json:"facets"`
}

type FacetScore struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Description string `json:"description,omitempty"`
}

// Meta carries the identifying fields of a report.
type Meta struct {
	SessionID   string
	GeneratedAt time.Time
}

// Build assembles a report from a scored result. Dimensions follow canonical
// order and facets follow the inventory's declared order.
func Build(inv *inventory.Inventory, res scoring.Result, responses scoring.Responses, meta Meta) (*Report, error) {
	if inv == nil {
		return nil, fmt.Errorf("inventory is required")
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}

	answered := 0
	for _, item := range inv.Items() {
		if _, ok := responses[item.ID]; ok {
			answered++
		}
	}

	rep := &Report{
		SchemaVersion: SchemaVersion,
		SessionID:     meta.SessionID,
		Inventory:     inv.Name,
		GeneratedAt:   meta.GeneratedAt.UTC().Format(time.RFC3339),
		Answered:      answered,
		Total:         inv.Len(),
		Guidance:      guidance.For(res),
	}

	for _, d := range inventory.Dimensions() {
		in, ok := res.Interpretations[d]
		if !ok {
			in = scoring.Interpretation{Level: scoring.LevelFor(res.Percentiles[d]), Percentile: res.Percentiles[d], Description: scoring.FallbackDescription}
		}
		ds := DimensionScore{
			Code:        string(d),
			Name:        d.Name(),
			Raw:         res.Raw[d],
			Percentile:  in.Percentile,
			Level:       in.Level,
			Description: in.Description,
		}
		for _, f := range inv.Facets(d) {
			ds.Facets = append(ds.Facets, FacetScore{
				Name:        f.Name,
				Score:       res.Facets[d][f.Name],
				Description: f.Description,
			})
		}
		rep.Dimensions = append(rep.Dimensions, ds)
	}

	if d, ok := scoring.Dominant(res.Percentiles); ok {
		rep.Dominant = string(d)
	}
	if d, ok := scoring.Weakest(res.Percentiles); ok {
		rep.Weakest = string(d)
	}
	return rep, nil
}

// Dimension returns the score entry for code.
func (r *Report) Dimension(code string) (DimensionScore, bool) {
	for _, d := range r.Dimensions {
		if d.Code == code {
			return d, true
		}
	}
	return DimensionScore{}, false
}

// Percentiles returns the report's percentiles keyed by dimension.
func (r *Report) Percentiles() map[inventory.Dimension]float64 {
	out := make(map[inventory.Dimension]float64, len(r.Dimensions))
	for _, d := range r.Dimensions {
		out[inventory.Dimension(d.Code)] = d.Percentile
	}
	return out
}
