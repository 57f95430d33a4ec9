package report

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"neopir/internal/scoring"
)

// Delta is the change of one dimension between two reports.
type Delta struct {
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	From      float64       `json:"from"`
	To        float64       `json:"to"`
	Change    float64       `json:"change"`
	FromLevel scoring.Level `json:"from_level"`
	ToLevel   scoring.Level `json:"to_level"`
}

// LevelChanged reports whether the interpretation band moved.
func (d Delta) LevelChanged() bool {
	return d.FromLevel != d.ToLevel
}

// Compare lists per-dimension changes from a to b in a's dimension order.
func Compare(a, b *Report) []Delta {
	var out []Delta
	for _, da := range a.Dimensions {
		db, ok := b.Dimension(da.Code)
		if !ok {
			continue
		}
		out = append(out, Delta{
			Code:      da.Code,
			Name:      da.Name,
			From:      da.Percentile,
			To:        db.Percentile,
			Change:    db.Percentile - da.Percentile,
			FromLevel: da.Level,
			ToLevel:   db.Level,
		})
	}
	return out
}

// Diff renders a unified diff between the markdown of two reports. An empty
// string means they render identically.
func Diff(a, b *Report, fromName, toName string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(Markdown(a)),
		B:        difflib.SplitLines(Markdown(b)),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff reports: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}
