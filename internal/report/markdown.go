package report

import (
	"fmt"
	"strings"

	"neopir/internal/guidance"
)

// Markdown renders r as a human-readable document.
func Markdown(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Personality profile\n\n")
	if r.SessionID != "" {
		fmt.Fprintf(&b, "- Session: `%s`\n", r.SessionID)
	}
	fmt.Fprintf(&b, "- Inventory: %s\n", r.Inventory)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt)
	fmt.Fprintf(&b, "- Answered: %d/%d\n\n", r.Answered, r.Total)

	b.WriteString("## Scores\n\n")
	b.WriteString("| Dimension | Raw | Percentile | Level |\n")
	b.WriteString("|---|---:|---:|---|\n")
	for _, d := range r.Dimensions {
		fmt.Fprintf(&b, "| %s | %d | %.1f | %s |\n", d.Name, d.Raw, d.Percentile, d.Level)
	}
	b.WriteString("\n")

	if len(r.Guidance.Summary) > 0 {
		b.WriteString("## Summary\n\n")
		for _, line := range r.Guidance.Summary {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	for _, d := range r.Dimensions {
		fmt.Fprintf(&b, "## %s (%s)\n\n%s\n\n", d.Name, d.Level, d.Description)
		for _, f := range d.Facets {
			fmt.Fprintf(&b, "- **%s**: %d", f.Name, f.Score)
			if f.Description != "" {
				fmt.Fprintf(&b, " (%s)", f.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeEntries(&b, "Strengths", r.Guidance.Strengths)
	writeEntries(&b, "Areas for development", r.Guidance.DevelopmentAreas)
	writeEntries(&b, "Career orientation", r.Guidance.Careers)
	writeEntries(&b, "Relationships", r.Guidance.RelationshipTips)
	writeEntries(&b, "Personal development", r.Guidance.DevelopmentSuggestions)

	b.WriteString("---\n\nPercentiles are a linear transform of raw scores, not normed population percentiles.\n")
	return b.String()
}

func writeEntries(b *strings.Builder, title string, entries []guidance.Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, e := range entries {
		fmt.Fprintf(b, "- %s: %s\n", e.Dimension.Name(), e.Text)
	}
	b.WriteString("\n")
}
