// Package guidance derives advice from a scored result: strengths, areas for
// development, career orientation, relationship tips and development
// suggestions. All lookups are pure and follow canonical dimension order.
package guidance

import (
	"fmt"

	"neopir/internal/inventory"
	"neopir/internal/scoring"
)

// Entry is one piece of advice tied to a dimension and level.
type Entry struct {
	Dimension inventory.Dimension `json:"dimension"`
	Level     scoring.Level       `json:"level"`
	Text      string              `json:"text"`
}

// Guidance is the full set of advice for one result.
type Guidance struct {
	Summary                []string `json:"summary"`
	Strengths              []Entry  `json:"strengths"`
	DevelopmentAreas       []Entry  `json:"development_areas"`
	Careers                []Entry  `json:"careers"`
	RelationshipTips       []Entry  `json:"relationship_tips"`
	DevelopmentSuggestions []Entry  `json:"development_suggestions"`
}

type key struct {
	dim   inventory.Dimension
	level scoring.Level
}

var strengths = map[key]string{
	{inventory.Extraversion, scoring.LevelHigh}:      "Ease in social relationships and communication",
	{inventory.Openness, scoring.LevelHigh}:          "Creativity and adaptability to new situations",
	{inventory.Agreeableness, scoring.LevelHigh}:     "Empathy and the ability to cooperate",
	{inventory.Conscientiousness, scoring.LevelHigh}: "Organization, reliability and perseverance",
	{inventory.Neuroticism, scoring.LevelLow}:        "Emotional stability and resistance to stress",
}

var developmentAreas = map[key]string{
	{inventory.Neuroticism, scoring.LevelHigh}:      "Managing stress and negative emotions",
	{inventory.Extraversion, scoring.LevelLow}:      "Comfort in social situations and with self-expression",
	{inventory.Openness, scoring.LevelLow}:          "Openness to new ideas and experiences",
	{inventory.Agreeableness, scoring.LevelLow}:     "Cooperation and consideration for others",
	{inventory.Conscientiousness, scoring.LevelLow}: "Organization and follow-through on commitments",
}

var careers = map[key]string{
	{inventory.Neuroticism, scoring.LevelHigh}:       "Calm, structured environments with predictable demands, such as research, archiving or technical writing.",
	{inventory.Neuroticism, scoring.LevelLow}:        "High-pressure roles such as emergency services, management or negotiation.",
	{inventory.Extraversion, scoring.LevelHigh}:      "People-facing roles such as sales, teaching, public relations or event management.",
	{inventory.Extraversion, scoring.LevelLow}:       "Independent work such as programming, research, writing or data analysis.",
	{inventory.Openness, scoring.LevelHigh}:          "Creative and exploratory fields such as design, research, the arts or innovation.",
	{inventory.Openness, scoring.LevelLow}:           "Roles built on proven methods such as accounting, administration or operations.",
	{inventory.Agreeableness, scoring.LevelHigh}:     "Helping professions such as healthcare, social work, counselling or human resources.",
	{inventory.Agreeableness, scoring.LevelLow}:      "Competitive or analytical roles such as law, finance, auditing or trading.",
	{inventory.Conscientiousness, scoring.LevelHigh}: "Roles demanding rigour such as project management, engineering, medicine or finance.",
	{inventory.Conscientiousness, scoring.LevelLow}:  "Flexible, fast-moving environments such as start-ups, journalism or the creative industries.",
}

var relationshipTips = map[key]string{
	{inventory.Extraversion, scoring.LevelHigh}:  "Leave room for quieter people to speak and listen as much as you talk.",
	{inventory.Extraversion, scoring.LevelLow}:   "Tell those close to you that you need time alone so they do not read it as distance.",
	{inventory.Agreeableness, scoring.LevelHigh}: "Learn to say no and to state your own needs without guilt.",
	{inventory.Agreeableness, scoring.LevelLow}:  "Soften criticism and acknowledge the other person's point of view before disagreeing.",
	{inventory.Neuroticism, scoring.LevelHigh}:   "Share your worries with people you trust rather than keeping them to yourself.",
}

var developmentSuggestions = map[key]string{
	{inventory.Neuroticism, scoring.LevelHigh}:      "Practise meditation or relaxation techniques to manage stress.",
	{inventory.Extraversion, scoring.LevelLow}:      "Set yourself progressive social goals, such as joining one group activity a month.",
	{inventory.Openness, scoring.LevelLow}:          "Try a new creative or cultural activity every month.",
	{inventory.Agreeableness, scoring.LevelLow}:     "Work on active listening and on putting yourself in others' shoes.",
	{inventory.Conscientiousness, scoring.LevelLow}: "Use organization tools such as to-do lists, calendars and routines.",
}

// For computes guidance for res.
func For(res scoring.Result) Guidance {
	var g Guidance
	for _, d := range inventory.Dimensions() {
		in, ok := res.Interpretations[d]
		if !ok {
			continue
		}
		k := key{d, in.Level}
		g.Strengths = appendIf(g.Strengths, strengths, k)
		g.DevelopmentAreas = appendIf(g.DevelopmentAreas, developmentAreas, k)
		g.Careers = appendIf(g.Careers, careers, k)
		g.RelationshipTips = appendIf(g.RelationshipTips, relationshipTips, k)
		g.DevelopmentSuggestions = appendIf(g.DevelopmentSuggestions, developmentSuggestions, k)
	}
	g.Summary = Summary(res.Percentiles)
	return g
}

// Summary describes the most and least pronounced dimensions.
func Summary(percentiles map[inventory.Dimension]float64) []string {
	var out []string
	if d, ok := scoring.Dominant(percentiles); ok {
		out = append(out, fmt.Sprintf("Your most pronounced trait is %s (%.0f%%).", d.Name(), percentiles[d]))
	}
	if d, ok := scoring.Weakest(percentiles); ok {
		out = append(out, fmt.Sprintf("Your least pronounced trait is %s (%.0f%%).", d.Name(), percentiles[d]))
	}
	return out
}

func appendIf(list []Entry, table map[key]string, k key) []Entry {
	text, ok := table[k]
	if !ok {
		return list
	}
	return append(list, Entry{Dimension: k.dim, Level: k.level, Text: text})
}
