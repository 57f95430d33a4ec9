package inventory

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type rawDocument struct {
	Name       string         `yaml:"name"`
	Scale      rawScale       `yaml:"scale"`
	Dimensions []rawDimension `yaml:"dimensions"`
	Items      []rawItem      `yaml:"items"`
}

type rawScale struct {
	Min    *int     `yaml:"min"`
	Max    *int     `yaml:"max"`
	Labels []string `yaml:"labels"`
}

type rawDimension struct {
	Code   string     `yaml:"code"`
	Name   string     `yaml:"name"`
	Facets []rawFacet `yaml:"facets"`
}

type rawFacet struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type rawItem struct {
	ID        string `yaml:"id"`
	Text      string `yaml:"text"`
	Dimension string `yaml:"dimension"`
	Facet     string `yaml:"facet"`
	Reverse   bool   `yaml:"reverse"`
}

// ValidationError captures a single field-specific validation issue.
type ValidationError struct {
	File    string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
}

// ValidationErrors aggregates multiple validation problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

// Parse unmarshals and validates a YAML inventory document.
func Parse(data []byte, source string) (*Inventory, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}
	return validateRawDocument(raw, source)
}

func validateRawDocument(raw rawDocument, source string) (*Inventory, error) {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{File: source, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = "default"
	}

	scale := Scale{Min: 1, Max: 5}
	if raw.Scale.Min != nil {
		scale.Min = *raw.Scale.Min
	}
	if raw.Scale.Max != nil {
		scale.Max = *raw.Scale.Max
	}
	if scale.Min >= scale.Max {
		add("scale", "min (%d) must be below max (%d)", scale.Min, scale.Max)
	} else if scale.Min+scale.Max != 6 {
		// reverse keying is defined as 6 - v
		add("scale", "reverse keying requires min+max == 6, got %d..%d", scale.Min, scale.Max)
	}
	if len(raw.Scale.Labels) > 0 {
		if want := scale.Max - scale.Min + 1; len(raw.Scale.Labels) != want {
			add("scale.labels", "expected %d labels, got %d", want, len(raw.Scale.Labels))
		}
		for i, l := range raw.Scale.Labels {
			scale.Labels = append(scale.Labels, strings.TrimSpace(l))
			if strings.TrimSpace(l) == "" {
				add(fmt.Sprintf("scale.labels[%d]", i), "label must not be empty")
			}
		}
	}

	facets := make(map[Dimension][]Facet)
	for idx, rd := range raw.Dimensions {
		path := fmt.Sprintf("dimensions[%d]", idx)
		code := Dimension(strings.TrimSpace(rd.Code))
		if !code.Valid() {
			add(path+".code", "unknown dimension %q", rd.Code)
			continue
		}
		if _, dup := facets[code]; dup {
			add(path+".code", "duplicate dimension %q", code)
			continue
		}
		if strings.TrimSpace(rd.Name) != "" && strings.TrimSpace(rd.Name) != code.Name() {
			add(path+".name", "dimension %s must be named %q", code, code.Name())
		}
		if len(rd.Facets) != FacetsPerDimension {
			add(path+".facets", "expected %d facets, got %d", FacetsPerDimension, len(rd.Facets))
		}
		seen := make(map[string]struct{})
		list := make([]Facet, 0, len(rd.Facets))
		for fIdx, rf := range rd.Facets {
			fPath := fmt.Sprintf("%s.facets[%d]", path, fIdx)
			fname := strings.TrimSpace(rf.Name)
			if fname == "" {
				add(fPath+".name", "facet name is required")
				continue
			}
			if _, dup := seen[fname]; dup {
				add(fPath+".name", "duplicate facet %q", fname)
				continue
			}
			seen[fname] = struct{}{}
			list = append(list, Facet{Name: fname, Description: strings.TrimSpace(rf.Description)})
		}
		facets[code] = list
	}
	for _, d := range canonicalOrder {
		if _, ok := facets[d]; !ok {
			add("dimensions", "missing dimension %s", d)
		}
	}

	type facetKey struct {
		dim   Dimension
		facet string
	}
	type keying struct{ forward, reverse int }
	perFacet := make(map[facetKey]*keying)
	perDim := make(map[Dimension]int)
	byID := make(map[string]int)
	items := make([]Item, 0, len(raw.Items))

	for idx, ri := range raw.Items {
		path := fmt.Sprintf("items[%d]", idx)
		item := Item{
			ID:        strings.TrimSpace(ri.ID),
			Text:      strings.TrimSpace(ri.Text),
			Dimension: Dimension(strings.TrimSpace(ri.Dimension)),
			Facet:     strings.TrimSpace(ri.Facet),
			Reverse:   ri.Reverse,
		}
		ok := true
		if item.ID == "" {
			add(path+".id", "id is required")
			ok = false
		} else if _, dup := byID[item.ID]; dup {
			add(path+".id", "duplicate item id %q", item.ID)
			ok = false
		}
		if item.Text == "" {
			add(path+".text", "text is required")
		}
		if !item.Dimension.Valid() {
			add(path+".dimension", "unknown dimension %q", ri.Dimension)
			ok = false
		} else if _, declared := facetIndex(facets[item.Dimension], item.Facet); !declared {
			add(path+".facet", "facet %q is not declared for dimension %s", item.Facet, item.Dimension)
			ok = false
		}
		if !ok {
			continue
		}
		byID[item.ID] = len(items)
		items = append(items, item)
		perDim[item.Dimension]++
		k := facetKey{item.Dimension, item.Facet}
		if perFacet[k] == nil {
			perFacet[k] = &keying{}
		}
		if item.Reverse {
			perFacet[k].reverse++
		} else {
			perFacet[k].forward++
		}
	}

	for _, d := range canonicalOrder {
		if _, declared := facets[d]; !declared {
			continue
		}
		if perDim[d] != ItemsPerDimension {
			add("items", "dimension %s has %d items, expected %d", d, perDim[d], ItemsPerDimension)
		}
		for _, f := range facets[d] {
			k := perFacet[facetKey{d, f.Name}]
			if k == nil {
				add("items", "facet %s/%s has no items", d, f.Name)
				continue
			}
			if k.forward != 1 || k.reverse != 1 {
				add("items", "facet %s/%s needs one forward and one reverse item, got %d forward and %d reverse", d, f.Name, k.forward, k.reverse)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &Inventory{
		Name:   name,
		Scale:  scale,
		Source: source,
		items:  items,
		byID:   byID,
		facets: facets,
	}, nil
}

func facetIndex(list []Facet, name string) (int, bool) {
	for i, f := range list {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}
