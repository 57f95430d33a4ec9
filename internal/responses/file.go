package responses

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"neopir/internal/inventory"
	"neopir/internal/scoring"
)

// FileSource reads answers from a YAML or JSON file. Two shapes are accepted:
// a `responses:` mapping or a top-level mapping of item id to value.
type FileSource struct {
	Path      string
	Inventory *inventory.Inventory
}

func (s *FileSource) Name() string { return "file" }

type responsesFile struct {
	Responses map[string]int `yaml:"responses"`
}

func (s *FileSource) Collect(ctx context.Context) (scoring.Responses, error) {
	_ = ctx
	if s.Path == "" {
		return nil, fmt.Errorf("responses file path is required")
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read responses: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	if s.Inventory != nil {
		if err := scoring.Validate(s.Inventory, r); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Path, err)
		}
	}
	return r, nil
}

const shapeMessage = "responses file must contain a `responses:` mapping or a top-level mapping of item ids to values"

// Parse decodes a responses document without validating it.
func Parse(data []byte) (scoring.Responses, error) {
	var file responsesFile
	err := yaml.Unmarshal(data, &file)
	if err == nil && file.Responses != nil {
		return scoring.Responses(file.Responses), nil
	}
	if err == nil {
		var flat map[string]int
		if err = yaml.Unmarshal(data, &flat); err == nil && flat != nil {
			return scoring.Responses(flat), nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", shapeMessage, err)
	}
	return nil, errors.New(shapeMessage)
}

// WriteFile stores responses under a `responses:` key.
func WriteFile(path string, r scoring.Responses) error {
	data, err := yaml.Marshal(responsesFile{Responses: r})
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure responses dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write responses: %w", err)
	}
	return nil
}
