package inventory

import (
	_ "embed"
	"fmt"
	"os"
	"sync"
)

//go:embed data/neo60.yml
var defaultInventoryYAML []byte

const DefaultSource = "embedded:neo60.yml"

var (
	defaultOnce sync.Once
	defaultInv  *Inventory
	defaultErr  error
)

// Default returns the embedded 60-item inventory, parsed once per process.
func Default() (*Inventory, error) {
	defaultOnce.Do(func() {
		defaultInv, defaultErr = Parse(defaultInventoryYAML, DefaultSource)
	})
	return defaultInv, defaultErr
}

// MustDefault is Default for callers that cannot recover from a broken build.
func MustDefault() *Inventory {
	inv, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded inventory invalid: %v", err))
	}
	return inv
}

// DefaultYAML returns a copy of the embedded inventory document.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultInventoryYAML))
	copy(out, defaultInventoryYAML)
	return out
}

// LoadFile loads and validates an inventory from path.
func LoadFile(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Load returns the inventory at path, or the embedded default when path is empty
// or does not exist.
func Load(path string) (*Inventory, error) {
	if path == "" {
		return Default()
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default()
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return LoadFile(path)
}
