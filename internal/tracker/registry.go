// Package tracker implements the file-backed tracker store: a directory of
// section-structured markdown documents addressed by short tags.
package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/thought-capture/internal/types"
)

// Registry is the parsed crossref file mapping tracker tags to documents.
type Registry struct {
	Trackers []types.RegistryEntry `json:"trackers"`
}

// LoadRegistry reads and parses the crossref file. Relative tracker paths
// are resolved against the crossref file's directory. Entries that fail
// validation are dropped, not fatal.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read crossref file %s: %w", path, err)
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse crossref JSON: %w", err)
	}

	base := filepath.Dir(path)
	valid := make([]types.RegistryEntry, 0, len(reg.Trackers))
	seen := make(map[string]bool)
	for _, entry := range reg.Trackers {
		if err := entry.Validate(); err != nil {
			continue
		}
		if seen[entry.Tag] {
			// Tags are unique across the store; first entry wins.
			continue
		}
		seen[entry.Tag] = true
		if !filepath.IsAbs(entry.Path) {
			entry.Path = filepath.Join(base, entry.Path)
		}
		valid = append(valid, entry)
	}
	reg.Trackers = valid

	return &reg, nil
}
