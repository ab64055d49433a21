// Package cuts loads the table of cut definitions, embedded by default
package cuts

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ngmaloney/exuma-cuts/internal/models"
)

//go:embed cuts.yaml
var defaultTable []byte

type table struct {
	Cuts []models.CutDefinition `yaml:"cuts"`
}

// Default returns the built-in cut table
func Default() ([]models.CutDefinition, error) {
	return Parse(defaultTable)
}

// LoadFile reads a cut table from path. An empty path means the built-in table.
func LoadFile(path string) ([]models.CutDefinition, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cuts file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML cut table. IDs must be unique.
func Parse(data []byte) ([]models.CutDefinition, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse cuts: %w", err)
	}
	if len(t.Cuts) == 0 {
		return nil, fmt.Errorf("parse cuts: no cuts defined")
	}

	seen := make(map[string]bool, len(t.Cuts))
	for i := range t.Cuts {
		c := &t.Cuts[i]
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate cut id %q", c.ID)
		}
		seen[c.ID] = true
		if c.Group == "" {
			c.Group = models.GroupExuma
		}
		if !slices.Contains(Groups, c.Group) {
			return nil, fmt.Errorf("cut %s: unknown group %q", c.ID, c.Group)
		}
	}
	return t.Cuts, nil
}

// Find returns the cut with the given id
func Find(all []models.CutDefinition, id string) (models.CutDefinition, bool) {
	for _, c := range all {
		if c.ID == id {
			return c, true
		}
	}
	return models.CutDefinition{}, false
}

// GroupLabel is the section heading for a group
func GroupLabel(g models.CutGroup) string {
	switch g {
	case models.GroupExuma:
		return "Exuma Cuts"
	case models.GroupSouthern:
		return "Southern Exumas"
	case models.GroupRaggeds:
		return "Off to The Raggeds"
	}
	return string(g)
}

// Groups lists groups in display order
var Groups = []models.CutGroup{models.GroupExuma, models.GroupSouthern, models.GroupRaggeds}
