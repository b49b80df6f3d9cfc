// Package catalog holds the static farm lookup: species planted on each farm,
// the display alias and the border colour used on the map.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultBorder = "black"

type Farm struct {
	Name    string `yaml:"name"`
	Alias   string `yaml:"alias"`
	Species string `yaml:"species"`
	Border  string `yaml:"border"`
}

type Catalog struct {
	Farms []Farm `yaml:"farms"`
}

// Default is the two-farm catalogue of the Três Lagoas dataset.
func Default() Catalog {
	return Catalog{Farms: []Farm{
		{Name: "Fazenda 1", Alias: "Fazenda Pontal", Species: "Eucalyptus urophylla", Border: "#FF8000"},
		{Name: "Fazenda 2", Alias: "Fazenda Eldorado", Species: "Eucalyptus grandis", Border: "#0055FF"},
	}}
}

// Load reads a YAML catalogue. An empty path returns Default.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading farm catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Catalog{}, fmt.Errorf("parsing farm catalog %s: %w", path, err)
	}

	for i, f := range c.Farms {
		if strings.TrimSpace(f.Name) == "" {
			return Catalog{}, fmt.Errorf("farm catalog %s: entry %d has no name", path, i)
		}
	}
	return c, nil
}

func (c Catalog) find(farm string) (Farm, bool) {
	for _, f := range c.Farms {
		if f.Name == farm {
			return f, true
		}
	}
	return Farm{}, false
}

// Species returns the species planted on farm, or "" when the farm is not catalogued.
func (c Catalog) Species(farm string) string {
	f, _ := c.find(farm)
	return f.Species
}

// Border returns the map border colour for farm.
func (c Catalog) Border(farm string) string {
	if f, ok := c.find(farm); ok && f.Border != "" {
		return f.Border
	}
	return defaultBorder
}

// Alias returns the display name for farm, falling back to the farm label itself.
func (c Catalog) Alias(farm string) string {
	if f, ok := c.find(farm); ok && f.Alias != "" {
		return f.Alias
	}
	return farm
}
