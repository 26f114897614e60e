// Package config loads the network presentation config: how the feed's
// routes are grouped, named, and linked on the dashboard. This is
// operator-curated data that does not exist in the GTFS feed itself.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Category is a rider-facing grouping of lines (urban, peri-urban,
// on-demand and so on).
type Category struct {
	ID    string   `yaml:"id" validate:"required"`
	Name  string   `yaml:"name" validate:"required"`
	Color string   `yaml:"color" validate:"omitempty,hexcolor"`
	Lines []string `yaml:"lines" validate:"required,min=1"`
}

// Network is the full presentation config.
type Network struct {
	Categories []Category `yaml:"categories" validate:"dive"`

	// Feed long names that should be overridden on the dashboard,
	// keyed by route short name.
	LongNameOverrides map[string]string `yaml:"longNameOverrides"`

	// Published timetable PDFs, keyed by route short name.
	TimetablePDFs map[string]string `yaml:"timetablePDFs" validate:"omitempty,dive,url"`
}

// LoadNetwork reads and validates the network config file. A missing
// path yields an empty config: the dashboard works without curation,
// just with less polish.
func LoadNetwork(path string) (*Network, error) {
	if path == "" {
		return &Network{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading network config: %w", err)
	}

	var network Network
	if err := yaml.Unmarshal(data, &network); err != nil {
		return nil, fmt.Errorf("error parsing network config: %w", err)
	}

	v := validator.New()
	if err := v.Struct(network); err != nil {
		return nil, fmt.Errorf("invalid network config: %w", err)
	}

	seen := make(map[string]bool)
	for _, c := range network.Categories {
		if seen[c.ID] {
			return nil, fmt.Errorf("invalid network config: duplicate category %q", c.ID)
		}
		seen[c.ID] = true
	}

	return &network, nil
}

// CategoryFor returns the category containing the given route short
// name, or nil.
func (n *Network) CategoryFor(shortName string) *Category {
	for i := range n.Categories {
		for _, line := range n.Categories[i].Lines {
			if strings.EqualFold(line, shortName) {
				return &n.Categories[i]
			}
		}
	}
	return nil
}

// LongName returns the curated long name for a route, falling back to
// the feed's own value.
func (n *Network) LongName(shortName, feedLongName string) string {
	if override, ok := n.LongNameOverrides[shortName]; ok {
		return override
	}
	return feedLongName
}

// TimetableURL returns the published timetable PDF for a route, or "".
func (n *Network) TimetableURL(shortName string) string {
	return n.TimetablePDFs[shortName]
}
