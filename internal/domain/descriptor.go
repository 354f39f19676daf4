package domain

import (
	"fmt"

	"talentboard/internal/domain/filter"
)

// Descriptor is the static description of one entity kind: its name, where
// it is stored and what clients may filter and sort on. Per-entity behavior
// is data; there is one generic repository and service for all of them.
type Descriptor struct {
	// Name is the registry key and the URL segment (e.g. "jobApplication").
	Name string

	// Table is the postgres table.
	Table string

	// Filter is the compiled-in filter definition. A declarations file may
	// replace it at startup.
	Filter filter.Definition

	// SoftDelete enables archive instead of only physical removal.
	SoftDelete bool

	// Unique lists json field sets whose combined values must be unique.
	Unique [][]string
}

// Build validates the compiled-in filter definition.
func (d Descriptor) Build() (*filter.Config, error) {
	cfg, err := filter.NewConfig(d.Name, d.Filter)
	if err != nil {
		return nil, fmt.Errorf("build filter config: %w", err)
	}
	return cfg, nil
}
