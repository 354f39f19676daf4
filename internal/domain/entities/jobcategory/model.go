// Package jobcategory provides the JobCategory entity.
package jobcategory

import (
	"context"
	"strings"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
)

// JobCategory groups job applications and skills (e.g. "Backend Engineering").
type JobCategory struct {
	entity.Base

	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	IsActive    bool   `db:"is_active" json:"isActive"`
}

// New creates an active JobCategory.
func New(name string) JobCategory {
	return JobCategory{
		Base:     entity.NewBase(),
		Name:     name,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (c *JobCategory) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if len(c.Name) > 120 {
		return apperror.NewValidation("name must be at most 120 characters").
			WithDetail("field", "name")
	}
	return nil
}

// Descriptor registers JobCategory with the query engine.
var Descriptor = domain.Descriptor{
	Name:  "jobCategory",
	Table: "job_categories",
	Filter: filter.Definition{
		Fields: []filter.FieldSpec{
			filter.String("name"),
			filter.String("description", filter.Contains).FilterOnly(),
			filter.Boolean("isActive"),
			filter.Date("createdAt"),
		},
		DefaultSort: []filter.SortKey{{Field: "name", Direction: filter.Asc}},
	},
	Unique: [][]string{{"name"}},
}
