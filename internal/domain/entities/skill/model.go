// Package skill provides the Skill entity: a named competence inside a job category.
package skill

import (
	"context"
	"strings"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
)

// Skill is a competence applicants can list, grouped by job category.
type Skill struct {
	entity.Base

	Name          string `db:"name" json:"name"`
	JobCategoryID string `db:"job_category_id" json:"jobCategoryId"`

	// IsActive hides retired skills from every list.
	IsActive bool `db:"is_active" json:"isActive"`
}

// New creates an active Skill.
func New(name, jobCategoryID string) Skill {
	return Skill{
		Base:          entity.NewBase(),
		Name:          name,
		JobCategoryID: jobCategoryID,
		IsActive:      true,
	}
}

// Validate implements entity.Validatable interface.
func (s *Skill) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if s.JobCategoryID == "" {
		return apperror.NewValidation("job category is required").
			WithDetail("field", "jobCategoryId")
	}
	return nil
}

// Descriptor registers Skill with the query engine.
var Descriptor = domain.Descriptor{
	Name:  "skill",
	Table: "skills",
	Filter: filter.Definition{
		Fields: []filter.FieldSpec{
			filter.String("name"),
			filter.String("jobCategoryId", filter.Equals),
			filter.Boolean("isActive", filter.Equals),
			filter.Date("createdAt"),
		},
		DefaultFilter: []filter.Item{{Field: "isActive", Operator: filter.Equals, Value: true}},
		DefaultSort:   []filter.SortKey{{Field: "name", Direction: filter.Asc}},
	},
	Unique: [][]string{{"jobCategoryId", "name"}},
}
