// Package workhistory provides the WorkHistory entity: one past or current position of an applicant.
package workhistory

import (
	"context"
	"strings"
	"time"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
)

// WorkHistory is a position held by an applicant.
type WorkHistory struct {
	entity.Base

	ApplicantID string `db:"applicant_id" json:"applicantId"`
	Company     string `db:"company" json:"company"`
	Position    string `db:"position" json:"position"`
	Description string `db:"description" json:"description"`

	StartDate time.Time  `db:"start_date" json:"startDate"`
	EndDate   *time.Time `db:"end_date" json:"endDate"`
	IsCurrent bool       `db:"is_current" json:"isCurrent"`
}

// Validate implements entity.Validatable interface.
func (w *WorkHistory) Validate(ctx context.Context) error {
	if w.ApplicantID == "" {
		return apperror.NewValidation("applicant is required").
			WithDetail("field", "applicantId")
	}
	if strings.TrimSpace(w.Company) == "" {
		return apperror.NewValidation("company is required").
			WithDetail("field", "company")
	}
	if strings.TrimSpace(w.Position) == "" {
		return apperror.NewValidation("position is required").
			WithDetail("field", "position")
	}
	if w.StartDate.IsZero() {
		return apperror.NewValidation("start date is required").
			WithDetail("field", "startDate")
	}

	// A current position has no end date, a past one must have it
	if w.IsCurrent && w.EndDate != nil {
		return apperror.NewValidation("current position cannot have an end date").
			WithDetail("field", "endDate")
	}
	if !w.IsCurrent && w.EndDate == nil {
		return apperror.NewValidation("end date is required for a past position").
			WithDetail("field", "endDate")
	}
	if w.EndDate != nil && w.EndDate.Before(w.StartDate) {
		return apperror.NewValidation("end date must not be before start date").
			WithDetail("field", "endDate")
	}
	return nil
}

// Descriptor registers WorkHistory with the query engine.
var Descriptor = domain.Descriptor{
	Name:  "workHistory",
	Table: "work_histories",
	Filter: filter.Definition{
		Fields: []filter.FieldSpec{
			filter.String("applicantId", filter.Equals, filter.In),
			filter.String("company"),
			filter.String("position"),
			filter.String("description", filter.Contains).FilterOnly(),
			filter.Date("startDate"),
			filter.Date("endDate"),
			filter.Boolean("isCurrent"),
		},
		DefaultSort: []filter.SortKey{{Field: "startDate", Direction: filter.Desc}},
	},
}
