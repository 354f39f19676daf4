// Package education provides the Education entity: one degree or course of an applicant.
package education

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
)

// maxGPA is the top of the 4-point scale.
var maxGPA = decimal.NewFromInt(4)

// Education is a degree, diploma or course completed (or in progress) by an applicant.
type Education struct {
	entity.Base

	ApplicantID  string `db:"applicant_id" json:"applicantId"`
	Institution  string `db:"institution" json:"institution"`
	Degree       string `db:"degree" json:"degree"`
	FieldOfStudy string `db:"field_of_study" json:"fieldOfStudy"`

	StartDate time.Time `db:"start_date" json:"startDate"`
	// EndDate is nil while studies are in progress
	EndDate *time.Time `db:"end_date" json:"endDate"`

	GPA *decimal.Decimal `db:"gpa" json:"gpa"`
}

// Validate implements entity.Validatable interface.
func (e *Education) Validate(ctx context.Context) error {
	if e.ApplicantID == "" {
		return apperror.NewValidation("applicant is required").
			WithDetail("field", "applicantId")
	}
	if strings.TrimSpace(e.Institution) == "" {
		return apperror.NewValidation("institution is required").
			WithDetail("field", "institution")
	}
	if e.StartDate.IsZero() {
		return apperror.NewValidation("start date is required").
			WithDetail("field", "startDate")
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return apperror.NewValidation("end date must not be before start date").
			WithDetail("field", "endDate")
	}
	if e.GPA != nil && (e.GPA.IsNegative() || e.GPA.GreaterThan(maxGPA)) {
		return apperror.NewValidation("gpa must be between 0 and 4").
			WithDetail("field", "gpa")
	}
	return nil
}

// Descriptor registers Education with the query engine.
var Descriptor = domain.Descriptor{
	Name:  "education",
	Table: "educations",
	Filter: filter.Definition{
		Fields: []filter.FieldSpec{
			filter.String("applicantId", filter.Equals, filter.In),
			filter.String("institution"),
			filter.String("degree"),
			filter.String("fieldOfStudy"),
			filter.Date("startDate"),
			filter.Date("endDate"),
			filter.Number("gpa"),
		},
		DefaultSort: []filter.SortKey{{Field: "startDate", Direction: filter.Desc}},
	},
}
