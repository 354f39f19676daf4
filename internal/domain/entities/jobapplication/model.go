// Package jobapplication provides the JobApplication entity: an applicant applying for a position.
package jobapplication

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

// Status is the stage of an application.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusReviewing Status = "reviewing"
	StatusInterview Status = "interview"
	StatusOffered   Status = "offered"
	StatusHired     Status = "hired"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusReviewing, StatusInterview, StatusOffered,
		StatusHired, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// JobApplication links an applicant to a position in a job category.
type JobApplication struct {
	entity.Base
	entity.SoftDeletable

	ApplicantID   string `db:"applicant_id" json:"applicantId"`
	JobCategoryID string `db:"job_category_id" json:"jobCategoryId"`
	JobTitle      string `db:"job_title" json:"jobTitle"`
	Status        Status `db:"status" json:"status"`
	CoverLetter   string `db:"cover_letter" json:"coverLetter"`

	AppliedAt      time.Time        `db:"applied_at" json:"appliedAt"`
	ExpectedSalary *decimal.Decimal `db:"expected_salary" json:"expectedSalary"`
}

// New creates an application in the applied status.
func New(applicantID, jobCategoryID, jobTitle string) JobApplication {
	base := entity.NewBase()
	return JobApplication{
		Base:          base,
		ApplicantID:   applicantID,
		JobCategoryID: jobCategoryID,
		JobTitle:      jobTitle,
		Status:        StatusApplied,
		AppliedAt:     base.CreatedAt,
	}
}

// Validate implements entity.Validatable interface.
func (a *JobApplication) Validate(ctx context.Context) error {
	if a.ApplicantID == "" {
		return apperror.NewValidation("applicant is required").
			WithDetail("field", "applicantId")
	}
	if a.JobCategoryID == "" {
		return apperror.NewValidation("job category is required").
			WithDetail("field", "jobCategoryId")
	}
	if strings.TrimSpace(a.JobTitle) == "" {
		return apperror.NewValidation("job title is required").
			WithDetail("field", "jobTitle")
	}
	if !a.Status.Valid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", a.Status)
	}
	if a.AppliedAt.IsZero() {
		return apperror.NewValidation("applied at is required").
			WithDetail("field", "appliedAt")
	}
	if a.ExpectedSalary != nil && a.ExpectedSalary.IsNegative() {
		return apperror.NewValidation("expected salary cannot be negative").
			WithDetail("field", "expectedSalary")
	}
	return nil
}

// Descriptor registers JobApplication with the query engine.
var Descriptor = domain.Descriptor{
	Name:  "jobApplication",
	Table: "job_applications",
	Filter: filter.Definition{
		Fields: []filter.FieldSpec{
			filter.String("applicantId", filter.Equals, filter.In),
			filter.String("jobCategoryId", filter.Equals, filter.In),
			filter.String("jobTitle"),
			filter.String("status", filter.Equals, filter.In),
			filter.String("coverLetter", filter.Contains).FilterOnly(),
			filter.Date("appliedAt"),
			filter.Number("expectedSalary"),
		},
		InternalFields: []string{entity.SoftDeleteField},
		DefaultFilter:  []filter.Item{{Field: entity.SoftDeleteField, Operator: filter.Equals, Value: false}},
		DefaultSort:    []filter.SortKey{{Field: "appliedAt", Direction: filter.Desc}},
	},
	SoftDelete: true,
}
