// Package applicant provides the Applicant entity: a job seeker profile.
package applicant

import (
	"context"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
)

// Applicant is a job seeker.
type Applicant struct {
	entity.Base
	entity.SoftDeletable

	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`
	City      string `db:"city" json:"city"`

	// YearsOfExperience may be fractional (e.g. 2.5)
	YearsOfExperience decimal.Decimal `db:"years_of_experience" json:"yearsOfExperience"`

	IsOpenToWork bool `db:"is_open_to_work" json:"isOpenToWork"`
}

// New creates an Applicant open to work.
func New(firstName, lastName, email string) Applicant {
	return Applicant{
		Base:         entity.NewBase(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		IsOpenToWork: true,
	}
}

// Validate implements entity.Validatable interface.
func (a *Applicant) Validate(ctx context.Context) error {
	if strings.TrimSpace(a.FirstName) == "" {
		return apperror.NewValidation("first name is required").
			WithDetail("field", "firstName")
	}
	if strings.TrimSpace(a.LastName) == "" {
		return apperror.NewValidation("last name is required").
			WithDetail("field", "lastName")
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return apperror.NewValidation("email is invalid").
			WithDetail("field", "email").
			WithDetail("value", a.Email)
	}
	if a.YearsOfExperience.IsNegative() {
		return apperror.NewValidation("years of experience cannot be negative").
			WithDetail("field", "yearsOfExperience")
	}
	return nil
}

// Descriptor registers Applicant with the query engine.
var Descriptor = domain.Descriptor{
	Name:  "applicant",
	Table: "applicants",
	Filter: filter.Definition{
		Fields: []filter.FieldSpec{
			filter.String("firstName"),
			filter.String("lastName"),
			filter.String("email", filter.Equals, filter.Contains),
			filter.String("phone", filter.Equals).FilterOnly(),
			filter.String("city"),
			filter.Number("yearsOfExperience"),
			filter.Boolean("isOpenToWork"),
			filter.Date("createdAt"),
		},
		InternalFields: []string{entity.SoftDeleteField},
		DefaultFilter:  []filter.Item{{Field: entity.SoftDeleteField, Operator: filter.Equals, Value: false}},
		DefaultSort:    []filter.SortKey{{Field: "createdAt", Direction: filter.Desc}},
	},
	SoftDelete: true,
	Unique:     [][]string{{"email"}},
}
