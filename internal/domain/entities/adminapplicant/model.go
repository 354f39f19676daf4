// Package adminapplicant provides the AdminApplicant entity: a back-office
// account that reviews applicants.
package adminapplicant

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
)

// Role is the back-office permission level.
type Role string

const (
	RoleReviewer   Role = "reviewer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// AdminApplicant is a back-office account.
type AdminApplicant struct {
	entity.Base
	entity.SoftDeletable

	Email       string     `db:"email" json:"email"`
	FullName    string     `db:"full_name" json:"fullName"`
	Role        Role       `db:"role" json:"role"`
	IsActive    bool       `db:"is_active" json:"isActive"`
	LastLoginAt *time.Time `db:"last_login_at" json:"lastLoginAt"`
}

// Validate implements entity.Validatable interface.
func (a *AdminApplicant) Validate(ctx context.Context) error {
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return apperror.NewValidation("email is invalid").
			WithDetail("field", "email").
			WithDetail("value", a.Email)
	}
	if strings.TrimSpace(a.FullName) == "" {
		return apperror.NewValidation("full name is required").
			WithDetail("field", "fullName")
	}
	switch a.Role {
	case RoleReviewer, RoleAdmin, RoleSuperAdmin:
	default:
		return apperror.NewValidation("unknown role").
			WithDetail("field", "role").
			WithDetail("value", a.Role)
	}
	return nil
}

// Descriptor registers AdminApplicant with the query engine.
var Descriptor = domain.Descriptor{
	Name:  "adminApplicant",
	Table: "admin_applicants",
	Filter: filter.Definition{
		Fields: []filter.FieldSpec{
			filter.String("email", filter.Equals, filter.Contains),
			filter.String("fullName"),
			filter.String("role", filter.Equals, filter.In),
			filter.Boolean("isActive"),
			filter.Date("lastLoginAt"),
			filter.Date("createdAt"),
		},
		InternalFields: []string{entity.SoftDeleteField},
		DefaultFilter:  []filter.Item{{Field: entity.SoftDeleteField, Operator: filter.Equals, Value: false}},
		DefaultSort:    []filter.SortKey{{Field: "fullName", Direction: filter.Asc}},
	},
	SoftDelete: true,
	Unique:     [][]string{{"email"}},
}
