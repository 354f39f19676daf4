package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/core/id"
	"talentboard/internal/domain"
	"talentboard/internal/domain/entities/adminapplicant"
	"talentboard/internal/domain/entities/applicant"
	"talentboard/internal/domain/entities/education"
	"talentboard/internal/domain/entities/jobapplication"
	"talentboard/internal/domain/entities/jobcategory"
	"talentboard/internal/domain/entities/notification"
	"talentboard/internal/domain/entities/skill"
	"talentboard/internal/domain/entities/workhistory"
	"talentboard/internal/domain/filter"
	"talentboard/pkg/logger"
)

// SeedOptions controls Seed.
type SeedOptions struct {
	AdminEmail string
	AdminName  string

	// Demo adds sample applicants with their history and applications.
	Demo bool
}

// SeedReport counts created records per entity.
type SeedReport map[string]int

// catalog is the reference data every installation starts with.
var catalog = map[string][]string{
	"Engineering": {"Go", "PostgreSQL", "Kubernetes", "TypeScript"},
	"Design":      {"Figma", "User Research", "Prototyping"},
	"Data":        {"SQL", "Python", "Statistics"},
}

// Seed creates reference data through the services in one transaction.
// Records that already exist are left alone, so running it twice is harmless.
func Seed(ctx context.Context, app *App, opts SeedOptions) (SeedReport, error) {
	var report SeedReport
	err := app.Tx.RunInTransaction(ctx, func(ctx context.Context) error {
		report = SeedReport{}
		return seed(ctx, app, opts, report)
	})
	if err != nil {
		return report, err
	}
	logger.Info(ctx, "seed finished", "created", map[string]int(report))
	return report, nil
}

func seed(ctx context.Context, app *App, opts SeedOptions, report SeedReport) error {
	categoryIDs := make(map[string]string, len(catalog))
	for name, skills := range catalog {
		cat, created, err := ensure(ctx, app.JobCategories,
			[]filter.Item{{Field: "name", Operator: filter.Equals, Value: name}},
			jobcategory.New(name))
		if err != nil {
			return fmt.Errorf("seed job category %s: %w", name, err)
		}
		report.add(jobcategory.Descriptor.Name, created)
		categoryIDs[name] = cat.ID.String()

		for _, skillName := range skills {
			_, created, err := ensure(ctx, app.Skills,
				[]filter.Item{
					{Field: "name", Operator: filter.Equals, Value: skillName},
					{Field: "jobCategoryId", Operator: filter.Equals, Value: cat.ID.String()},
				},
				skill.New(skillName, cat.ID.String()))
			if err != nil {
				return fmt.Errorf("seed skill %s: %w", skillName, err)
			}
			report.add(skill.Descriptor.Name, created)
		}
	}

	if opts.AdminEmail != "" {
		admin := adminapplicant.AdminApplicant{
			Base:     entity.NewBase(),
			Email:    opts.AdminEmail,
			FullName: opts.AdminName,
			Role:     adminapplicant.RoleSuperAdmin,
			IsActive: true,
		}
		_, created, err := ensure(ctx, app.AdminApplicants,
			[]filter.Item{{Field: "email", Operator: filter.Equals, Value: opts.AdminEmail}},
			admin)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		report.add(adminapplicant.Descriptor.Name, created)
	}

	if opts.Demo {
		return seedDemo(ctx, app, categoryIDs["Engineering"], report)
	}
	return nil
}

func seedDemo(ctx context.Context, app *App, categoryID string, report SeedReport) error {
	person := applicant.New("Ada", "Lovelace", "ada@example.com")
	person.City = "London"
	person.YearsOfExperience = decimal.RequireFromString("7.5")

	ada, created, err := ensure(ctx, app.Applicants,
		[]filter.Item{{Field: "email", Operator: filter.Equals, Value: person.Email}},
		person)
	if err != nil {
		return fmt.Errorf("seed demo applicant: %w", err)
	}
	report.add(applicant.Descriptor.Name, created)
	if !created {
		return nil
	}
	applicantID := ada.ID.String()

	gpa := decimal.RequireFromString("3.8")
	graduated := time.Date(2014, time.June, 30, 0, 0, 0, 0, time.UTC)
	if _, err := app.Educations.Create(ctx, education.Education{
		Base:         entity.NewBase(),
		ApplicantID:  applicantID,
		Institution:  "University of London",
		Degree:       "BSc",
		FieldOfStudy: "Mathematics",
		StartDate:    time.Date(2011, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &graduated,
		GPA:          &gpa,
	}); err != nil {
		return fmt.Errorf("seed demo education: %w", err)
	}
	report.add(education.Descriptor.Name, true)

	if _, err := app.WorkHistories.Create(ctx, workhistory.WorkHistory{
		Base:        entity.NewBase(),
		ApplicantID: applicantID,
		Company:     "Analytical Engines Ltd",
		Position:    "Backend Engineer",
		Description: "Payments and ledger services in Go",
		StartDate:   time.Date(2018, time.March, 1, 0, 0, 0, 0, time.UTC),
		IsCurrent:   true,
	}); err != nil {
		return fmt.Errorf("seed demo work history: %w", err)
	}
	report.add(workhistory.Descriptor.Name, true)

	if categoryID != "" {
		application := jobapplication.New(applicantID, categoryID, "Senior Go Engineer")
		salary := decimal.NewFromInt(95000)
		application.ExpectedSalary = &salary
		if _, err := app.JobApplications.Create(ctx, application); err != nil {
			return fmt.Errorf("seed demo application: %w", err)
		}
		report.add(jobapplication.Descriptor.Name, true)
	}

	if _, err := app.Notifications.Create(ctx, notification.Notification{
		Base:        entity.NewBase(),
		RecipientID: applicantID,
		Channel:     notification.ChannelEmail,
		Title:       "Application received",
		Body:        "We received your application for Senior Go Engineer.",
	}); err != nil {
		return fmt.Errorf("seed demo notification: %w", err)
	}
	report.add(notification.Descriptor.Name, true)
	return nil
}

// ensure returns the first match of items, creating e when nothing matches.
func ensure[T any](ctx context.Context, s *domain.Service[T, id.ID], items []filter.Item, e T) (T, bool, error) {
	existing, err := s.FindOne(ctx, items)
	if err == nil {
		return existing, false, nil
	}
	if !apperror.IsNotFound(err) {
		return existing, false, err
	}
	created, err := s.Create(ctx, e)
	return created, err == nil, err
}

func (r SeedReport) add(entity string, created bool) {
	if created {
		r[entity]++
	}
}
