// Package bootstrap assembles the stores, services and HTTP router from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"talentboard/internal/config"
	"talentboard/internal/core/id"
	"talentboard/internal/core/tx"
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
	v1 "talentboard/internal/infrastructure/http/v1"
	"talentboard/internal/infrastructure/http/v1/handlers"
	"talentboard/internal/infrastructure/storage/postgres"
	"talentboard/pkg/logger"
)

// Version is reported by /health/info.
var Version = "dev"

// App holds everything the server and the tools need.
type App struct {
	cfg      *config.Config
	log      *logger.Logger
	Pool     *postgres.Pool // nil with the memory store
	Registry *filter.Registry
	Tx       tx.Manager

	Applicants      *domain.Service[applicant.Applicant, id.ID]
	JobCategories   *domain.Service[jobcategory.JobCategory, id.ID]
	Skills          *domain.Service[skill.Skill, id.ID]
	Educations      *domain.Service[education.Education, id.ID]
	WorkHistories   *domain.Service[workhistory.WorkHistory, id.ID]
	JobApplications *domain.Service[jobapplication.JobApplication, id.ID]
	Notifications   *domain.Service[notification.Notification, id.ID]
	AdminApplicants *domain.Service[adminapplicant.AdminApplicant, id.ID]

	handlers []v1.EntityRouteHandler
}

// New connects the store and builds every entity. The filter registry is
// frozen before New returns.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	app := &App{
		cfg:      cfg,
		log:      log,
		Registry: filter.NewRegistry(),
		Tx:       tx.Direct{},
	}

	m := &mounter{
		driver:   cfg.Store.Driver,
		registry: app.Registry,
		base:     handlers.NewBaseHandler(),
	}

	if cfg.Filters.Path != "" {
		decls, err := filter.LoadDeclarations(cfg.Filters.Path)
		if err != nil {
			return nil, err
		}
		m.decls = decls
		log.Infow("filter declarations loaded", "path", cfg.Filters.Path, "entities", len(decls))
	}

	if cfg.Store.Driver == config.DriverPostgres {
		pool, err := postgres.NewPool(ctx, cfg.Database.Pool())
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		app.Pool = pool
		app.Tx = postgres.NewTxManager(pool)
		m.pool = pool
	}

	if err := app.mountAll(m); err != nil {
		app.Close()
		return nil, err
	}
	if err := m.checkDeclarations(); err != nil {
		app.Close()
		return nil, err
	}
	app.Registry.Freeze()
	app.handlers = m.handlers

	log.Infow("entities mounted", "store", cfg.Store.Driver, "entities", app.Registry.Entities())
	return app, nil
}

func (a *App) mountAll(m *mounter) error {
	var err error
	if a.Applicants, err = mount[applicant.Applicant](m, applicant.Descriptor); err != nil {
		return err
	}
	if a.JobCategories, err = mount[jobcategory.JobCategory](m, jobcategory.Descriptor); err != nil {
		return err
	}
	if a.Skills, err = mount[skill.Skill](m, skill.Descriptor); err != nil {
		return err
	}
	if a.Educations, err = mount[education.Education](m, education.Descriptor); err != nil {
		return err
	}
	if a.WorkHistories, err = mount[workhistory.WorkHistory](m, workhistory.Descriptor); err != nil {
		return err
	}
	if a.JobApplications, err = mount[jobapplication.JobApplication](m, jobapplication.Descriptor); err != nil {
		return err
	}
	if a.Notifications, err = mount[notification.Notification](m, notification.Descriptor); err != nil {
		return err
	}
	if a.AdminApplicants, err = mount[adminapplicant.AdminApplicant](m, adminapplicant.Descriptor); err != nil {
		return err
	}
	return nil
}

// Router builds the HTTP router over the mounted entities.
func (a *App) Router() *gin.Engine {
	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	return v1.NewRouter(v1.RouterConfig{
		Mode:         a.cfg.HTTP.Mode,
		Logger:       a.log,
		Pool:         a.Pool,
		Driver:       a.cfg.Store.Driver,
		Version:      Version,
		QueryTimeout: a.cfg.Store.QueryTimeout,
		Registry:     a.Registry,
		Entities:     a.handlers,
		MetricsPath:  metricsPath,
	})
}

// Close releases the database pool.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}
