package bootstrap

import (
	"fmt"

	"talentboard/internal/config"
	"talentboard/internal/core/entity"
	"talentboard/internal/core/id"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
	v1 "talentboard/internal/infrastructure/http/v1"
	"talentboard/internal/infrastructure/http/v1/handlers"
	"talentboard/internal/infrastructure/storage/memory"
	"talentboard/internal/infrastructure/storage/postgres"
	"talentboard/internal/infrastructure/storage/postgres/entity_repo"
	"talentboard/internal/metrics"
)

// mounter builds the repository, service and handler of every entity.
type mounter struct {
	driver   string
	pool     *postgres.Pool
	registry *filter.Registry
	decls    map[string]filter.Declaration
	base     *handlers.BaseHandler
	handlers []v1.EntityRouteHandler
}

// mount registers the filter config of d and returns its service.
// A declaration loaded from file replaces the compiled-in definition.
func mount[T any](m *mounter, d domain.Descriptor) (*domain.Service[T, id.ID], error) {
	var (
		cfg *filter.Config
		err error
	)
	if decl, ok := m.decls[d.Name]; ok {
		cfg, err = decl.Build(d.Name)
	} else {
		cfg, err = d.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", d.Name, err)
	}

	// every declared field must be a persisted field of T
	columns := entity.ColumnMap[T]()
	if err := cfg.Verify(func(name string) bool {
		_, ok := columns[name]
		return ok
	}); err != nil {
		return nil, fmt.Errorf("entity %s: %w", d.Name, err)
	}

	if err := m.registry.Register(d.Name, cfg); err != nil {
		return nil, err
	}

	repo, err := newRepository[T](m, d)
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", d.Name, err)
	}

	service := domain.NewService(domain.ServiceConfig[T, id.ID]{
		Repo:       repo,
		Filter:     cfg,
		EntityName: d.Name,
	})
	domain.AuditHooks(service.Hooks(), d.Name)
	m.handlers = append(m.handlers, handlers.NewEntityHandler(m.base, service))
	return service, nil
}

func newRepository[T any](m *mounter, d domain.Descriptor) (domain.Repository[T, id.ID], error) {
	switch m.driver {
	case config.DriverMemory:
		opts := memory.Options[id.ID]{
			Entity: d.Name,
			Unique: d.Unique,
			NewID:  id.New,
		}
		if d.SoftDelete {
			return memory.NewSoftDeleting[T](opts), nil
		}
		return memory.New[T](opts), nil

	case config.DriverPostgres:
		opts := entity_repo.Options[id.ID]{
			Entity:   d.Name,
			Table:    d.Table,
			NewID:    id.New,
			Observer: metrics.StoreObserver{},
		}
		if d.SoftDelete {
			return entity_repo.NewSoftDeleting[T](m.pool, opts)
		}
		return entity_repo.New[T](m.pool, opts)
	}
	return nil, fmt.Errorf("unknown store driver %q", m.driver)
}

// checkDeclarations rejects declarations of entities nobody registered.
func (m *mounter) checkDeclarations() error {
	for name := range m.decls {
		if _, ok := m.registry.Lookup(name); !ok {
			return fmt.Errorf("declarations file names unknown entity %q", name)
		}
	}
	return nil
}
