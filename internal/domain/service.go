package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/domain/filter"
	"talentboard/pkg/logger"
)

// Service provides the business operations of one entity on top of a
// Repository: validated writes with lifecycle hooks, and filtered reads.
type Service[T any, ID comparable] struct {
	repo   Repository[T, ID]
	lister *Lister[T, ID]
	hooks  *HookRegistry[T]

	// entityName for error messages and logs
	entityName string
}

// ServiceConfig configures the service.
type ServiceConfig[T any, ID comparable] struct {
	Repo       Repository[T, ID]
	Filter     *filter.Config
	EntityName string
}

// NewService creates a new entity service.
func NewService[T any, ID comparable](cfg ServiceConfig[T, ID]) *Service[T, ID] {
	name := cfg.EntityName
	if name == "" && cfg.Filter != nil {
		name = cfg.Filter.Entity()
	}
	return &Service[T, ID]{
		repo:       cfg.Repo,
		lister:     NewLister[T, ID](cfg.Repo, cfg.Filter),
		hooks:      NewHookRegistry[T](),
		entityName: name,
	}
}

// Hooks returns the hook registry for external registration.
func (s *Service[T, ID]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// EntityName returns the registered entity name.
func (s *Service[T, ID]) EntityName() string {
	return s.entityName
}

// List runs a filtered, sorted, paginated query.
func (s *Service[T, ID]) List(ctx context.Context, req filter.QueryRequest) (PageResult[T], error) {
	return s.lister.List(ctx, req)
}

// FindOne returns the first entity matching items (and the default filter).
func (s *Service[T, ID]) FindOne(ctx context.Context, items []filter.Item) (T, error) {
	var zero T
	predicate, err := filter.Translate(s.lister.Config(), items)
	if err != nil {
		return zero, err
	}
	found, err := s.repo.FindOne(ctx, predicate)
	if err != nil {
		return zero, s.normalizeErr(err, nil)
	}
	return found, nil
}

// GetByID retrieves entity by ID.
func (s *Service[T, ID]) GetByID(ctx context.Context, entityID ID) (T, error) {
	found, err := s.repo.FindByID(ctx, entityID)
	if err != nil {
		return found, s.normalizeErr(err, entityID)
	}
	return found, nil
}

// Create validates and stores a new entity.
func (s *Service[T, ID]) Create(ctx context.Context, e T) (T, error) {
	var zero T

	// 1. Validate entity invariants
	if err := validate(ctx, e); err != nil {
		return zero, err
	}

	// 2. Run before-create hooks
	if err := s.hooks.Run(ctx, BeforeCreate, e); err != nil {
		return zero, err
	}

	// 3. Store
	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", s.entityName, err)
	}

	// 4. Run after-create hooks; the entity is already stored
	if err := s.hooks.Run(ctx, AfterCreate, created); err != nil {
		logger.Warn(logger.WithEntity(ctx, s.entityName), "after-create hook failed", "error", err)
	}

	return created, nil
}

// Update applies patch to an existing entity. The patched entity is
// validated before anything is written.
func (s *Service[T, ID]) Update(ctx context.Context, entityID ID, patch Patch) (T, error) {
	var zero T

	current, err := s.repo.FindByID(ctx, entityID)
	if err != nil {
		return zero, s.normalizeErr(err, entityID)
	}

	patched, err := applyPatch(current, patch)
	if err != nil {
		return zero, err
	}
	if err := validate(ctx, patched); err != nil {
		return zero, err
	}

	updated, err := s.repo.Update(ctx, entityID, patch)
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", s.entityName, s.normalizeErr(err, entityID))
	}

	if err := s.hooks.Run(ctx, AfterUpdate, updated); err != nil {
		logger.Warn(logger.WithEntity(ctx, s.entityName), "after-update hook failed", "error", err)
	}

	return updated, nil
}

// Delete physically removes the entity, archived or not.
func (s *Service[T, ID]) Delete(ctx context.Context, entityID ID) error {
	// 1. Get entity first (for hooks)
	var (
		current T
		err     error
	)
	if archived, ok := s.repo.(ArchiveReader[T, ID]); ok {
		current, err = archived.FindByIDWithDeleted(ctx, entityID)
	} else {
		current, err = s.repo.FindByID(ctx, entityID)
	}
	if err != nil {
		return s.normalizeErr(err, entityID)
	}

	// 2. Run before-delete hooks
	if err := s.hooks.Run(ctx, BeforeDelete, current); err != nil {
		return err
	}

	// 3. Delete; a concurrent delete in between is reported as not found
	removed, err := s.repo.Delete(ctx, entityID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.entityName, err)
	}
	if !removed {
		return apperror.NewNotFound(s.entityName, entityID)
	}

	if err := s.hooks.Run(ctx, AfterDelete, current); err != nil {
		logger.Warn(logger.WithEntity(ctx, s.entityName), "after-delete hook failed", "error", err)
	}

	return nil
}

// SoftDelete flags the entity as deleted. Entities whose store has no
// soft-delete support are rejected.
func (s *Service[T, ID]) SoftDelete(ctx context.Context, entityID ID) error {
	deleter, ok := s.repo.(SoftDeleter[ID])
	if !ok {
		return apperror.NewValidation(s.entityName + " does not support soft delete")
	}

	current, err := s.repo.FindByID(ctx, entityID)
	if err != nil {
		return s.normalizeErr(err, entityID)
	}
	if err := s.hooks.Run(ctx, BeforeDelete, current); err != nil {
		return err
	}

	flagged, err := deleter.SoftDelete(ctx, entityID)
	if err != nil {
		return fmt.Errorf("soft delete %s: %w", s.entityName, err)
	}
	if !flagged {
		return apperror.NewNotFound(s.entityName, entityID)
	}

	if err := s.hooks.Run(ctx, AfterDelete, current); err != nil {
		logger.Warn(logger.WithEntity(ctx, s.entityName), "after-delete hook failed", "error", err)
	}
	return nil
}

// SupportsSoftDelete reports whether the underlying store implements SoftDeleter.
func (s *Service[T, ID]) SupportsSoftDelete() bool {
	_, ok := s.repo.(SoftDeleter[ID])
	return ok
}

// normalizeErr makes sure a not-found error names this entity.
func (s *Service[T, ID]) normalizeErr(err error, entityID any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		if entityID == nil {
			return apperror.NewNotFound(s.entityName, nil).WithCause(err)
		}
		return apperror.NewNotFound(s.entityName, entityID)
	}
	return err
}

func validate[T any](ctx context.Context, e T) error {
	v, ok := any(&e).(entity.Validatable)
	if !ok {
		return nil
	}
	err := v.Validate(ctx)
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

// applyPatch returns a copy of current with patch merged in, through the
// entity's json representation.
func applyPatch[T any](current T, patch Patch) (T, error) {
	var zero T
	raw, err := json.Marshal(current)
	if err != nil {
		return zero, apperror.NewInternal(err)
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return zero, apperror.NewInternal(err)
	}
	for k, v := range patch {
		doc[k] = v
	}
	raw, err = json.Marshal(doc)
	if err != nil {
		return zero, apperror.NewValidation("patch is not serializable").WithCause(err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, apperror.NewValidation("patch does not match entity shape").WithCause(err)
	}
	return out, nil
}
