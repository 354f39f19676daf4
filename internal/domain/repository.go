// Package domain provides the generic repository contract and the services
// built on it. It is store-agnostic: implementations live under
// internal/infrastructure/storage.
package domain

import (
	"context"

	"talentboard/internal/domain/filter"
)

// --- Results ---

// PageResult is one page of a filtered list.
// Total counts the whole matching set regardless of pagination.
type PageResult[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Patch is a partial update keyed by field (json) name.
type Patch map[string]any

// --- Repository Interfaces ---

// Reader holds the side-effect-free operations.
type Reader[T any, ID comparable] interface {
	// FindByID returns NOT_FOUND when the id does not exist (or is soft-deleted).
	FindByID(ctx context.Context, id ID) (T, error)

	// FindOne returns the first match of p, or NOT_FOUND.
	FindOne(ctx context.Context, p filter.Predicate) (T, error)

	// FindMany returns one window of matches of p ordered by sort.
	FindMany(ctx context.Context, p filter.Predicate, sort []filter.SortKey, offset, limit int) ([]T, error)

	// Count returns the number of matches of p.
	Count(ctx context.Context, p filter.Predicate) (int64, error)
}

// Writer holds single-document mutations. Each call is atomic at the store
// level; there are no multi-document transactions.
type Writer[T any, ID comparable] interface {
	// Create inserts entity and returns the stored version.
	// Fails with CONFLICT on a unique constraint violation.
	Create(ctx context.Context, entity T) (T, error)

	// Update applies patch and returns the stored version.
	// Fails with NOT_FOUND if id does not exist, CONFLICT on a unique violation.
	Update(ctx context.Context, id ID, patch Patch) (T, error)

	// Delete physically removes the document. It reports whether anything was removed.
	Delete(ctx context.Context, id ID) (bool, error)
}

// Repository is the full generic contract every entity store implements.
type Repository[T any, ID comparable] interface {
	Reader[T, ID]
	Writer[T, ID]
}

// SoftDeleter is implemented by repositories of entities that support soft
// delete. It is a separate contract from Delete so call sites always state
// whether they destroy data.
type SoftDeleter[ID comparable] interface {
	// SoftDelete flips the entity's deleted flag. It reports whether a live
	// document was flagged.
	SoftDelete(ctx context.Context, id ID) (bool, error)
}

// ArchiveReader is implemented by soft-deleting repositories to read an
// entity whether or not it is flagged as deleted.
type ArchiveReader[T any, ID comparable] interface {
	FindByIDWithDeleted(ctx context.Context, id ID) (T, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
// A failing before-hook aborts the operation; after-hook errors are only logged.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
// Hooks are registered at startup, before the service handles requests.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}
