// Package entity holds the fields shared by every stored entity.
package entity

import (
	"context"
	"time"

	"talentboard/internal/core/id"
)

// Base contains the identifier and timestamps common to all entities.
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBase creates a Base with a generated ID and both timestamps set to now.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the primary key.
func (b Base) GetID() id.ID { return b.ID }

// SoftDeletable is embedded by entities whose removal only flips a flag.
// The flag is entity-internal: it is never exposed to client filters.
type SoftDeletable struct {
	IsDeleted bool `db:"is_deleted" json:"isDeleted"`
}

// Soft-delete field and column names shared by repositories and filter declarations.
const (
	SoftDeleteField  = "isDeleted"
	SoftDeleteColumn = "is_deleted"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without store access).
type Validatable interface {
	Validate(ctx context.Context) error
}
