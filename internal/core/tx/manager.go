// Package tx defines how callers group store writes into one unit.
package tx

import "context"

// Manager runs fn inside a transaction. An error from fn rolls it back.
// Nested calls reuse the transaction already in ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Direct runs fn without a transaction, for stores that have none.
type Direct struct{}

var _ Manager = Direct{}

// RunInTransaction calls fn with ctx.
func (Direct) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
