package domain

import (
	"context"
	"fmt"

	"talentboard/internal/domain/filter"
	"talentboard/pkg/logger"
)

// Lister executes QueryRequests for one entity: translate, resolve sort,
// paginate, then count and fetch the page.
//
// Count and FindMany are two independent reads of the same predicate. Under
// concurrent writes Total may disagree with the page by a few rows; this is
// accepted and must not be "fixed" with a transaction.
type Lister[T any, ID comparable] struct {
	reader Reader[T, ID]
	cfg    *filter.Config
}

// NewLister creates a lister over reader using cfg.
func NewLister[T any, ID comparable](reader Reader[T, ID], cfg *filter.Config) *Lister[T, ID] {
	return &Lister[T, ID]{reader: reader, cfg: cfg}
}

// Config returns the filter config the lister validates against.
func (l *Lister[T, ID]) Config() *filter.Config { return l.cfg }

// List runs req. Caller-input problems surface untranslated; store failures
// are returned as-is for the caller to retry or not.
func (l *Lister[T, ID]) List(ctx context.Context, req filter.QueryRequest) (PageResult[T], error) {
	predicate, err := filter.Translate(l.cfg, req.Filters)
	if err != nil {
		return PageResult[T]{}, err
	}
	sort := filter.ResolveSort(l.cfg, req.Sort)
	page, err := filter.PaginateFor(l.cfg, req.Page, req.Limit)
	if err != nil {
		return PageResult[T]{}, err
	}

	logger.Debug(logger.WithEntity(ctx, l.cfg.Entity()), "list query",
		"predicate", predicate.String(),
		"sort", sort,
		"page", page.Page,
		"limit", page.Limit,
	)

	total, err := l.reader.Count(ctx, predicate)
	if err != nil {
		return PageResult[T]{}, fmt.Errorf("count %s: %w", l.cfg.Entity(), err)
	}

	data, err := l.reader.FindMany(ctx, predicate, sort, page.Offset, page.Limit)
	if err != nil {
		return PageResult[T]{}, fmt.Errorf("list %s: %w", l.cfg.Entity(), err)
	}
	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:  data,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}
