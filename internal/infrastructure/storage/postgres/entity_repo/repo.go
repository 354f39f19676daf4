// Package entity_repo provides the PostgreSQL implementation of the generic
// repository contract. One Repo serves every entity; per-entity behavior is
// the table name and the struct tags of T.
package entity_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
	"talentboard/internal/infrastructure/storage/postgres"
	"talentboard/pkg/logger"
)

const (
	createdColumn = "created_at"
	updatedColumn = "updated_at"
)

// Observer receives the outcome of every store call (implemented by metrics).
type Observer interface {
	ObserveQuery(table, op string, d time.Duration, err error)
}

// Options configures a Repo.
type Options[ID comparable] struct {
	// Entity is the name used in errors.
	Entity string

	// Table is the table name.
	Table string

	// IDField is the json name of the primary key. Defaults to "id".
	IDField string

	// NewID generates an id when a created entity has a zero id.
	NewID func() ID

	// Now overrides the clock. Defaults to time.Now().UTC().
	Now func() time.Time

	Observer Observer
}

// Repo is a generic PostgreSQL repository of T.
type Repo[T any, ID comparable] struct {
	db           postgres.Querier
	entity       string
	table        string
	selectCols   []string
	fieldColumns map[string]string // json name -> column
	idField      string
	idColumn     string
	deletedCol   string // empty when soft delete is disabled
	newID        func() ID
	now          func() time.Time
	observer     Observer
}

// SoftDeleting is a Repo of an entity archived through the
// entity.SoftDeleteColumn flag.
type SoftDeleting[T any, ID comparable] struct {
	*Repo[T, ID]
}

var (
	_ domain.Repository[struct{}, string]    = (*Repo[struct{}, string])(nil)
	_ domain.SoftDeleter[string]             = (*SoftDeleting[struct{}, string])(nil)
	_ domain.ArchiveReader[struct{}, string] = (*SoftDeleting[struct{}, string])(nil)
)

// New creates a repository over db. It fails when T has no column for the id field.
func New[T any, ID comparable](db postgres.Querier, opts Options[ID]) (*Repo[T, ID], error) {
	if opts.Table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	if opts.Entity == "" {
		opts.Entity = opts.Table
	}
	if opts.IDField == "" {
		opts.IDField = filter.DefaultIDField
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}

	r := &Repo[T, ID]{
		db:           db,
		entity:       opts.Entity,
		table:        opts.Table,
		fieldColumns: make(map[string]string),
		idField:      opts.IDField,
		newID:        opts.NewID,
		now:          opts.Now,
		observer:     opts.Observer,
	}
	for _, c := range postgres.Columns[T]() {
		r.selectCols = append(r.selectCols, c.Name)
		if c.Field != "" {
			r.fieldColumns[c.Field] = c.Name
		}
	}

	idColumn, ok := r.fieldColumns[r.idField]
	if !ok {
		return nil, fmt.Errorf("%s: id field %q has no column", r.table, r.idField)
	}
	r.idColumn = idColumn
	return r, nil
}

// NewSoftDeleting creates a repository whose entities are archived through
// entity.SoftDeleteColumn. T must persist that column.
func NewSoftDeleting[T any, ID comparable](db postgres.Querier, opts Options[ID]) (*SoftDeleting[T, ID], error) {
	r, err := New[T](db, opts)
	if err != nil {
		return nil, err
	}
	if r.fieldColumns[entity.SoftDeleteField] != entity.SoftDeleteColumn {
		return nil, fmt.Errorf("%s: soft delete needs the %s column", r.table, entity.SoftDeleteColumn)
	}
	r.deletedCol = entity.SoftDeleteColumn
	return &SoftDeleting[T, ID]{Repo: r}, nil
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *Repo[T, ID]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// conn returns the transaction in ctx, if any, so repository calls join it.
func (r *Repo[T, ID]) conn(ctx context.Context) postgres.Querier {
	return postgres.QuerierFrom(ctx, r.db)
}

// baseSelect creates a SELECT builder.
func (r *Repo[T, ID]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.table)
}

// byID matches one live row.
func (r *Repo[T, ID]) byID(id ID) squirrel.Sqlizer {
	if r.deletedCol == "" {
		return squirrel.Eq{r.idColumn: id}
	}
	return squirrel.And{squirrel.Eq{r.idColumn: id}, squirrel.Eq{r.deletedCol: false}}
}

// FindByID retrieves a live entity by ID.
func (r *Repo[T, ID]) FindByID(ctx context.Context, id ID) (T, error) {
	return r.findByID(ctx, "find_by_id", id, r.byID(id))
}

// FindByIDWithDeleted retrieves an entity by ID, archived or not.
func (r *SoftDeleting[T, ID]) FindByIDWithDeleted(ctx context.Context, id ID) (T, error) {
	return r.findByID(ctx, "find_by_id_with_deleted", id, squirrel.Eq{r.idColumn: id})
}

func (r *Repo[T, ID]) findByID(ctx context.Context, op string, id ID, where squirrel.Sqlizer) (result T, err error) {
	ctx, done := r.begin(ctx, op)
	defer func() { err = done(err) }()

	q := r.baseSelect().
		Where(where).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.conn(ctx), &result, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return result, apperror.NewNotFound(r.entity, id)
		}
		return result, err
	}
	return result, nil
}

// findManyQuery builds the SELECT of FindMany.
func (r *Repo[T, ID]) findManyQuery(p filter.Predicate, keys []filter.SortKey, offset, limit int) (squirrel.SelectBuilder, error) {
	where, err := r.compilePredicate(p)
	if err != nil {
		return squirrel.SelectBuilder{}, err
	}
	orderBy, err := r.compileSort(keys)
	if err != nil {
		return squirrel.SelectBuilder{}, err
	}

	q := r.baseSelect()
	if len(where) > 0 {
		q = q.Where(where)
	}
	if len(orderBy) > 0 {
		q = q.OrderBy(orderBy...)
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	return q, nil
}

// FindOne returns the match of p with the lowest id.
func (r *Repo[T, ID]) FindOne(ctx context.Context, p filter.Predicate) (result T, err error) {
	ctx, done := r.begin(ctx, "find_one")
	defer func() { err = done(err) }()

	q, err := r.findManyQuery(p, []filter.SortKey{{Field: r.idField, Direction: filter.Asc}}, 0, 1)
	if err != nil {
		return result, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.conn(ctx), &result, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return result, apperror.NewNotFound(r.entity, nil)
		}
		return result, err
	}
	return result, nil
}

// FindMany returns one window of matches of p.
func (r *Repo[T, ID]) FindMany(ctx context.Context, p filter.Predicate, keys []filter.SortKey, offset, limit int) (items []T, err error) {
	ctx, done := r.begin(ctx, "find_many")
	defer func() { err = done(err) }()

	q, err := r.findManyQuery(p, keys, offset, limit)
	if err != nil {
		return nil, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.conn(ctx), &items, sql, args...); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// countQuery builds the COUNT of Count.
func (r *Repo[T, ID]) countQuery(p filter.Predicate) (squirrel.SelectBuilder, error) {
	where, err := r.compilePredicate(p)
	if err != nil {
		return squirrel.SelectBuilder{}, err
	}
	q := r.Builder().
		Select("COUNT(*)").
		From(r.table)
	if len(where) > 0 {
		q = q.Where(where)
	}
	return q, nil
}

// Count returns the number of matches of p.
func (r *Repo[T, ID]) Count(ctx context.Context, p filter.Predicate) (total int64, err error) {
	ctx, done := r.begin(ctx, "count")
	defer func() { err = done(err) }()

	q, err := r.countQuery(p)
	if err != nil {
		return 0, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// insertQuery builds the INSERT of Create, filling the id and timestamps.
func (r *Repo[T, ID]) insertQuery(e T) (squirrel.InsertBuilder, error) {
	data := postgres.StructToMap(e)
	if len(data) == 0 {
		return squirrel.InsertBuilder{}, fmt.Errorf("no db tags found in entity")
	}

	var nilID ID
	if current, ok := data[r.idColumn].(ID); !ok || current == nilID {
		if r.newID == nil {
			return squirrel.InsertBuilder{}, apperror.NewValidation("id is required").WithDetail("entity", r.entity)
		}
		data[r.idColumn] = r.newID()
	}

	now := r.now()
	if created, ok := data[createdColumn].(time.Time); ok && created.IsZero() {
		data[createdColumn] = now
	}
	if _, ok := data[updatedColumn]; ok {
		data[updatedColumn] = now
	}

	return r.Builder().
		Insert(r.table).
		SetMap(data).
		Suffix("RETURNING " + strings.Join(r.selectCols, ", ")), nil
}

// Create inserts a new entity and returns the stored row.
func (r *Repo[T, ID]) Create(ctx context.Context, e T) (result T, err error) {
	ctx, done := r.begin(ctx, "create")
	defer func() { err = done(err) }()

	q, err := r.insertQuery(e)
	if err != nil {
		return result, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build insert: %w", err)
	}

	if err := pgxscan.Get(ctx, r.conn(ctx), &result, sql, args...); err != nil {
		return result, err
	}
	return result, nil
}

// updateQuery builds the UPDATE of Update.
func (r *Repo[T, ID]) updateQuery(id ID, patch domain.Patch) (squirrel.UpdateBuilder, error) {
	known := func(field string) bool {
		_, ok := r.fieldColumns[field]
		return ok
	}
	if err := patch.Check(known, r.idField); err != nil {
		return squirrel.UpdateBuilder{}, err
	}

	set := make(map[string]any, len(patch)+1)
	for field, value := range patch {
		set[r.fieldColumns[field]] = patchValue(value)
	}
	if _, ok := r.fieldColumns["updatedAt"]; ok {
		set[updatedColumn] = r.now()
	}

	return r.Builder().
		Update(r.table).
		SetMap(set).
		Where(r.byID(id)).
		Suffix("RETURNING " + strings.Join(r.selectCols, ", ")), nil
}

// Update applies patch to a live row and returns it.
func (r *Repo[T, ID]) Update(ctx context.Context, id ID, patch domain.Patch) (result T, err error) {
	ctx, done := r.begin(ctx, "update")
	defer func() { err = done(err) }()

	q, err := r.updateQuery(id, patch)
	if err != nil {
		return result, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build update: %w", err)
	}

	if err := pgxscan.Get(ctx, r.conn(ctx), &result, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return result, apperror.NewNotFound(r.entity, id)
		}
		return result, err
	}
	return result, nil
}

// Delete performs physical removal from the database.
func (r *Repo[T, ID]) Delete(ctx context.Context, id ID) (removed bool, err error) {
	ctx, done := r.begin(ctx, "delete")
	defer func() { err = done(err) }()

	sql, args, err := r.Builder().
		Delete(r.table).
		Where(squirrel.Eq{r.idColumn: id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// SoftDelete flags a live row as deleted.
func (r *SoftDeleting[T, ID]) SoftDelete(ctx context.Context, id ID) (flagged bool, err error) {
	ctx, done := r.begin(ctx, "soft_delete")
	defer func() { err = done(err) }()

	q := r.Builder().
		Update(r.table).
		Set(r.deletedCol, true).
		Where(r.byID(id))
	if _, ok := r.fieldColumns["updatedAt"]; ok {
		q = q.Set(updatedColumn, r.now())
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build soft delete: %w", err)
	}

	result, err := r.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// begin opens the span of one call. The returned func maps the error into
// the AppError taxonomy, logs infrastructure failures and ends the span.
func (r *Repo[T, ID]) begin(ctx context.Context, op string) (context.Context, func(error) error) {
	start := time.Now()
	ctx, finish := postgres.StartSpan(ctx, r.table, op)
	return ctx, func(err error) error {
		err = postgres.MapError(r.table+"."+op, err)
		if err != nil && !expected(err) {
			logger.Error(ctx, "store call failed", "table", r.table, "op", op, "error", err)
		}
		if r.observer != nil {
			r.observer.ObserveQuery(r.table, op, time.Since(start), err)
		}
		finish(err)
		return err
	}
}

// expected reports errors that are outcomes rather than failures.
func expected(err error) bool {
	return apperror.IsNotFound(err) || apperror.IsConflict(err) || apperror.IsCallerError(err)
}
