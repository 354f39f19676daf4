// Package memory provides an in-process document store implementing the
// generic repository contract. Documents are kept as their json
// representation, so predicates address the same field names clients use.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
)

const (
	createdField = "createdAt"
	updatedField = "updatedAt"
)

// Options configures a Repository.
type Options[ID comparable] struct {
	// Entity is the name used in errors.
	Entity string

	// IDField is the json name of the primary key. Defaults to "id".
	IDField string

	// Unique lists field sets whose combined values must be unique.
	Unique [][]string

	// NewID generates an id when a created entity has a zero id.
	NewID func() ID

	// Now overrides the clock. Defaults to time.Now().UTC().
	Now func() time.Time
}

// Repository is a concurrency-safe in-memory store of T documents.
type Repository[T any, ID comparable] struct {
	mu         sync.RWMutex
	docs       map[string]map[string]any
	fields     map[string]struct{}
	kinds      map[string]valueKind
	opts       Options[ID]
	softDelete bool
}

// SoftDeleting is a Repository of an entity that is archived through
// entity.SoftDeleteField instead of only being removed.
type SoftDeleting[T any, ID comparable] struct {
	*Repository[T, ID]
}

var (
	_ domain.Repository[struct{}, string]    = (*Repository[struct{}, string])(nil)
	_ domain.SoftDeleter[string]             = (*SoftDeleting[struct{}, string])(nil)
	_ domain.ArchiveReader[struct{}, string] = (*SoftDeleting[struct{}, string])(nil)
)

// NewSoftDeleting creates an empty repository with soft delete enabled.
func NewSoftDeleting[T any, ID comparable](opts Options[ID]) *SoftDeleting[T, ID] {
	r := New[T](opts)
	r.softDelete = true
	return &SoftDeleting[T, ID]{Repository: r}
}

// New creates an empty repository.
func New[T any, ID comparable](opts Options[ID]) *Repository[T, ID] {
	if opts.IDField == "" {
		opts.IDField = filter.DefaultIDField
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}

	fields := make(map[string]struct{})
	kinds := make(map[string]valueKind)
	for _, f := range entity.Fields[T]() {
		fields[f.Name] = struct{}{}
		kinds[f.Name] = kindOf(f.Type)
	}

	return &Repository[T, ID]{
		docs:   make(map[string]map[string]any),
		fields: fields,
		kinds:  kinds,
		opts:   opts,
	}
}

// FindByID returns NOT_FOUND for missing and soft-deleted documents.
func (r *Repository[T, ID]) FindByID(ctx context.Context, id ID) (T, error) {
	var zero T
	if err := checkContext(ctx, "find by id"); err != nil {
		return zero, err
	}
	key, err := keyOf(id)
	if err != nil {
		return zero, apperror.NewValidation("invalid id").WithCause(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[key]
	if !ok || r.isDeleted(doc) {
		return zero, apperror.NewNotFound(r.opts.Entity, id)
	}
	return decode[T](doc)
}

// FindByIDWithDeleted returns the document whether or not it is flagged as deleted.
func (r *SoftDeleting[T, ID]) FindByIDWithDeleted(ctx context.Context, id ID) (T, error) {
	var zero T
	if err := checkContext(ctx, "find by id"); err != nil {
		return zero, err
	}
	key, err := keyOf(id)
	if err != nil {
		return zero, apperror.NewValidation("invalid id").WithCause(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[key]
	if !ok {
		return zero, apperror.NewNotFound(r.opts.Entity, id)
	}
	return decode[T](doc)
}

// FindOne returns the match of p with the lowest id.
func (r *Repository[T, ID]) FindOne(ctx context.Context, p filter.Predicate) (T, error) {
	var zero T
	items, err := r.FindMany(ctx, p, []filter.SortKey{{Field: r.opts.IDField, Direction: filter.Asc}}, 0, 1)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, apperror.NewNotFound(r.opts.Entity, nil)
	}
	return items[0], nil
}

// FindMany returns matches of p ordered by keys, skipping offset and taking
// at most limit documents (limit <= 0 takes all).
func (r *Repository[T, ID]) FindMany(ctx context.Context, p filter.Predicate, keys []filter.SortKey, offset, limit int) ([]T, error) {
	if err := checkContext(ctx, "find many"); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := make([]map[string]any, 0)
	for _, doc := range r.docs {
		if matches(doc, p) {
			matched = append(matched, doc)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		for _, k := range keys {
			cmp := compareForSort(r.kinds[k.Field], matched[i][k.Field], matched[j][k.Field])
			if cmp == 0 {
				continue
			}
			if k.Direction == filter.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	if offset >= len(matched) {
		return []T{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]T, 0, len(matched))
	for _, doc := range matched {
		item, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Count returns the number of matches of p.
func (r *Repository[T, ID]) Count(ctx context.Context, p filter.Predicate) (int64, error) {
	if err := checkContext(ctx, "count"); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, doc := range r.docs {
		if matches(doc, p) {
			n++
		}
	}
	return n, nil
}

// Create stores e, generating the id when it is zero and stamping timestamps.
func (r *Repository[T, ID]) Create(ctx context.Context, e T) (T, error) {
	var zero T
	if err := checkContext(ctx, "create"); err != nil {
		return zero, err
	}

	doc, err := encode(e)
	if err != nil {
		return zero, apperror.NewValidation("entity is not serializable").WithCause(err)
	}

	var current, nilID ID
	if err := convert(doc[r.opts.IDField], &current); err != nil {
		return zero, apperror.NewValidation("invalid id").WithCause(err)
	}
	if current == nilID {
		if r.opts.NewID == nil {
			return zero, apperror.NewValidation("id is required").WithDetail("entity", r.opts.Entity)
		}
		if doc[r.opts.IDField], err = toJSONValue(r.opts.NewID()); err != nil {
			return zero, apperror.NewInternal(err)
		}
	}
	r.stamp(doc, true)

	key, err := keyOf(doc[r.opts.IDField])
	if err != nil {
		return zero, apperror.NewInternal(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[key]; exists {
		return zero, apperror.NewDuplicate(r.opts.Entity, r.opts.IDField)
	}
	if err := r.checkUnique(key, doc); err != nil {
		return zero, err
	}
	r.docs[key] = doc
	return decode[T](doc)
}

// Update applies patch to a live document.
func (r *Repository[T, ID]) Update(ctx context.Context, id ID, patch domain.Patch) (T, error) {
	var zero T
	if err := checkContext(ctx, "update"); err != nil {
		return zero, err
	}
	if err := patch.Check(r.known, r.opts.IDField); err != nil {
		return zero, err
	}
	key, err := keyOf(id)
	if err != nil {
		return zero, apperror.NewValidation("invalid id").WithCause(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.docs[key]
	if !ok || r.isDeleted(current) {
		return zero, apperror.NewNotFound(r.opts.Entity, id)
	}

	next := make(map[string]any, len(current))
	for k, v := range current {
		next[k] = v
	}
	for k, v := range patch {
		value, err := toJSONValue(v)
		if err != nil {
			return zero, apperror.NewValidation("invalid patch value").WithDetail("field", k).WithCause(err)
		}
		next[k] = value
	}
	r.stamp(next, false)

	// the patched document must still decode into T
	updated, err := decode[T](next)
	if err != nil {
		return zero, apperror.NewValidation("patch does not match entity shape").WithCause(err)
	}
	if err := r.checkUnique(key, next); err != nil {
		return zero, err
	}
	r.docs[key] = next
	return updated, nil
}

// Delete physically removes the document, soft-deleted or not.
func (r *Repository[T, ID]) Delete(ctx context.Context, id ID) (bool, error) {
	if err := checkContext(ctx, "delete"); err != nil {
		return false, err
	}
	key, err := keyOf(id)
	if err != nil {
		return false, apperror.NewValidation("invalid id").WithCause(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[key]; !ok {
		return false, nil
	}
	delete(r.docs, key)
	return true, nil
}

// SoftDelete flags a live document as deleted.
func (r *SoftDeleting[T, ID]) SoftDelete(ctx context.Context, id ID) (bool, error) {
	if err := checkContext(ctx, "soft delete"); err != nil {
		return false, err
	}
	key, err := keyOf(id)
	if err != nil {
		return false, apperror.NewValidation("invalid id").WithCause(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[key]
	if !ok || r.isDeleted(doc) {
		return false, nil
	}
	next := make(map[string]any, len(doc))
	for k, v := range doc {
		next[k] = v
	}
	next[entity.SoftDeleteField] = true
	r.stamp(next, false)
	r.docs[key] = next
	return true, nil
}

// Len returns the number of stored documents, soft-deleted included.
func (r *Repository[T, ID]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

func (r *Repository[T, ID]) known(field string) bool {
	_, ok := r.fields[field]
	return ok
}

func (r *Repository[T, ID]) isDeleted(doc map[string]any) bool {
	if !r.softDelete {
		return false
	}
	deleted, _ := doc[entity.SoftDeleteField].(bool)
	return deleted
}

// stamp sets updatedAt, and createdAt on creation when it is unset.
func (r *Repository[T, ID]) stamp(doc map[string]any, creating bool) {
	now := r.opts.Now().Format(time.RFC3339Nano)
	if creating && r.known(createdField) {
		var created time.Time
		if err := convert(doc[createdField], &created); err != nil || created.IsZero() {
			doc[createdField] = now
		}
	}
	if r.known(updatedField) {
		doc[updatedField] = now
	}
}

// checkUnique must be called with the write lock held.
func (r *Repository[T, ID]) checkUnique(key string, doc map[string]any) error {
	for _, set := range r.opts.Unique {
		for otherKey, other := range r.docs {
			if otherKey == key {
				continue
			}
			if sameValues(doc, other, set) {
				return apperror.NewDuplicate(r.opts.Entity, strings.Join(set, "+"))
			}
		}
	}
	return nil
}

func sameValues(a, b map[string]any, fields []string) bool {
	for _, f := range fields {
		ka, errA := keyOf(a[f])
		kb, errB := keyOf(b[f])
		if errA != nil || errB != nil || ka != kb {
			return false
		}
	}
	return true
}

func checkContext(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return apperror.NewTimeout(op, err)
	}
	return nil
}

// --- json helpers ---

func keyOf(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func convert(v any, target any) error {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

func decode[T any](doc map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(doc)
	if err != nil {
		return out, apperror.NewInternal(err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, apperror.NewInternal(err)
	}
	return out, nil
}
