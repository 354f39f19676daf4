package domain

import (
	"sort"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
)

// immutableFields can never be changed through a Patch.
var immutableFields = map[string]struct{}{
	"createdAt":            {},
	"updatedAt":            {},
	entity.SoftDeleteField: {},
}

// Keys returns the patch keys in sorted order.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Check rejects empty patches, keys that are not fields of the entity and
// keys that are immutable (the id, timestamps and the soft-delete flag).
// known reports whether a json field name exists on the entity.
func (p Patch) Check(known func(field string) bool, idField string) error {
	if len(p) == 0 {
		return apperror.NewValidation("patch is empty")
	}
	for _, k := range p.Keys() {
		if _, immutable := immutableFields[k]; immutable || k == idField {
			return apperror.NewValidation("field cannot be changed").WithDetail("field", k)
		}
		if !known(k) {
			return apperror.NewUnknownField(k)
		}
	}
	return nil
}
