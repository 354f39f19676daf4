package filter

import (
	"talentboard/internal/core/apperror"
)

// Translate validates untrusted filter clauses against cfg and returns
// cfg's default filter AND every clause, in caller order.
//
// Each clause is checked on its own; the first failing clause aborts the
// whole translation and no predicate is returned. Repeated fields and
// repeated field+operator pairs are all kept, so clients can only narrow the
// result set.
func Translate(cfg *Config, items []Item) (Predicate, error) {
	conds := make([]Condition, 0, len(items))
	for _, item := range items {
		cond, err := translateItem(cfg, item)
		if err != nil {
			return Predicate{}, err
		}
		conds = append(conds, cond)
	}
	return And(cfg.DefaultFilter(), NewPredicate(conds...)), nil
}

func translateItem(cfg *Config, item Item) (Condition, error) {
	f, ok := cfg.fields[item.Field]
	if !ok {
		return Condition{}, apperror.NewUnknownField(item.Field)
	}
	if !f.permits(item.Operator) {
		return Condition{}, apperror.NewDisallowedOperator(item.Field, string(item.Operator))
	}
	value, ok := coerceValue(f.spec.Type, item.Operator, item.Value)
	if !ok {
		return Condition{}, apperror.NewTypeMismatch(item.Field, item.Value)
	}
	return Condition{Field: item.Field, Operator: item.Operator, Value: value}, nil
}
