package entity_repo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"talentboard/internal/core/apperror"
	"talentboard/internal/domain/filter"
)

// likeEscaper escapes LIKE metacharacters so contains matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// compilePredicate turns a Predicate into squirrel conditions over columns.
// Field names were validated by the translator; a field without a column is
// a wiring mistake and reported as internal.
func (r *Repo[T, ID]) compilePredicate(p filter.Predicate) (squirrel.And, error) {
	conds := p.Conditions()
	out := make(squirrel.And, 0, len(conds))
	for _, c := range conds {
		col, err := r.column(c.Field)
		if err != nil {
			return nil, err
		}
		sqlizer, err := compileCondition(col, c)
		if err != nil {
			return nil, err
		}
		out = append(out, sqlizer)
	}
	return out, nil
}

func compileCondition(col string, c filter.Condition) (squirrel.Sqlizer, error) {
	switch c.Operator {
	case filter.Equals:
		return squirrel.Eq{col: c.Value}, nil
	case filter.Contains:
		s, ok := c.Value.(string)
		if !ok {
			return nil, fmt.Errorf("contains on %s needs a string, got %T", col, c.Value)
		}
		return squirrel.ILike{col: "%" + likeEscaper.Replace(s) + "%"}, nil
	case filter.GreaterThan:
		return squirrel.Gt{col: c.Value}, nil
	case filter.GreaterOrEqual:
		return squirrel.GtOrEq{col: c.Value}, nil
	case filter.LessThan:
		return squirrel.Lt{col: c.Value}, nil
	case filter.LessOrEqual:
		return squirrel.LtOrEq{col: c.Value}, nil
	case filter.In:
		values, ok := c.Value.([]any)
		if !ok || len(values) == 0 {
			return nil, fmt.Errorf("in on %s needs a non-empty list", col)
		}
		return squirrel.Eq{col: values}, nil
	case filter.Range:
		b, ok := c.Value.(filter.Bounds)
		if !ok {
			return nil, fmt.Errorf("range on %s needs bounds, got %T", col, c.Value)
		}
		and := squirrel.And{}
		if b.From != nil {
			and = append(and, squirrel.GtOrEq{col: b.From})
		}
		if b.To != nil {
			and = append(and, squirrel.LtOrEq{col: b.To})
		}
		return and, nil
	}
	return nil, fmt.Errorf("operator %q cannot be compiled", c.Operator)
}

// compileSort renders ORDER BY terms with quoted identifiers.
func (r *Repo[T, ID]) compileSort(keys []filter.SortKey) ([]string, error) {
	terms := make([]string, 0, len(keys))
	for _, k := range keys {
		col, err := r.column(k.Field)
		if err != nil {
			return nil, err
		}
		dir := "ASC"
		if k.Direction == filter.Desc {
			dir = "DESC"
		}
		terms = append(terms, pgx.Identifier{col}.Sanitize()+" "+dir)
	}
	return terms, nil
}

func (r *Repo[T, ID]) column(field string) (string, error) {
	col, ok := r.fieldColumns[field]
	if !ok {
		return "", apperror.NewInternal(fmt.Errorf("%s: field %q has no column", r.table, field))
	}
	return col, nil
}

// patchValue adapts decoded json values to something pgx can encode.
func patchValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		return val.String()
	case map[string]any, []any:
		raw, err := json.Marshal(val)
		if err != nil {
			return val
		}
		return string(raw)
	}
	return v
}
