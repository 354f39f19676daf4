package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Condition is one leaf comparison of a Predicate. Value is already coerced:
// string, decimal.Decimal, bool, time.Time, []any (In) or Bounds (Range).
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// String renders the condition for logs.
func (c Condition) String() string {
	if c.Operator == Equals {
		return fmt.Sprintf("%s=%s", c.Field, formatValue(c.Value))
	}
	return fmt.Sprintf("%s %s %s", c.Field, c.Operator, formatValue(c.Value))
}

// Bounds is the value of a Range condition. A nil bound is open.
type Bounds struct {
	From any
	To   any
}

// Predicate is a store-agnostic conjunction of conditions.
// It is a value type; no method modifies the receiver.
type Predicate struct {
	conditions []Condition
}

// NewPredicate returns the conjunction of conds.
func NewPredicate(conds ...Condition) Predicate {
	if len(conds) == 0 {
		return Predicate{}
	}
	return Predicate{conditions: append([]Condition(nil), conds...)}
}

// And returns the conjunction of all parts, preserving their order.
func And(parts ...Predicate) Predicate {
	n := 0
	for _, p := range parts {
		n += len(p.conditions)
	}
	if n == 0 {
		return Predicate{}
	}
	conds := make([]Condition, 0, n)
	for _, p := range parts {
		conds = append(conds, p.conditions...)
	}
	return Predicate{conditions: conds}
}

// Where returns p AND cond.
func (p Predicate) Where(field string, op Operator, value any) Predicate {
	return And(p, NewPredicate(Condition{Field: field, Operator: op, Value: value}))
}

// Conditions returns a copy of the leaf conditions.
func (p Predicate) Conditions() []Condition {
	return append([]Condition(nil), p.conditions...)
}

// Len returns the number of conjuncts.
func (p Predicate) Len() int { return len(p.conditions) }

// IsEmpty reports whether p matches everything.
func (p Predicate) IsEmpty() bool { return len(p.conditions) == 0 }

// String renders p as `a=1 AND b gt 2`.
func (p Predicate) String() string {
	if p.IsEmpty() {
		return "TRUE"
	}
	parts := make([]string, len(p.conditions))
	for i, c := range p.conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case time.Time:
		return val.Format(time.RFC3339)
	case decimal.Decimal:
		return val.String()
	case Bounds:
		return fmt.Sprintf("[%s, %s]", formatValue(val.From), formatValue(val.To))
	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = formatValue(item)
		}
		return "(" + strings.Join(items, ", ") + ")"
	case nil:
		return "null"
	}
	return fmt.Sprint(v)
}

// Compare orders two coerced scalar values of the same type.
// ok is false when the values are not comparable with each other.
func Compare(a, b any) (result int, ok bool) {
	switch x := a.(type) {
	case string:
		y, isStr := b.(string)
		if !isStr {
			return 0, false
		}
		return strings.Compare(x, y), true
	case decimal.Decimal:
		y, isNum := toDecimal(b)
		if !isNum {
			return 0, false
		}
		return x.Cmp(y), true
	case bool:
		y, isBool := b.(bool)
		if !isBool {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	case time.Time:
		y, isTime := b.(time.Time)
		if !isTime {
			return 0, false
		}
		return x.Compare(y), true
	}
	if x, isNum := toDecimal(a); isNum {
		return Compare(x, b)
	}
	return 0, false
}
