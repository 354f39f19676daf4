package memory

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"talentboard/internal/domain/filter"
)

// matches reports whether doc satisfies every condition of p.
func matches(doc map[string]any, p filter.Predicate) bool {
	for _, c := range p.Conditions() {
		if !matchCondition(doc[c.Field], c) {
			return false
		}
	}
	return true
}

func matchCondition(stored any, c filter.Condition) bool {
	if stored == nil {
		return false
	}

	switch c.Operator {
	case filter.Equals:
		return compareStored(stored, c.Value) == 0
	case filter.Contains:
		s, ok := stored.(string)
		needle, isStr := c.Value.(string)
		if !ok || !isStr {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(needle))
	case filter.GreaterThan:
		return compareStored(stored, c.Value) == 1
	case filter.GreaterOrEqual:
		cmp := compareStored(stored, c.Value)
		return cmp == 0 || cmp == 1
	case filter.LessThan:
		return compareStored(stored, c.Value) == -1
	case filter.LessOrEqual:
		cmp := compareStored(stored, c.Value)
		return cmp == 0 || cmp == -1
	case filter.In:
		values, ok := c.Value.([]any)
		if !ok {
			return false
		}
		for _, v := range values {
			if compareStored(stored, v) == 0 {
				return true
			}
		}
		return false
	case filter.Range:
		b, ok := c.Value.(filter.Bounds)
		if !ok {
			return false
		}
		if b.From != nil {
			if cmp := compareStored(stored, b.From); cmp != 0 && cmp != 1 {
				return false
			}
		}
		if b.To != nil {
			if cmp := compareStored(stored, b.To); cmp != 0 && cmp != -1 {
				return false
			}
		}
		return true
	}
	return false
}

// incomparable is returned by compareStored when the values have different types.
const incomparable = 2

// compareStored compares a json-decoded stored value with a coerced
// condition value. Dates are stored as RFC 3339 strings.
func compareStored(stored, value any) int {
	if t, isTime := value.(time.Time); isTime {
		s, ok := stored.(string)
		if !ok {
			return incomparable
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return incomparable
		}
		return parsed.Compare(t)
	}
	if d, isNum := value.(decimal.Decimal); isNum {
		// decimals serialize as json strings
		if s, ok := stored.(string); ok {
			parsed, err := decimal.NewFromString(s)
			if err != nil {
				return incomparable
			}
			return parsed.Cmp(d)
		}
	}
	cmp, ok := filter.Compare(stored, value)
	if !ok {
		return incomparable
	}
	return cmp
}

// valueKind is how stored values of a field are ordered.
type valueKind int

const (
	kindText valueKind = iota
	kindNumber
	kindTime
	kindBool
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// kindOf maps the Go type of an entity field to its ordering.
func kindOf(t reflect.Type) valueKind {
	if t == nil {
		return kindText
	}
	switch t {
	case timeType:
		return kindTime
	case decimalType:
		return kindNumber
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return kindNumber
	case reflect.Bool:
		return kindBool
	}
	return kindText
}

// compareForSort orders two stored values of a field of the given kind.
// Missing values sort first. Values that do not parse as the kind sort after
// those that do and compare as text among themselves, so the order is total.
func compareForSort(kind valueKind, a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch kind {
	case kindTime:
		at, errA := time.Parse(time.RFC3339Nano, as)
		bt, errB := time.Parse(time.RFC3339Nano, bs)
		if cmp, ok := parsedOrder(errA, errB); ok {
			return cmp
		}
		if errA == nil {
			return at.Compare(bt)
		}
	case kindNumber:
		ad, errA := decimal.NewFromString(as)
		bd, errB := decimal.NewFromString(bs)
		if cmp, ok := parsedOrder(errA, errB); ok {
			return cmp
		}
		if errA == nil {
			return ad.Cmp(bd)
		}
	case kindBool:
		ab, okA := a.(bool)
		bb, okB := b.(bool)
		if okA && okB {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(as, bs)
}

// parsedOrder orders a parsed value before an unparsed one. ok is false
// when both or neither parsed.
func parsedOrder(errA, errB error) (int, bool) {
	switch {
	case errA == nil && errB != nil:
		return -1, true
	case errA != nil && errB == nil:
		return 1, true
	}
	return 0, false
}
