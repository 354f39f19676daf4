package filter

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are the accepted textual date forms, tried in order.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// coerceValue converts a raw client value into the typed value an operator
// expects. ok is false on any mismatch.
func coerceValue(t FieldType, op Operator, raw any) (any, bool) {
	switch op {
	case In:
		return coerceList(t, raw)
	case Range:
		return coerceBounds(t, raw)
	}
	return coerceScalar(t, raw)
}

func coerceScalar(t FieldType, raw any) (any, bool) {
	switch t {
	case TypeString:
		s, ok := raw.(string)
		return s, ok
	case TypeNumber:
		return coerceNumber(raw)
	case TypeBoolean:
		return coerceBool(raw)
	case TypeDate:
		return coerceDate(raw)
	}
	return nil, false
}

func coerceNumber(raw any) (any, bool) {
	if s, ok := raw.(string); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, false
		}
		return d, true
	}
	d, ok := toDecimal(raw)
	if !ok {
		return nil, false
	}
	return d, true
}

// toDecimal converts Go numeric kinds (not strings) to decimal.
func toDecimal(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(v), true
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0), true
	}
	return decimal.Decimal{}, false
}

func coerceBool(raw any) (any, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return nil, false
}

func coerceDate(raw any) (any, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), true
			}
		}
	}
	return nil, false
}

func coerceList(t FieldType, raw any) (any, bool) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Len() == 0 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		v, ok := coerceScalar(t, rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// coerceBounds accepts [from, to] or {"from": x, "to": y}.
func coerceBounds(t FieldType, raw any) (any, bool) {
	var from, to any
	switch v := raw.(type) {
	case map[string]any:
		for key := range v {
			if key != "from" && key != "to" {
				return nil, false
			}
		}
		from, to = v["from"], v["to"]
	default:
		rv := reflect.ValueOf(raw)
		if (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Len() != 2 {
			return nil, false
		}
		from, to = rv.Index(0).Interface(), rv.Index(1).Interface()
	}
	if from == nil && to == nil {
		return nil, false
	}

	var b Bounds
	if from != nil {
		v, ok := coerceScalar(t, from)
		if !ok {
			return nil, false
		}
		b.From = v
	}
	if to != nil {
		v, ok := coerceScalar(t, to)
		if !ok {
			return nil, false
		}
		b.To = v
	}
	if b.From != nil && b.To != nil {
		if cmp, ok := Compare(b.From, b.To); !ok || cmp > 0 {
			return nil, false
		}
	}
	return b, true
}
