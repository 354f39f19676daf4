package postgres

import (
	"reflect"
	"strings"
	"sync"
)

// Column describes one persisted struct field.
type Column struct {
	Name  string // db tag
	Field string // json name, empty when the field has none
	index []int  // path through embedded structs
}

// Global cache for type metadata (thread-safe).
var columnCache sync.Map // map[reflect.Type][]Column

// Columns returns the persisted columns of T in declaration order,
// following embedded structs (like entity.Base). Computed once per type.
//
// Usage:
//
//	cols := Columns[skill.Skill]()
//	// id, created_at, updated_at, name, job_category_id, is_active
func Columns[T any]() []Column {
	return columnsOf(reflect.TypeOf((*T)(nil)).Elem())
}

// ColumnNames returns the db tag of every persisted field of T.
func ColumnNames[T any]() []string {
	cols := Columns[T]()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func columnsOf(t reflect.Type) []Column {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]Column)
	}
	cols := collectColumns(t, nil)
	columnCache.Store(t, cols)
	return cols
}

func collectColumns(t reflect.Type, parent []int) []Column {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []Column
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		// Embedded value structs contribute their columns
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			cols = append(cols, collectColumns(sf.Type, index)...)
			continue
		}

		tag := sf.Tag.Get("db")
		if tag == "" || tag == "-" || !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			name = ""
		}
		cols = append(cols, Column{Name: tag, Field: name, index: index})
	}
	return cols
}

// StructToMap converts a struct to column -> value using "db" tags.
// Nil pointers become nil so they are written as NULL.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	cols := columnsOf(rv.Type())
	res := make(map[string]any, len(cols))
	for _, c := range cols {
		fv := rv.FieldByIndex(c.index)
		if fv.Kind() == reflect.Ptr && fv.IsNil() {
			res[c.Name] = nil
			continue
		}
		res[c.Name] = fv.Interface()
	}
	return res
}
