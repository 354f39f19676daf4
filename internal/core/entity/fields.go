package entity

import (
	"reflect"
	"strings"
	"sync"
)

// Field maps the client-facing (json) name of a struct field to its store column.
type Field struct {
	Name   string // json name
	Column string // db tag, empty when the field is not persisted in a column

	// Type is the Go type of the field with pointers removed.
	Type reflect.Type
}

var fieldCache sync.Map // map[reflect.Type][]Field

// Fields returns the json/db mapping of T, following embedded structs.
// Fields without a json name are skipped. The result is computed once per type.
func Fields[T any]() []Field {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]Field)
	}
	fields := fieldsOf(t)
	fieldCache.Store(t, fields)
	return fields
}

// ColumnMap returns json name -> column for every persisted field of T.
func ColumnMap[T any]() map[string]string {
	fields := Fields[T]()
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.Column != "" {
			out[f.Name] = f.Column
		}
	}
	return out
}

func fieldsOf(t reflect.Type) []Field {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var out []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			out = append(out, fieldsOf(sf.Type)...)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		column := sf.Tag.Get("db")
		if column == "-" {
			column = ""
		}
		ft := sf.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		out = append(out, Field{Name: name, Column: column, Type: ft})
	}
	return out
}
