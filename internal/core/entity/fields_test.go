package entity

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Base
	SoftDeletable

	Name    string     `db:"name" json:"name,omitempty"`
	Started *time.Time `db:"started_at" json:"startedAt"`
	Score   int        `db:"-" json:"score"`
	Secret  string     `db:"secret" json:"-"`
}

func TestFields(t *testing.T) {
	fields := Fields[sample]()

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "createdAt", "updatedAt", "isDeleted", "name", "startedAt", "score"}, names)

	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	assert.Equal(t, reflect.TypeOf(time.Time{}), byName["startedAt"].Type, "pointers are removed")
	assert.Equal(t, reflect.TypeOf(""), byName["name"].Type)
}

func TestColumnMap(t *testing.T) {
	columns := ColumnMap[sample]()

	assert.Equal(t, "started_at", columns["startedAt"])
	assert.Equal(t, SoftDeleteColumn, columns[SoftDeleteField])
	_, ok := columns["score"]
	assert.False(t, ok, "fields without a column are not persisted")
}

func TestBase_GetID(t *testing.T) {
	b := NewBase()
	assert.Equal(t, b.ID, b.GetID())
}
