package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"talentboard/internal/core/entity"
	"talentboard/internal/core/id"
)

type mockRecord struct {
	entity.Base
	entity.SoftDeletable
	Name     string     `db:"name" json:"name"`
	Note     string     `json:"note"`
	Internal string     `db:"-" json:"internal"`
	ReadAt   *time.Time `db:"read_at" json:"readAt"`
}

func TestColumns_FollowEmbeddedStructs(t *testing.T) {
	assert.Equal(t,
		[]string{"id", "created_at", "updated_at", "is_deleted", "name", "read_at"},
		ColumnNames[mockRecord]())

	cols := Columns[mockRecord]()
	assert.Equal(t, "createdAt", cols[1].Field)
	assert.Equal(t, "readAt", cols[5].Field)
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	rec := mockRecord{
		Base:          entity.Base{ID: id.New(), CreatedAt: now, UpdatedAt: now},
		SoftDeletable: entity.SoftDeletable{IsDeleted: true},
		Name:          "Test Name",
		Note:          "not persisted",
	}

	m := StructToMap(rec)

	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, true, m["is_deleted"])
	assert.Equal(t, "Test Name", m["name"])
	assert.Nil(t, m["read_at"])
	assert.Contains(t, m, "read_at")
	assert.NotContains(t, m, "note")
	assert.Len(t, m, 6)

	assert.Equal(t, m, StructToMap(&rec))
	assert.Nil(t, StructToMap((*mockRecord)(nil)))
}
