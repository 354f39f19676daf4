package filter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{"range on boolean", Definition{Fields: []FieldSpec{Boolean("isActive", Range)}}},
		{"contains on number", Definition{Fields: []FieldSpec{Number("salary", Contains)}}},
		{"unknown type", Definition{Fields: []FieldSpec{{Name: "x", Type: "uuid"}}}},
		{"duplicate field", Definition{Fields: []FieldSpec{String("name"), String("name")}}},
		{"unknown default sort", Definition{
			Fields:      []FieldSpec{String("name")},
			DefaultSort: []SortKey{{Field: "createdAt", Direction: Desc}},
		}},
		{"bad default sort direction", Definition{
			Fields:      []FieldSpec{String("name")},
			DefaultSort: []SortKey{{Field: "name", Direction: "up"}},
		}},
		{"unknown default filter", Definition{
			Fields:        []FieldSpec{String("name")},
			DefaultFilter: []Item{{Field: "isActive", Operator: Equals, Value: true}},
		}},
		{"default filter wrong type", Definition{
			Fields:        []FieldSpec{Boolean("isActive")},
			DefaultFilter: []Item{{Field: "isActive", Operator: Equals, Value: "maybe"}},
		}},
		{"public and internal", Definition{
			Fields:         []FieldSpec{Boolean("isDeleted")},
			InternalFields: []string{"isDeleted"},
		}},
		{"default limit above max", Definition{DefaultLimit: 50, MaxLimit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig("job", tt.def)
			assert.Error(t, err)
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig("notification", Definition{
		Fields:         []FieldSpec{String("title"), Date("createdAt"), String("body").FilterOnly()},
		InternalFields: []string{"isDeleted"},
		DefaultSort:    []SortKey{{Field: "createdAt", Direction: Desc}},
	})
	require.NoError(t, err)

	assert.Equal(t, "notification", cfg.Entity())
	assert.Equal(t, DefaultIDField, cfg.IDField())
	assert.Equal(t, DefaultLimit, cfg.DefaultLimit())
	assert.Equal(t, DefaultMaxLimit, cfg.MaxLimit())
	assert.True(t, cfg.IsInternal("isDeleted"))
	assert.True(t, cfg.IsInternal("id"))
	assert.Equal(t, []SortKey{{Field: "createdAt", Direction: Desc}, {Field: "id", Direction: Asc}}, cfg.DefaultSort())

	body, ok := cfg.Field("body")
	require.True(t, ok)
	assert.False(t, body.Sortable)

	title, ok := cfg.Field("title")
	require.True(t, ok)
	assert.ElementsMatch(t, []Operator{Equals, Contains, In}, title.Operators)

	names := make([]string, 0)
	for _, f := range cfg.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"body", "createdAt", "title"}, names)
}

func TestConfig_AccessorsReturnCopies(t *testing.T) {
	cfg := skillConfig(t)

	sortKeys := cfg.DefaultSort()
	sortKeys[0].Field = "hacked"
	assert.Equal(t, "id", cfg.DefaultSort()[0].Field)

	spec, _ := cfg.Field("name")
	spec.Operators[0] = "$regex"
	again, _ := cfg.Field("name")
	assert.NotContains(t, again.Operators, Operator("$regex"))

	conds := cfg.DefaultFilter().Conditions()
	conds[0].Value = false
	assert.Equal(t, true, cfg.DefaultFilter().Conditions()[0].Value)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	cfg := skillConfig(t)

	require.NoError(t, reg.Register("skill", cfg))
	assert.Error(t, reg.Register("skill", cfg), "duplicate entity")
	assert.Error(t, reg.Register("education", cfg), "name must match config")
	assert.Error(t, reg.Register("skill", nil))

	assert.Same(t, cfg, reg.Get("skill"))
	_, ok := reg.Lookup("applicant")
	assert.False(t, ok)
	assert.Panics(t, func() { reg.Get("applicant") })

	reg.Freeze()
	assert.Error(t, reg.Register("applicant", applicantConfig(t)))
	assert.Equal(t, []string{"skill"}, reg.Entities())
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("skill", skillConfig(t))
	reg.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg := reg.Get("skill")
			_, err := Translate(cfg, []Item{{Field: "name", Operator: Contains, Value: "go"}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestConfig_Verify(t *testing.T) {
	cfg := MustConfig("skill", Definition{
		Fields:         []FieldSpec{String("name"), Boolean("isActive")},
		InternalFields: []string{"isDeleted"},
		DefaultFilter:  []Item{{Field: "isDeleted", Operator: Equals, Value: false}},
		DefaultSort:    []SortKey{{Field: "name", Direction: Asc}},
	})

	known := map[string]bool{"id": true, "name": true, "isActive": true, "isDeleted": true}
	assert.NoError(t, cfg.Verify(func(name string) bool { return known[name] }))

	delete(known, "name")
	delete(known, "isDeleted")
	err := cfg.Verify(func(name string) bool { return known[name] })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[isDeleted name]")
}
