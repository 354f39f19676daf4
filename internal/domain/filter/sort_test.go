package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobApplicationConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := NewConfig("jobApplication", Definition{
		Fields: []FieldSpec{
			String("status"),
			Date("appliedAt"),
			String("coverLetter", Contains).FilterOnly(),
		},
		DefaultSort: []SortKey{{Field: "appliedAt", Direction: Desc}},
	})
	require.NoError(t, err)
	return cfg
}

func TestResolveSort_Fallbacks(t *testing.T) {
	cfg := jobApplicationConfig(t)
	want := []SortKey{{Field: "appliedAt", Direction: Desc}, {Field: "id", Direction: Asc}}

	tests := []struct {
		name      string
		requested *SortKey
	}{
		{"none", nil},
		{"unknown field", &SortKey{Field: "salary", Direction: Asc}},
		{"filter only field", &SortKey{Field: "coverLetter", Direction: Desc}},
		{"internal id is not client sortable", &SortKey{Field: "id", Direction: Desc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, ResolveSort(cfg, tt.requested))
		})
	}
}

func TestResolveSort_Requested(t *testing.T) {
	cfg := jobApplicationConfig(t)

	got := ResolveSort(cfg, &SortKey{Field: "status", Direction: Desc})
	assert.Equal(t, []SortKey{
		{Field: "status", Direction: Desc},
		{Field: "appliedAt", Direction: Desc},
		{Field: "id", Direction: Asc},
	}, got)

	got = ResolveSort(cfg, &SortKey{Field: "appliedAt", Direction: Asc})
	assert.Equal(t, []SortKey{
		{Field: "appliedAt", Direction: Asc},
		{Field: "id", Direction: Asc},
	}, got)

	got = ResolveSort(cfg, &SortKey{Field: "status", Direction: "sideways"})
	assert.Equal(t, Asc, got[0].Direction)
}

func TestResolveSort_TieBreakAlwaysLast(t *testing.T) {
	cfg := MustConfig("education", Definition{
		Fields:  []FieldSpec{String("institution"), String("educationId")},
		IDField: "educationId",
	})

	for _, requested := range []*SortKey{nil, {Field: "institution"}, {Field: "educationId", Direction: Desc}} {
		got := ResolveSort(cfg, requested)
		require.NotEmpty(t, got)
		assert.Equal(t, "educationId", got[len(got)-1].Field)
	}
}

func TestParseSort(t *testing.T) {
	assert.Nil(t, ParseSort(""))
	assert.Nil(t, ParseSort("-"))
	assert.Equal(t, &SortKey{Field: "createdAt", Direction: Desc}, ParseSort("-createdAt"))
	assert.Equal(t, &SortKey{Field: "name", Direction: Asc}, ParseSort("+name"))
	assert.Equal(t, &SortKey{Field: "name", Direction: Asc}, ParseSort(" name "))
}
