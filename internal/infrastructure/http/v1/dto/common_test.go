package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentboard/internal/core/apperror"
	"talentboard/internal/domain/filter"
)

func TestParseFilterItem(t *testing.T) {
	tests := []struct {
		raw  string
		want filter.Item
	}{
		{"isActive:equals:true", filter.Item{Field: "isActive", Operator: filter.Equals, Value: "true"}},
		{"status:in:applied, offered", filter.Item{Field: "status", Operator: filter.In, Value: []any{"applied", "offered"}}},
		{"gpa:range:2.5,3.5", filter.Item{Field: "gpa", Operator: filter.Range, Value: []any{"2.5", "3.5"}}},
		{"gpa:range:,3.5", filter.Item{Field: "gpa", Operator: filter.Range, Value: []any{nil, "3.5"}}},
		{"appliedAt:gte:2025-01-01T10:00:00Z", filter.Item{Field: "appliedAt", Operator: filter.GreaterOrEqual, Value: "2025-01-01T10:00:00Z"}},
		{"name:contains:", filter.Item{Field: "name", Operator: filter.Contains, Value: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseFilterItem(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilterItem_Malformed(t *testing.T) {
	for _, raw := range []string{"isActive", "isActive:true", ":equals:x", "gpa:range:3"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseFilterItem(raw)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		})
	}
}

func TestListParams_ToQueryRequest(t *testing.T) {
	req, err := ListParams{
		Page:    "2",
		Limit:   "10",
		Sort:    "-name",
		Filters: []string{"jobCategoryId:equals:cat1"},
	}.ToQueryRequest()
	require.NoError(t, err)

	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 10, req.Limit)
	assert.Equal(t, &filter.SortKey{Field: "name", Direction: filter.Desc}, req.Sort)
	assert.Equal(t, []filter.Item{{Field: "jobCategoryId", Operator: filter.Equals, Value: "cat1"}}, req.Filters)

	empty, err := ListParams{}.ToQueryRequest()
	require.NoError(t, err)
	assert.Zero(t, empty.Page)
	assert.Nil(t, empty.Sort)

	_, err = ListParams{Page: "-1"}.ToQueryRequest()
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPagination))
}

func TestQueryBody_ToQueryRequest(t *testing.T) {
	req, err := QueryBody{Page: json.Number("3"), Limit: json.Number("25")}.ToQueryRequest()
	require.NoError(t, err)
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 25, req.Limit)

	empty, err := QueryBody{}.ToQueryRequest()
	require.NoError(t, err)
	assert.Zero(t, empty.Page)
	assert.Zero(t, empty.Limit)

	for _, bad := range []QueryBody{
		{Page: "2"},
		{Limit: json.Number("2.5")},
		{Limit: json.Number("1e2")},
		{Page: json.Number("-4")},
		{Page: true},
	} {
		_, err := bad.ToQueryRequest()
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPagination), "%+v", bad)
	}
}
