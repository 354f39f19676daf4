package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentboard/internal/core/apperror"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name             string
		page, limit, max int
		want             Page
	}{
		{"clamps page and limit", 0, 500, 100, Page{Page: 1, Limit: 100, Offset: 0}},
		{"zero limit becomes one", 1, 0, 100, Page{Page: 1, Limit: 1, Offset: 0}},
		{"regular window", 3, 20, 100, Page{Page: 3, Limit: 20, Offset: 40}},
		{"past the end is fine", 1000, 10, 100, Page{Page: 1000, Limit: 10, Offset: 9990}},
		{"missing max uses default", 1, 1000, 0, Page{Page: 1, Limit: DefaultMaxLimit, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Paginate(tt.page, tt.limit, tt.max)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginate_LimitAlwaysInBounds(t *testing.T) {
	for _, limit := range []int{0, 1, 2, 99, 100, 101, 1000, math.MaxInt32} {
		got, err := Paginate(1, limit, 100)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Limit, 1)
		assert.LessOrEqual(t, got.Limit, 100)
	}
}

func TestPaginate_Invalid(t *testing.T) {
	_, err := Paginate(-1, 10, 100)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPagination))

	_, err = Paginate(1, -5, 100)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPagination))

	_, err = Paginate(math.MaxInt, 100, 100)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPagination))
}

func TestPaginateFor_UsesEntityDefault(t *testing.T) {
	cfg := MustConfig("job", Definition{DefaultLimit: 25, MaxLimit: 50})

	got, err := PaginateFor(cfg, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Page{Page: 1, Limit: 25, Offset: 0}, got)

	got, err = PaginateFor(cfg, 2, 500)
	require.NoError(t, err)
	assert.Equal(t, Page{Page: 2, Limit: 50, Offset: 50}, got)
}

func TestParsePageParams(t *testing.T) {
	page, limit, err := ParsePageParams("", " 30 ")
	require.NoError(t, err)
	assert.Equal(t, 0, page)
	assert.Equal(t, 30, limit)

	for _, raw := range [][2]string{{"abc", ""}, {"", "1.5"}, {"-2", ""}} {
		_, _, err := ParsePageParams(raw[0], raw[1])
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidPagination, appErr.Code)
	}
}
