package filter

import (
	"math"
	"strconv"
	"strings"

	"talentboard/internal/core/apperror"
)

// Page is a resolved pagination window.
type Page struct {
	Page   int
	Limit  int
	Offset int
}

// Paginate clamps page to >= 1 and limit to [1, maxLimit] and computes the offset.
//
// Out-of-range values are clamped, never rejected: paging past the end of the
// data is a normal request that yields an empty page. Only negative inputs and
// windows whose offset does not fit in an int fail with INVALID_PAGINATION.
func Paginate(page, limit, maxLimit int) (Page, error) {
	if page < 0 {
		return Page{}, apperror.NewInvalidPagination("page", page)
	}
	if limit < 0 {
		return Page{}, apperror.NewInvalidPagination("limit", limit)
	}
	if maxLimit < 1 {
		maxLimit = DefaultMaxLimit
	}

	page = max(page, 1)
	limit = min(max(limit, 1), maxLimit)

	if page-1 > math.MaxInt/limit {
		return Page{}, apperror.NewInvalidPagination("page", page)
	}

	return Page{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}, nil
}

// PaginateFor resolves a request window against cfg: a zero limit means the
// entity's default page size.
func PaginateFor(cfg *Config, page, limit int) (Page, error) {
	if limit == 0 {
		limit = cfg.DefaultLimit()
	}
	return Paginate(page, limit, cfg.MaxLimit())
}

// ParsePageParams coerces raw query-string values. Empty values become 0
// ("not supplied").
func ParsePageParams(rawPage, rawLimit string) (page, limit int, err error) {
	if page, err = parseNonNegative("page", rawPage); err != nil {
		return 0, 0, err
	}
	if limit, err = parseNonNegative("limit", rawLimit); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func parseNonNegative(param, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.NewInvalidPagination(param, raw)
	}
	return n, nil
}
