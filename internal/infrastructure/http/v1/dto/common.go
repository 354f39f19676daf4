// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"encoding/json"
	"strings"

	"talentboard/internal/core/apperror"
	"talentboard/internal/domain/filter"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// IDResponse contains created entity ID.
type IDResponse struct {
	ID string `json:"id"`
}

// ListParams are the query-string parameters of GET /{entity}.
//
//	?page=2&limit=20&sort=-createdAt&filter=isActive:equals:true&filter=status:in:applied,offered
//
// Page and Limit stay strings so malformed values surface as INVALID_PAGINATION.
type ListParams struct {
	Page    string   `form:"page"`
	Limit   string   `form:"limit"`
	Sort    string   `form:"sort"`
	Filters []string `form:"filter"`
}

// ToQueryRequest converts the parameters into an engine request.
func (p ListParams) ToQueryRequest() (filter.QueryRequest, error) {
	page, limit, err := filter.ParsePageParams(p.Page, p.Limit)
	if err != nil {
		return filter.QueryRequest{}, err
	}

	items := make([]filter.Item, 0, len(p.Filters))
	for _, raw := range p.Filters {
		item, err := ParseFilterItem(raw)
		if err != nil {
			return filter.QueryRequest{}, err
		}
		items = append(items, item)
	}

	return filter.QueryRequest{
		Filters: items,
		Sort:    filter.ParseSort(p.Sort),
		Page:    page,
		Limit:   limit,
	}, nil
}

// QueryBody is the body of POST /{entity}/query. Page and Limit are kept
// raw so a string or fractional value is reported as INVALID_PAGINATION
// rather than as a malformed body.
type QueryBody struct {
	Filters []filter.Item   `json:"filters"`
	Sort    *filter.SortKey `json:"sort,omitempty"`
	Page    any             `json:"page"`
	Limit   any             `json:"limit"`
}

// ToQueryRequest converts the body into an engine request.
// It expects numbers decoded as json.Number.
func (b QueryBody) ToQueryRequest() (filter.QueryRequest, error) {
	page, err := pageNumber("page", b.Page)
	if err != nil {
		return filter.QueryRequest{}, err
	}
	limit, err := pageNumber("limit", b.Limit)
	if err != nil {
		return filter.QueryRequest{}, err
	}
	return filter.QueryRequest{
		Filters: b.Filters,
		Sort:    b.Sort,
		Page:    page,
		Limit:   limit,
	}, nil
}

// pageNumber accepts an absent value or a non-negative JSON integer.
func pageNumber(param string, v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		page, _, err := filter.ParsePageParams(n.String(), "")
		if err != nil {
			return 0, apperror.NewInvalidPagination(param, n.String())
		}
		return page, nil
	default:
		return 0, apperror.NewInvalidPagination(param, v)
	}
}

// ParseFilterItem parses "field:operator:value". The value may contain ':'.
// For in the value is a comma separated list; for range it is "from,to" where
// an empty side is open.
func ParseFilterItem(raw string) (filter.Item, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return filter.Item{}, apperror.NewValidation("filter must be field:operator:value").
			WithDetail("filter", raw)
	}

	item := filter.Item{
		Field:    strings.TrimSpace(parts[0]),
		Operator: filter.Operator(strings.TrimSpace(parts[1])),
	}
	value := parts[2]

	switch item.Operator {
	case filter.In:
		values := strings.Split(value, ",")
		list := make([]any, 0, len(values))
		for _, v := range values {
			list = append(list, strings.TrimSpace(v))
		}
		item.Value = list
	case filter.Range:
		from, to, ok := strings.Cut(value, ",")
		if !ok {
			return filter.Item{}, apperror.NewValidation("range value must be from,to").
				WithDetail("filter", raw)
		}
		item.Value = []any{boundOrNil(from), boundOrNil(to)}
	default:
		item.Value = value
	}
	return item, nil
}

func boundOrNil(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
