package filter

import "strings"

// ResolveSort returns the ORDER BY keys for a request.
//
// A missing, unknown or non-sortable requested field silently falls back to
// the default sort. A usable one is put in front of the default sort (without
// repeating it). The result always ends with the id tie-break, so paging is
// stable even when the leading key has duplicates.
func ResolveSort(cfg *Config, requested *SortKey) []SortKey {
	defaults := cfg.DefaultSort()
	if requested == nil {
		return defaults
	}
	f, ok := cfg.fields[requested.Field]
	if !ok || !f.spec.Sortable {
		return defaults
	}
	dir, ok := normalizeDirection(requested.Direction)
	if !ok {
		dir = Asc
	}

	out := make([]SortKey, 0, len(defaults)+1)
	out = append(out, SortKey{Field: requested.Field, Direction: dir})
	for _, key := range defaults {
		if key.Field != requested.Field {
			out = append(out, key)
		}
	}
	return out
}

// ParseSort parses the "field" / "+field" / "-field" shorthand used by query strings.
// It returns nil for an empty value.
func ParseSort(raw string) *SortKey {
	raw = strings.TrimSpace(raw)
	dir := Asc
	switch {
	case strings.HasPrefix(raw, "-"):
		dir = Desc
		raw = raw[1:]
	case strings.HasPrefix(raw, "+"):
		raw = raw[1:]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &SortKey{Field: raw, Direction: dir}
}
