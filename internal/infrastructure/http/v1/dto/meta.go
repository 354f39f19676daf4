package dto

import "talentboard/internal/domain/filter"

// FieldResponse describes one client-controllable field.
type FieldResponse struct {
	Name      string            `json:"name"`
	Type      filter.FieldType  `json:"type"`
	Operators []filter.Operator `json:"operators"`
	Sortable  bool              `json:"sortable"`
}

// EntityResponse describes what a client may ask of one entity.
type EntityResponse struct {
	Name         string           `json:"name"`
	Fields       []FieldResponse  `json:"fields"`
	DefaultSort  []filter.SortKey `json:"defaultSort"`
	DefaultLimit int              `json:"defaultLimit"`
	MaxLimit     int              `json:"maxLimit"`
	SoftDelete   bool             `json:"softDelete"`
}

// FromFilterConfig builds the description of cfg. The default filter and
// internal fields are not exposed.
func FromFilterConfig(cfg *filter.Config, softDelete bool) EntityResponse {
	specs := cfg.Fields()
	fields := make([]FieldResponse, len(specs))
	for i, s := range specs {
		fields[i] = FieldResponse{
			Name:      s.Name,
			Type:      s.Type,
			Operators: s.Operators,
			Sortable:  s.Sortable,
		}
	}

	var sortKeys []filter.SortKey
	for _, k := range cfg.DefaultSort() {
		if !cfg.IsInternal(k.Field) {
			sortKeys = append(sortKeys, k)
		}
	}

	return EntityResponse{
		Name:         cfg.Entity(),
		Fields:       fields,
		DefaultSort:  sortKeys,
		DefaultLimit: cfg.DefaultLimit(),
		MaxLimit:     cfg.MaxLimit(),
		SoftDelete:   softDelete,
	}
}
