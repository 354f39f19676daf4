package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// FieldDeclaration is the declared shape of one allowed field.
type FieldDeclaration struct {
	Type      string   `yaml:"type" json:"type"`
	Operators []string `yaml:"operators,omitempty" json:"operators,omitempty"`
	Sortable  *bool    `yaml:"sortable,omitempty" json:"sortable,omitempty"`
}

// Declaration is the data-driven form of a Definition, as loaded from a
// declarations file:
//
//	allowedFields:
//	  name:          {type: string}
//	  jobCategoryId: {type: string, operators: [equals]}
//	defaultFilter: {isActive: true}
//	defaultSort:   {createdAt: -1}
type Declaration struct {
	AllowedFields  map[string]FieldDeclaration `yaml:"allowedFields" json:"allowedFields"`
	DefaultFilter  map[string]any              `yaml:"defaultFilter,omitempty" json:"defaultFilter,omitempty"`
	DefaultSort    SortDeclaration             `yaml:"defaultSort,omitempty" json:"defaultSort,omitempty"`
	InternalFields []string                    `yaml:"internalFields,omitempty" json:"internalFields,omitempty"`
	IDField        string                      `yaml:"idField,omitempty" json:"idField,omitempty"`
	DefaultLimit   int                         `yaml:"defaultLimit,omitempty" json:"defaultLimit,omitempty"`
	MaxLimit       int                         `yaml:"maxLimit,omitempty" json:"maxLimit,omitempty"`
}

// SortDeclaration is an ordered list of sort keys. It decodes from a mapping
// ({createdAt: -1, name: 1}, document order kept) or from a list of
// single-key mappings.
type SortDeclaration []SortKey

// UnmarshalYAML keeps mapping order, which plain map decoding would lose.
func (s *SortDeclaration) UnmarshalYAML(node *yaml.Node) error {
	var keys []SortKey
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := sortKeyFromNode(node.Content[i].Value, node.Content[i+1])
			if err != nil {
				return err
			}
			keys = append(keys, key)
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
				return fmt.Errorf("line %d: default sort entry must be a single-key mapping", item.Line)
			}
			key, err := sortKeyFromNode(item.Content[0].Value, item.Content[1])
			if err != nil {
				return err
			}
			keys = append(keys, key)
		}
	default:
		return fmt.Errorf("line %d: default sort must be a mapping or a list", node.Line)
	}
	*s = keys
	return nil
}

func sortKeyFromNode(field string, value *yaml.Node) (SortKey, error) {
	dir, ok := normalizeDirection(Direction(value.Value))
	if !ok {
		return SortKey{}, fmt.Errorf("line %d: sort direction of %q must be 1 or -1", value.Line, field)
	}
	return SortKey{Field: field, Direction: dir}, nil
}

// UnmarshalJSON reads the object token by token so key order survives.
func (s *SortDeclaration) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []map[string]json.Number
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("default sort: %w", err)
		}
		keys := make([]SortKey, 0, len(list))
		for _, entry := range list {
			if len(entry) != 1 {
				return fmt.Errorf("default sort entry must have exactly one field")
			}
			for field, dir := range entry {
				key, err := sortKeyFromNumber(field, dir)
				if err != nil {
					return err
				}
				keys = append(keys, key)
			}
		}
		*s = keys
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return fmt.Errorf("default sort must be an object or an array")
	}
	var keys []SortKey
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("default sort: %w", err)
		}
		field, _ := tok.(string)
		var dir json.Number
		if err := dec.Decode(&dir); err != nil {
			return fmt.Errorf("default sort %q: %w", field, err)
		}
		key, err := sortKeyFromNumber(field, dir)
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}
	*s = keys
	return nil
}

func sortKeyFromNumber(field string, n json.Number) (SortKey, error) {
	dir, ok := normalizeDirection(Direction(n.String()))
	if !ok {
		return SortKey{}, fmt.Errorf("sort direction of %q must be 1 or -1", field)
	}
	return SortKey{Field: field, Direction: dir}, nil
}

// Definition converts the declaration into a Definition.
// Fields and default filter clauses are ordered by name for determinism.
func (d Declaration) Definition() (Definition, error) {
	names := make([]string, 0, len(d.AllowedFields))
	for name := range d.AllowedFields {
		names = append(names, name)
	}
	sort.Strings(names)

	def := Definition{
		Fields:         make([]FieldSpec, 0, len(names)),
		InternalFields: append([]string(nil), d.InternalFields...),
		IDField:        d.IDField,
		DefaultSort:    append([]SortKey(nil), d.DefaultSort...),
		DefaultLimit:   d.DefaultLimit,
		MaxLimit:       d.MaxLimit,
	}

	for _, name := range names {
		fd := d.AllowedFields[name]
		spec := FieldSpec{Name: name, Type: FieldType(fd.Type), Sortable: true}
		if fd.Sortable != nil {
			spec.Sortable = *fd.Sortable
		}
		if fd.Operators != nil && len(fd.Operators) == 0 {
			return Definition{}, fmt.Errorf("field %q: operators list is empty", name)
		}
		for _, op := range fd.Operators {
			spec.Operators = append(spec.Operators, Operator(op))
		}
		def.Fields = append(def.Fields, spec)
	}

	filterFields := make([]string, 0, len(d.DefaultFilter))
	for name := range d.DefaultFilter {
		filterFields = append(filterFields, name)
	}
	sort.Strings(filterFields)
	for _, name := range filterFields {
		def.DefaultFilter = append(def.DefaultFilter, Item{Field: name, Operator: Equals, Value: d.DefaultFilter[name]})
	}

	return def, nil
}

// Build validates the declaration and returns the Config of entity.
func (d Declaration) Build(entity string) (*Config, error) {
	def, err := d.Definition()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entity, err)
	}
	return NewConfig(entity, def)
}

// declarationsFile is the top-level shape of a declarations file.
type declarationsFile struct {
	Entities map[string]Declaration `yaml:"entities"`
}

// LoadDeclarations reads a YAML declarations file keyed by entity name.
func LoadDeclarations(path string) (map[string]Declaration, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read declarations %s: %w", path, err)
	}
	return ParseDeclarations(data)
}

// ParseDeclarations decodes YAML declarations keyed by entity name.
func ParseDeclarations(data []byte) (map[string]Declaration, error) {
	var file declarationsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse declarations: %w", err)
	}
	return file.Entities, nil
}
