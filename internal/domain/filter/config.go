package filter

import (
	"fmt"
	"sort"
)

// Pagination defaults applied when a Definition leaves them unset.
const (
	DefaultLimit    = 20
	DefaultMaxLimit = 100
)

// DefaultIDField is the tie-break sort key when a Definition does not name one.
const DefaultIDField = "id"

// Definition is the input used to build a Config.
type Definition struct {
	// Fields are the client-controllable fields.
	Fields []FieldSpec

	// InternalFields may appear in DefaultFilter/DefaultSort but are never
	// visible to clients (e.g. a soft-delete flag).
	InternalFields []string

	// IDField is the unique identifier used as the final sort tie-break.
	IDField string

	// DefaultFilter is ANDed into every translated predicate.
	DefaultFilter []Item

	// DefaultSort is used when the client asks for nothing usable.
	DefaultSort []SortKey

	DefaultLimit int
	MaxLimit     int
}

// Config is the immutable per-entity filter configuration.
// All state is unexported; accessors hand out copies.
type Config struct {
	entity        string
	idField       string
	fields        map[string]field
	internal      map[string]struct{}
	defaultFilter Predicate
	defaultSort   []SortKey
	defaultLimit  int
	maxLimit      int
}

// NewConfig validates def and builds the Config of entity.
// Errors here are configuration mistakes and should stop the process at startup.
func NewConfig(entity string, def Definition) (*Config, error) {
	if entity == "" {
		return nil, fmt.Errorf("entity name is required")
	}

	cfg := &Config{
		entity:       entity,
		idField:      def.IDField,
		fields:       make(map[string]field, len(def.Fields)),
		internal:     make(map[string]struct{}, len(def.InternalFields)+1),
		defaultLimit: def.DefaultLimit,
		maxLimit:     def.MaxLimit,
	}
	if cfg.idField == "" {
		cfg.idField = DefaultIDField
	}

	for _, spec := range def.Fields {
		if _, dup := cfg.fields[spec.Name]; dup {
			return nil, fmt.Errorf("%s: field %q declared twice", entity, spec.Name)
		}
		f, err := newField(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entity, err)
		}
		cfg.fields[spec.Name] = f
	}

	for _, name := range def.InternalFields {
		if _, clash := cfg.fields[name]; clash {
			return nil, fmt.Errorf("%s: field %q is both public and internal", entity, name)
		}
		cfg.internal[name] = struct{}{}
	}
	if _, public := cfg.fields[cfg.idField]; !public {
		cfg.internal[cfg.idField] = struct{}{}
	}

	if err := cfg.buildDefaultFilter(def.DefaultFilter); err != nil {
		return nil, err
	}
	if err := cfg.buildDefaultSort(def.DefaultSort); err != nil {
		return nil, err
	}

	if cfg.maxLimit <= 0 {
		cfg.maxLimit = DefaultMaxLimit
	}
	if cfg.defaultLimit <= 0 {
		cfg.defaultLimit = min(DefaultLimit, cfg.maxLimit)
	}
	if cfg.defaultLimit > cfg.maxLimit {
		return nil, fmt.Errorf("%s: default limit %d exceeds max limit %d", entity, cfg.defaultLimit, cfg.maxLimit)
	}

	return cfg, nil
}

// MustConfig is NewConfig for package-level declarations; it panics on error.
func MustConfig(entity string, def Definition) *Config {
	cfg, err := NewConfig(entity, def)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) buildDefaultFilter(items []Item) error {
	conds := make([]Condition, 0, len(items))
	for _, item := range items {
		if f, ok := c.fields[item.Field]; ok {
			// Baseline clauses are trusted: any operator of the type is fine.
			if !f.spec.Type.Permits(item.Operator) {
				return fmt.Errorf("%s: default filter operator %q is not valid for field %q", c.entity, item.Operator, item.Field)
			}
			value, ok := coerceValue(f.spec.Type, item.Operator, item.Value)
			if !ok {
				return fmt.Errorf("%s: default filter value %v does not match field %q", c.entity, item.Value, item.Field)
			}
			conds = append(conds, Condition{Field: item.Field, Operator: item.Operator, Value: value})
			continue
		}
		if _, ok := c.internal[item.Field]; ok {
			if !knownOperator(item.Operator) {
				return fmt.Errorf("%s: default filter operator %q is unknown", c.entity, item.Operator)
			}
			conds = append(conds, Condition{Field: item.Field, Operator: item.Operator, Value: item.Value})
			continue
		}
		return fmt.Errorf("%s: default filter references unknown field %q", c.entity, item.Field)
	}
	c.defaultFilter = NewPredicate(conds...)
	return nil
}

func (c *Config) buildDefaultSort(keys []SortKey) error {
	sorted := make([]SortKey, 0, len(keys)+1)
	seen := make(map[string]struct{}, len(keys)+1)
	for _, key := range keys {
		if !c.knows(key.Field) {
			return fmt.Errorf("%s: default sort references unknown field %q", c.entity, key.Field)
		}
		dir, ok := normalizeDirection(key.Direction)
		if !ok {
			return fmt.Errorf("%s: default sort direction %q is invalid", c.entity, key.Direction)
		}
		if _, dup := seen[key.Field]; dup {
			continue
		}
		seen[key.Field] = struct{}{}
		sorted = append(sorted, SortKey{Field: key.Field, Direction: dir})
	}
	if _, ok := seen[c.idField]; !ok {
		sorted = append(sorted, SortKey{Field: c.idField, Direction: Asc})
	}
	c.defaultSort = sorted
	return nil
}

func (c *Config) knows(name string) bool {
	if _, ok := c.fields[name]; ok {
		return true
	}
	_, ok := c.internal[name]
	return ok
}

// Entity returns the entity name the config was built for.
func (c *Config) Entity() string { return c.entity }

// IDField returns the tie-break field.
func (c *Config) IDField() string { return c.idField }

// DefaultLimit returns the page size used when the client sends none.
func (c *Config) DefaultLimit() int { return c.defaultLimit }

// MaxLimit returns the largest page size a client can get.
func (c *Config) MaxLimit() int { return c.maxLimit }

// Field returns the client-visible spec of name.
func (c *Config) Field(name string) (FieldSpec, bool) {
	f, ok := c.fields[name]
	if !ok {
		return FieldSpec{}, false
	}
	return f.public(), true
}

// Fields returns all client-visible specs ordered by name.
func (c *Config) Fields() []FieldSpec {
	out := make([]FieldSpec, 0, len(c.fields))
	for _, f := range c.fields {
		out = append(out, f.public())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsInternal reports whether name is an entity-internal field.
func (c *Config) IsInternal(name string) bool {
	_, ok := c.internal[name]
	return ok
}

// Verify returns an error naming every referenced field, client-visible or
// internal, that has rejects. Default filter and sort can only name such
// fields, so they are covered too.
func (c *Config) Verify(has func(name string) bool) error {
	names := make([]string, 0, len(c.fields)+len(c.internal)+1)
	for name := range c.fields {
		names = append(names, name)
	}
	for name := range c.internal {
		names = append(names, name)
	}
	names = append(names, c.idField)
	sort.Strings(names)

	var missing []string
	for i, name := range names {
		if i > 0 && names[i-1] == name {
			continue
		}
		if !has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: unknown fields %v", c.entity, missing)
	}
	return nil
}

// DefaultFilter returns the baseline predicate.
func (c *Config) DefaultFilter() Predicate { return c.defaultFilter }

// DefaultSort returns a copy of the default sort; it always ends with the id tie-break.
func (c *Config) DefaultSort() []SortKey {
	out := make([]SortKey, len(c.defaultSort))
	copy(out, c.defaultSort)
	return out
}

func normalizeDirection(d Direction) (Direction, bool) {
	switch d {
	case "", Asc, "ASC", "1":
		return Asc, true
	case Desc, "DESC", "-1":
		return Desc, true
	}
	return "", false
}

func knownOperator(op Operator) bool {
	for _, ops := range operatorTable {
		for _, candidate := range ops {
			if candidate == op {
				return true
			}
		}
	}
	return false
}
