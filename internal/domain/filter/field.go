package filter

import (
	"fmt"
	"sort"
)

// FieldSpec declares one client-controllable field.
// An empty Operators list means the full operator set of Type.
type FieldSpec struct {
	Name      string
	Type      FieldType
	Operators []Operator
	Sortable  bool
}

// String declares a sortable string field.
func String(name string, ops ...Operator) FieldSpec {
	return FieldSpec{Name: name, Type: TypeString, Operators: ops, Sortable: true}
}

// Number declares a sortable number field.
func Number(name string, ops ...Operator) FieldSpec {
	return FieldSpec{Name: name, Type: TypeNumber, Operators: ops, Sortable: true}
}

// Boolean declares a sortable boolean field.
func Boolean(name string, ops ...Operator) FieldSpec {
	return FieldSpec{Name: name, Type: TypeBoolean, Operators: ops, Sortable: true}
}

// Date declares a sortable date field.
func Date(name string, ops ...Operator) FieldSpec {
	return FieldSpec{Name: name, Type: TypeDate, Operators: ops, Sortable: true}
}

// FilterOnly returns a copy of the field spec that cannot be used as a sort key.
func (s FieldSpec) FilterOnly() FieldSpec {
	s.Sortable = false
	return s
}

// field is the normalized, immutable form of a FieldSpec.
type field struct {
	spec FieldSpec
	ops  map[Operator]struct{}
}

func newField(spec FieldSpec) (field, error) {
	if spec.Name == "" {
		return field{}, fmt.Errorf("field name is required")
	}
	if !spec.Type.Valid() {
		return field{}, fmt.Errorf("field %q: unknown type %q", spec.Name, spec.Type)
	}

	ops := spec.Operators
	if len(ops) == 0 {
		ops = spec.Type.Operators()
	}

	set := make(map[Operator]struct{}, len(ops))
	for _, op := range ops {
		if !spec.Type.Permits(op) {
			return field{}, fmt.Errorf("field %q: operator %q is not valid for type %s", spec.Name, op, spec.Type)
		}
		set[op] = struct{}{}
	}

	// Stored spec gets its own sorted copy so callers cannot mutate it.
	normalized := make([]Operator, 0, len(set))
	for op := range set {
		normalized = append(normalized, op)
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i] < normalized[j] })
	spec.Operators = normalized

	return field{spec: spec, ops: set}, nil
}

func (f field) permits(op Operator) bool {
	_, ok := f.ops[op]
	return ok
}

func (f field) public() FieldSpec {
	out := f.spec
	out.Operators = append([]Operator(nil), f.spec.Operators...)
	return out
}
