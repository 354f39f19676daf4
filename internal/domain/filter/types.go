// Package filter is the declarative filtering, sorting and pagination engine.
//
// Every entity registers an immutable Config describing which fields a client
// may filter and sort on. Untrusted QueryRequests are translated against that
// Config into a store-agnostic Predicate that always carries the entity's
// baseline filter.
package filter

// Operator is a comparison a client may request on a field.
type Operator string

const (
	Equals         Operator = "equals"
	Contains       Operator = "contains" // case-insensitive substring
	GreaterThan    Operator = "gt"
	GreaterOrEqual Operator = "gte"
	LessThan       Operator = "lt"
	LessOrEqual    Operator = "lte"
	Range          Operator = "range" // Inclusive [from, to]
	In             Operator = "in"
)

// FieldType is the value type of a filterable field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
)

// operatorTable lists every operator valid for a type. It is also the default
// operator set of a field that does not narrow it.
var operatorTable = map[FieldType][]Operator{
	TypeString:  {Equals, Contains, In},
	TypeNumber:  {Equals, GreaterThan, GreaterOrEqual, LessThan, LessOrEqual, Range, In},
	TypeDate:    {Equals, GreaterThan, GreaterOrEqual, LessThan, LessOrEqual, Range, In},
	TypeBoolean: {Equals},
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	_, ok := operatorTable[t]
	return ok
}

// Operators returns the full operator set of the type.
func (t FieldType) Operators() []Operator {
	ops := operatorTable[t]
	out := make([]Operator, len(ops))
	copy(out, ops)
	return out
}

// Permits reports whether op is meaningful for values of type t.
func (t FieldType) Permits(op Operator) bool {
	for _, candidate := range operatorTable[t] {
		if candidate == op {
			return true
		}
	}
	return false
}

// Item is one filter clause as supplied by the caller.
type Item struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortKey is one ORDER BY entry.
type SortKey struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// QueryRequest is the untrusted list request handed over by the transport.
// Zero Page and Limit mean "not supplied".
type QueryRequest struct {
	Filters []Item   `json:"filters"`
	Sort    *SortKey `json:"sort,omitempty"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}
