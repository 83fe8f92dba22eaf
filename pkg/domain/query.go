package domain

import (
	"fmt"
	"reflect"
)

// Operator is a comparison supported by filtered queries.
type Operator int

const (
	OpEqual Operator = iota + 1
	OpNotEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
	OpArrayContains
	OpArrayContainsAny
	OpIn
	OpNotIn
	OpIsNull
	OpIsNotNull
)

// Limits on sequence-valued operands.
const (
	MaxInValues    = 30
	MaxNotInValues = 10
)

var operatorTokens = map[Operator]string{
	OpEqual:              "==",
	OpNotEqual:           "!=",
	OpGreaterThan:        ">",
	OpGreaterThanOrEqual: ">=",
	OpLessThan:           "<",
	OpLessThanOrEqual:    "<=",
	OpArrayContains:      "array-contains",
	OpArrayContainsAny:   "array-contains-any",
	OpIn:                 "in",
	OpNotIn:              "not-in",
	OpIsNull:             "is-null",
	OpIsNotNull:          "is-not-null",
}

func (op Operator) String() string {
	if s, ok := operatorTokens[op]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// Valid reports whether op is one of the known operators.
func (op Operator) Valid() bool {
	_, ok := operatorTokens[op]
	return ok
}

// ParseOperator maps a wire token such as "==" or "array-contains" to an Operator.
func ParseOperator(token string) (Operator, error) {
	for op, s := range operatorTokens {
		if s == token {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, token)
}

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending". Empty means ascending.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidQuery, s)
	}
}

// Filter is a single-field predicate.
type Filter struct {
	Field string
	Op    Operator
	Value interface{}
}

// Validate checks the operator/value combination.
func (f Filter) Validate() error {
	if f.Field == "" {
		return fmt.Errorf("%w: empty field name", ErrInvalidQuery)
	}
	if !f.Op.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, f.Op)
	}
	switch f.Op {
	case OpArrayContainsAny, OpIn, OpNotIn:
		values, ok := Sequence(f.Value)
		if !ok {
			return fmt.Errorf("%w: %s requires a sequence value", ErrInvalidQuery, f.Op)
		}
		if len(values) == 0 {
			return fmt.Errorf("%w: %s requires a non-empty sequence", ErrInvalidQuery, f.Op)
		}
		max := MaxInValues
		if f.Op == OpNotIn {
			max = MaxNotInValues
		}
		if len(values) > max {
			return fmt.Errorf("%w: %s accepts at most %d values, got %d", ErrInvalidQuery, f.Op, max, len(values))
		}
	case OpIsNull, OpIsNotNull:
		if f.Value != nil {
			return fmt.Errorf("%w: %s takes no value", ErrInvalidQuery, f.Op)
		}
	case OpLessThan, OpLessThanOrEqual, OpGreaterThan, OpGreaterThanOrEqual:
		if f.Value == nil {
			return fmt.Errorf("%w: %s requires a value", ErrInvalidQuery, f.Op)
		}
	}
	return nil
}

// Order sorts a read by one field.
type Order struct {
	Field     string
	Direction Direction
}

// Query parameterizes a single read. The zero Query reads the whole collection
// in store order. Limit 0 means no limit.
type Query struct {
	Filters    []Filter
	Order      *Order
	Limit      int
	Offset     int
	StartAfter *Snapshot
}

// Validate checks every part of the query.
func (q Query) Validate() error {
	for _, f := range q.Filters {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	if q.Order != nil && q.Order.Field == "" {
		return fmt.Errorf("%w: empty order field", ErrInvalidQuery)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: limit cannot be negative", ErrInvalidQuery)
	}
	if q.Offset < 0 {
		return fmt.Errorf("%w: offset cannot be negative", ErrInvalidQuery)
	}
	if q.StartAfter != nil && q.StartAfter.ID == "" && q.StartAfter.Position == "" {
		return fmt.Errorf("%w: start-after snapshot has no id", ErrInvalidQuery)
	}
	return nil
}

// Sequence converts any slice or array value to []interface{}.
func Sequence(v interface{}) ([]interface{}, bool) {
	if s, ok := v.([]interface{}); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		// []byte is a scalar, not a sequence
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
