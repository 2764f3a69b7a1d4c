package entity

import (
	"encoding/json"
	"reflect"

	"github.com/goliatone/go-entity/modelerr"
)

// Set is an ordered collection of entities of one kind. Raw values are
// kept as given and turned into entities the first time they are read.
type Set struct {
	kind  *Kind
	items []any
}

// NewSet returns a set of kind holding raw.
func NewSet(kind *Kind, raw ...any) *Set {
	items := make([]any, len(raw))
	copy(items, raw)
	return &Set{kind: kind, items: items}
}

// Kind returns the declared element kind.
func (s *Set) Kind() *Kind {
	return s.kind
}

// Len counts raw and materialized elements alike.
func (s *Set) Len() int {
	return len(s.items)
}

// Append adds v at the end without materializing it.
func (s *Set) Append(v ...any) {
	s.items = append(s.items, v...)
}

// Put stores v at index i. An index equal to Len appends.
func (s *Set) Put(i int, v any) error {
	switch {
	case i == len(s.items):
		s.items = append(s.items, v)
	case i < 0 || i > len(s.items):
		return modelerr.OutOfRange(i, len(s.items))
	default:
		s.items[i] = v
	}
	return nil
}

// Delete removes the element at index i.
func (s *Set) Delete(i int) error {
	if i < 0 || i >= len(s.items) {
		return modelerr.OutOfRange(i, len(s.items))
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// At returns the element at index i, building it from its raw value on
// first access. The built entity replaces the raw value.
func (s *Set) At(i int) (*Entity, error) {
	if i < 0 || i >= len(s.items) {
		return nil, modelerr.OutOfRange(i, len(s.items))
	}
	if e, ok := s.items[i].(*Entity); ok && e != nil && e.kind == s.kind {
		return e, nil
	}
	if s.kind == nil {
		return nil, modelerr.Configuration("set has no kind bound")
	}
	e, err := s.kind.Coerce(s.items[i])
	if err != nil {
		return nil, err
	}
	s.items[i] = e
	return e, nil
}

// Materialized reports whether index i already holds an entity of the
// set's kind.
func (s *Set) Materialized(i int) bool {
	if i < 0 || i >= len(s.items) {
		return false
	}
	e, ok := s.items[i].(*Entity)
	return ok && e != nil && e.kind == s.kind
}

// Materialize builds every element and returns the first error.
func (s *Set) Materialize() error {
	for i := range s.items {
		if _, err := s.At(i); err != nil {
			return err
		}
	}
	return nil
}

// Each materializes and visits every element in order. It stops at the
// first error returned by fn or by materialization.
func (s *Set) Each(fn func(i int, e *Entity) error) error {
	for i := range s.items {
		e, err := s.At(i)
		if err != nil {
			return err
		}
		if err := fn(i, e); err != nil {
			return err
		}
	}
	return nil
}

// Entities materializes and returns all elements.
func (s *Set) Entities() ([]*Entity, error) {
	out := make([]*Entity, 0, len(s.items))
	err := s.Each(func(_ int, e *Entity) error {
		out = append(out, e)
		return nil
	})
	return out, err
}

// Export materializes every element and returns them as plain maps.
// Elements that cannot be built are exported as a copy of their raw value;
// entities of another kind are exported as their own map.
func (s *Set) Export() []any {
	out := make([]any, len(s.items))
	for i := range s.items {
		e, err := s.At(i)
		if err == nil {
			out[i] = e.Export()
			continue
		}
		switch raw := s.items[i].(type) {
		case *Entity:
			if raw != nil {
				out[i] = raw.Export()
			}
		default:
			out[i] = Clone(raw)
		}
	}
	return out
}

// Aggregate returns the value of field for every element.
func (s *Set) Aggregate(field string) ([]any, error) {
	out := make([]any, 0, len(s.items))
	err := s.Each(func(_ int, e *Entity) error {
		out = append(out, e.Get(field))
		return nil
	})
	return out, err
}

// MarshalJSON encodes the exported set.
func (s *Set) MarshalJSON() ([]byte, error) {
	entities, err := s.Entities()
	if err != nil {
		return nil, err
	}
	return json.Marshal(entities)
}

func toItems(value any) ([]any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, nil
	case []*Entity:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, modelerr.Type("slice", value)
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
