package entity

// Property stores and normalizes the value of a single entity field.
type Property interface {
	Set(value any) error
	Get() any
	Import(value any) error
	Export() any
}

// Computed derives a field from sibling fields of the owning entity. The
// owner is passed on every call and never retained.
type Computed interface {
	SetOn(e *Entity, value any) error
	GetFrom(e *Entity) any
}

// Value is the pass-through property used for undeclared fields.
type Value struct {
	value any
}

// NewValue returns a pass-through property holding v.
func NewValue(v any) *Value {
	return &Value{value: Clone(v)}
}

// Set stores a deep copy of maps and slices, so the property never aliases
// the caller's value.
func (p *Value) Set(value any) error {
	p.value = Clone(value)
	return nil
}

func (p *Value) Get() any {
	return p.value
}

func (p *Value) Import(value any) error {
	return p.Set(value)
}

// Export returns a copy of the stored value, flattening entities and sets
// that were assigned to an untyped field.
func (p *Value) Export() any {
	switch v := p.value.(type) {
	case *Entity:
		if v == nil {
			return nil
		}
		return v.Export()
	case *Set:
		if v == nil {
			return nil
		}
		return v.Export()
	default:
		return Clone(p.value)
	}
}
