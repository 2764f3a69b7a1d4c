package entity

import (
	"github.com/goliatone/go-entity/modelerr"
)

// HasOne holds a single nested entity of a bound kind.
type HasOne struct {
	kind  *Kind
	value *Entity
}

// NewHasOne returns a relation to kind. A nil kind makes every Set fail
// with a configuration error.
func NewHasOne(kind *Kind) *HasOne {
	return &HasOne{kind: kind}
}

func (p *HasOne) Set(value any) error {
	if p.kind == nil {
		return modelerr.Configuration("has-one relation has no kind bound")
	}
	if value == nil {
		p.value = nil
		return nil
	}
	e, err := p.kind.Coerce(value)
	if err != nil {
		return err
	}
	p.value = e
	return nil
}

func (p *HasOne) Get() any {
	if p.value == nil {
		return nil
	}
	return p.value
}

func (p *HasOne) Import(value any) error {
	return p.Set(value)
}

// Export returns the nested entity as a plain map, empty when unset.
func (p *HasOne) Export() any {
	if p.value == nil {
		return map[string]any{}
	}
	return p.value.Export()
}

// Entity returns the related entity or nil.
func (p *HasOne) Entity() *Entity {
	return p.value
}

// Kind returns the bound kind.
func (p *HasOne) Kind() *Kind {
	return p.kind
}

// HasMany holds a lazily materialized set of entities of a bound kind.
type HasMany struct {
	kind  *Kind
	value *Set
}

// NewHasMany returns a relation to many entities of kind.
func NewHasMany(kind *Kind) *HasMany {
	return &HasMany{kind: kind}
}

func (p *HasMany) Set(value any) error {
	if p.kind == nil {
		return modelerr.Configuration("has-many relation has no kind bound")
	}
	if s, ok := value.(*Set); ok && s != nil {
		if s.kind != p.kind {
			return modelerr.Type("set of "+p.kind.Name(), value)
		}
		p.value = s
		return nil
	}
	items, err := toItems(value)
	if err != nil {
		return err
	}
	p.value = NewSet(p.kind, items...)
	return nil
}

func (p *HasMany) Get() any {
	if p.value == nil {
		p.value = NewSet(p.kind)
	}
	return p.value
}

func (p *HasMany) Import(value any) error {
	return p.Set(value)
}

// Export returns every element of the set as a plain map.
func (p *HasMany) Export() any {
	if p.value == nil {
		return []any{}
	}
	return p.value.Export()
}

// Items returns the relation set, creating an empty one when unset.
func (p *HasMany) Items() *Set {
	return p.Get().(*Set)
}

// Kind returns the bound kind.
func (p *HasMany) Kind() *Kind {
	return p.kind
}
