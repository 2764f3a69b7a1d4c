package entity

import (
	"context"

	"github.com/goliatone/go-entity/modelerr"
)

// DefaultIDField is the identity field used when a kind does not set one.
const DefaultIDField = "id"

// AccessPolicy decides what happens when a write hits a field blocked by a
// whitelist or blacklist.
type AccessPolicy int

const (
	// AccessSilent drops the write and reports success.
	AccessSilent AccessPolicy = iota
	// AccessStrict fails the write with an access denied error.
	AccessStrict
)

// Kind describes a family of entities: its name, identity field, hooks,
// behaviors and access policy. A Kind is immutable once built and can be
// shared freely.
type Kind struct {
	name      string
	idField   string
	hooks     Hooks
	behaviors []Behavior
	policy    AccessPolicy
}

// KindOption configures a Kind.
type KindOption func(*Kind)

// WithIDField overrides the identity field name.
func WithIDField(field string) KindOption {
	return func(k *Kind) {
		if field != "" {
			k.idField = field
		}
	}
}

// WithHooks installs lifecycle hooks.
func WithHooks(h Hooks) KindOption {
	return func(k *Kind) {
		if h != nil {
			k.hooks = h
		}
	}
}

// WithBehaviors appends behaviors run on construction, in order.
func WithBehaviors(b ...Behavior) KindOption {
	return func(k *Kind) {
		k.behaviors = append(k.behaviors, b...)
	}
}

// WithAccessPolicy sets how denied writes are reported.
func WithAccessPolicy(p AccessPolicy) KindOption {
	return func(k *Kind) {
		k.policy = p
	}
}

// NewKind builds a Kind.
func NewKind(name string, opts ...KindOption) *Kind {
	k := &Kind{
		name:    name,
		idField: DefaultIDField,
		hooks:   NopHooks{},
		policy:  AccessSilent,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *Kind) Name() string         { return k.name }
func (k *Kind) IDField() string      { return k.idField }
func (k *Kind) Hooks() Hooks         { return k.hooks }
func (k *Kind) Policy() AccessPolicy { return k.policy }

// New constructs an entity: behaviors and PreConstruct run first, then
// values is imported, then PostConstruct runs.
func (k *Kind) New(values any) (*Entity, error) {
	e := newEntity(k)
	ctx := context.Background()
	if err := e.Trigger(ctx, PreConstruct); err != nil {
		return nil, err
	}
	if err := e.Import(values); err != nil {
		return nil, err
	}
	if err := e.Trigger(ctx, PostConstruct); err != nil {
		return nil, err
	}
	return e, nil
}

// MustNew is like New but panics on error. Use it for fixtures and literals.
func (k *Kind) MustNew(values any) *Entity {
	e, err := k.New(values)
	if err != nil {
		panic(err)
	}
	return e
}

// Coerce returns v unchanged when it is already an entity of this kind and
// constructs a new entity from it otherwise.
func (k *Kind) Coerce(v any) (*Entity, error) {
	if e, ok := v.(*Entity); ok {
		if e == nil {
			return nil, modelerr.Type("*entity.Entity of kind "+k.name, v)
		}
		if e.kind != k {
			return nil, modelerr.Type("entity of kind "+k.name+" (got "+e.kind.name+")", e)
		}
		return e, nil
	}
	return k.New(v)
}

var anonymous = NewKind("Entity")

// New constructs an entity with no hooks or behaviors.
func New(values any) (*Entity, error) {
	return anonymous.New(values)
}
