package entity

import (
	"context"
	"fmt"
)

// Stage names a lifecycle checkpoint.
type Stage int

const (
	PreConstruct Stage = iota
	PostConstruct
	PreSave
	PostSave
	PreInsert
	PostInsert
	PreUpdate
	PostUpdate
	PreRemove
	PostRemove
)

var stageNames = [...]string{
	"preConstruct",
	"postConstruct",
	"preSave",
	"postSave",
	"preInsert",
	"postInsert",
	"preUpdate",
	"postUpdate",
	"preRemove",
	"postRemove",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Hooks receives lifecycle callbacks for every entity of a kind.
//
// Construction hooks cannot fail. A persistence hook that runs before the
// backend call aborts the operation by returning an error. An error from a
// hook that runs after the backend call is returned to the caller, but the
// backend mutation has already happened.
type Hooks interface {
	PreConstruct(e *Entity)
	PostConstruct(e *Entity)
	PreSave(ctx context.Context, e *Entity) error
	PostSave(ctx context.Context, e *Entity) error
	PreInsert(ctx context.Context, e *Entity) error
	PostInsert(ctx context.Context, e *Entity) error
	PreUpdate(ctx context.Context, e *Entity) error
	PostUpdate(ctx context.Context, e *Entity) error
	PreRemove(ctx context.Context, e *Entity) error
	PostRemove(ctx context.Context, e *Entity) error
}

// NopHooks implements Hooks with no-ops. Embed it and override what you need.
type NopHooks struct{}

func (NopHooks) PreConstruct(*Entity)                      {}
func (NopHooks) PostConstruct(*Entity)                     {}
func (NopHooks) PreSave(context.Context, *Entity) error    { return nil }
func (NopHooks) PostSave(context.Context, *Entity) error   { return nil }
func (NopHooks) PreInsert(context.Context, *Entity) error  { return nil }
func (NopHooks) PostInsert(context.Context, *Entity) error { return nil }
func (NopHooks) PreUpdate(context.Context, *Entity) error  { return nil }
func (NopHooks) PostUpdate(context.Context, *Entity) error { return nil }
func (NopHooks) PreRemove(context.Context, *Entity) error  { return nil }
func (NopHooks) PostRemove(context.Context, *Entity) error { return nil }

var _ Hooks = NopHooks{}

// Behavior configures an entity while it is being constructed, before the
// kind's PreConstruct hook runs.
type Behavior interface {
	Init(e *Entity)
}

// BehaviorFunc adapts a function to Behavior.
type BehaviorFunc func(e *Entity)

func (f BehaviorFunc) Init(e *Entity) { f(e) }

// AliasBehavior routes reads and writes of alias to field.
func AliasBehavior(field, alias string) Behavior {
	return BehaviorFunc(func(e *Entity) {
		e.Alias(field, alias)
	})
}

// DatesBehavior registers a Date property for each field.
func DatesBehavior(opts []DateOption, fields ...string) Behavior {
	return BehaviorFunc(func(e *Entity) {
		for _, f := range fields {
			e.Register(f, NewDate(opts...))
		}
	})
}

// Trigger runs a single lifecycle stage for e.
func (e *Entity) Trigger(ctx context.Context, stage Stage) error {
	h := e.kind.hooks
	switch stage {
	case PreConstruct:
		for _, b := range e.kind.behaviors {
			b.Init(e)
		}
		h.PreConstruct(e)
	case PostConstruct:
		h.PostConstruct(e)
	case PreSave:
		return h.PreSave(ctx, e)
	case PostSave:
		return h.PostSave(ctx, e)
	case PreInsert:
		return h.PreInsert(ctx, e)
	case PostInsert:
		return h.PostInsert(ctx, e)
	case PreUpdate:
		return h.PreUpdate(ctx, e)
	case PostUpdate:
		return h.PostUpdate(ctx, e)
	case PreRemove:
		return h.PreRemove(ctx, e)
	case PostRemove:
		return h.PostRemove(ctx, e)
	default:
		return fmt.Errorf("unknown lifecycle stage %s", stage)
	}
	return nil
}
