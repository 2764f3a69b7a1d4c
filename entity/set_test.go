package entity_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-entity/entity"
	"github.com/goliatone/go-entity/modelerr"
)

type countingHooks struct {
	entity.NopHooks
	built int
}

func (h *countingHooks) PostConstruct(*entity.Entity) { h.built++ }

func rawItems(n int) []any {
	items := make([]any, n)
	for i := range items {
		items[i] = entity.Values{"id": i, "body": "item"}
	}
	return items
}

func TestSetMaterializesLazily(t *testing.T) {
	hooks := &countingHooks{}
	kind := entity.NewKind("Item", entity.WithHooks(hooks))
	set := entity.NewSet(kind, rawItems(5)...)

	e, err := set.At(2)
	if err != nil {
		t.Fatal(err)
	}
	if e.ID() != 2 {
		t.Errorf("At(2).ID() = %v", e.ID())
	}
	if hooks.built != 1 {
		t.Fatalf("built %d entities, want 1", hooks.built)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if set.Materialized(i) {
			t.Errorf("index %d should still be raw", i)
		}
	}

	again, _ := set.At(2)
	if again != e || hooks.built != 1 {
		t.Errorf("second read should reuse the entity, built=%d", hooks.built)
	}
	if set.Len() != 5 {
		t.Errorf("Len() = %d", set.Len())
	}
}

func TestSetExportIsComplete(t *testing.T) {
	user := entity.NewKind("User")
	post := entity.NewKind("Post", entity.WithBehaviors(entity.BehaviorFunc(func(e *entity.Entity) {
		e.HasOne("author", user)
	})))

	set := entity.NewSet(post,
		entity.Values{"id": 1, "author": entity.Values{"id": 10}},
		entity.Values{"id": 2, "author": entity.Values{"id": 11}},
	)
	set.Append(post.MustNew(entity.Values{"id": 3}))

	out := set.Export()
	if len(out) != set.Len() {
		t.Fatalf("Export() length = %d, want %d", len(out), set.Len())
	}
	for i, item := range out {
		m, ok := item.(map[string]any)
		if !ok {
			t.Fatalf("item %d is %T", i, item)
		}
		if author, ok := m["author"]; ok {
			if _, plain := author.(map[string]any); !plain {
				t.Errorf("item %d author is %T, want a plain map", i, author)
			}
		}
	}
	if !reflect.DeepEqual(out[0], map[string]any{"id": 1, "author": map[string]any{"id": 10}}) {
		t.Errorf("out[0] = %#v", out[0])
	}
}

func TestSetAggregate(t *testing.T) {
	set := entity.NewSet(entity.NewKind("Item"), rawItems(3)...)
	ids, err := set.Aggregate("id")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids, []any{0, 1, 2}) {
		t.Errorf("Aggregate(id) = %v", ids)
	}
}

func TestSetPutAndDelete(t *testing.T) {
	set := entity.NewSet(entity.NewKind("Item"))
	if err := set.Put(0, entity.Values{"id": "a"}); err != nil {
		t.Fatal(err)
	}
	if err := set.Put(1, entity.Values{"id": "b"}); err != nil {
		t.Fatal(err)
	}
	if err := set.Put(0, entity.Values{"id": "c"}); err != nil {
		t.Fatal(err)
	}
	if err := set.Put(5, nil); !errors.Is(err, modelerr.ErrOutOfRange) {
		t.Errorf("Put(5) = %v", err)
	}

	first, _ := set.At(0)
	if first.ID() != "c" {
		t.Errorf("At(0).ID() = %v", first.ID())
	}
	if err := set.Delete(0); err != nil {
		t.Fatal(err)
	}
	if set.Len() != 1 {
		t.Errorf("Len() = %d", set.Len())
	}
	if _, err := set.At(3); !errors.Is(err, modelerr.ErrOutOfRange) {
		t.Errorf("At(3) = %v", err)
	}
}

func TestSetSurfacesMaterializationErrors(t *testing.T) {
	set := entity.NewSet(entity.NewKind("Item"), []int{1, 2})
	if _, err := set.At(0); !errors.Is(err, modelerr.ErrType) {
		t.Errorf("At(0) = %v", err)
	}
	if err := set.Materialize(); err == nil {
		t.Error("Materialize() should fail")
	}
}

func TestSetForeignEntities(t *testing.T) {
	users := entity.NewKind("User")
	posts := entity.NewKind("Post")
	foreign := posts.MustNew(entity.Values{"id": 7, "title": "hello"})
	s := entity.NewSet(users, foreign, entity.Values{"id": 1})

	if s.Materialized(0) {
		t.Error("an entity of another kind is not materialized")
	}
	if _, err := s.At(0); !errors.Is(err, modelerr.ErrType) {
		t.Errorf("At(0) error = %v, want type error", err)
	}

	out := s.Export()
	first, ok := out[0].(map[string]any)
	if !ok {
		t.Fatalf("foreign entity exported as %T", out[0])
	}
	if !reflect.DeepEqual(first, map[string]any{"id": 7, "title": "hello"}) {
		t.Errorf("Export()[0] = %#v", first)
	}
	if !s.Materialized(1) {
		t.Error("Export should materialize buildable elements")
	}
}
