package dispatcher

import (
	"context"

	"github.com/goliatone/go-entity/entity"
)

// Fetch is the read-through helper for domain queries written on top of a
// dispatcher. The result of fn is cached in the repository cache under
// method and args, and expires with the other query results on the next
// write through d. Tags from repository.WithCacheTags apply.
//
// Entities and sets are cached as exported snapshots and rebuilt on a hit.
// A cached value that cannot be turned back into a T counts as a miss.
func Fetch[T any](ctx context.Context, d *Dispatcher, method string, args []any, fn func(ctx context.Context) (T, error)) (T, error) {
	h := d.repo.Cache()

	hit, ok, err := h.Retrieve(ctx, method, args...)
	if err != nil {
		d.logger.Warn("query cache read failed", "kind", d.kind.Name(), "method", method, "error", err)
	}
	if ok {
		if typed, ok := fromSnapshot[T](d.kind, hit); ok {
			return typed, nil
		}
	}

	d.logger.Debug("query cache miss", "kind", d.kind.Name(), "method", method)
	res, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := h.Persist(ctx, method, args, res, d.ttl); err != nil {
		d.logger.Warn("query cache store failed", "kind", d.kind.Name(), "method", method, "error", err)
	}
	return res, nil
}

func fromSnapshot[T any](kind *entity.Kind, v any) (T, bool) {
	if typed, ok := entity.Clone(v).(T); ok {
		return typed, true
	}
	var zero T
	switch any(zero).(type) {
	case *entity.Set:
		if items, ok := v.([]any); ok {
			return any(entity.NewSet(kind, items...)).(T), true
		}
	case *entity.Entity:
		if values, ok := v.(map[string]any); ok {
			if e, err := kind.New(values); err == nil {
				return any(e).(T), true
			}
		}
	}
	return zero, false
}
