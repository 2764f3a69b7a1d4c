package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-entity/cache"
	"github.com/goliatone/go-entity/entity"
	"github.com/goliatone/go-entity/modelerr"
	"github.com/goliatone/go-entity/pkg/observability"
	"github.com/goliatone/go-entity/repository"
)

const methodFindByID = "FindByID"

// opUndefinedQuery labels calls to unregistered queries so caller input
// never becomes a metric label.
const opUndefinedQuery = "invoke:undefined"

// Dispatcher is the entry point for one kind. It coerces loose values into
// entities and keeps a cache consistent with the backend: reads go through
// the cache, inserts and updates write through it and removals invalidate
// it before returning.
type Dispatcher struct {
	repo    *repository.Repository
	kind    *entity.Kind
	cache   cache.Cache
	keys    cache.KeySerializer
	ttl     time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
}

type Option func(*Dispatcher)

// WithTTL overrides the lifetime of entries written by the dispatcher. It
// defaults to the repository TTL.
func WithTTL(ttl time.Duration) Option {
	return func(d *Dispatcher) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithKeySerializer replaces the namespaced, hashed serializer.
func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(d *Dispatcher) {
		if keys != nil {
			d.keys = keys
		}
	}
}

// WithMetrics records cache and operation metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithTracerProvider traces every operation with provider instead of the
// global OpenTelemetry provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(d *Dispatcher) {
		d.tracer = observability.NewTracer(provider)
	}
}

// New couples repo to c. A nil cache falls back to the repository cache;
// when neither is set every call goes straight to the backend.
func New(repo *repository.Repository, c cache.Cache, opts ...Option) (*Dispatcher, error) {
	if repo == nil {
		return nil, modelerr.Configuration("dispatcher: repository is required")
	}
	if c == nil {
		c = repo.Cache().Cache()
	}
	d := &Dispatcher{
		repo:   repo,
		kind:   repo.Kind(),
		cache:  c,
		keys:   cache.NewHashedKeySerializer(repo.Namespace(), nil),
		ttl:    repo.TTL(),
		logger: repo.Logger(),
		tracer: observability.NewTracer(nil),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Dispatcher) Repository() *repository.Repository { return d.repo }
func (d *Dispatcher) Kind() *entity.Kind                 { return d.kind }
func (d *Dispatcher) Cache() cache.Cache                 { return d.cache }

// Key returns the cache key holding the entity with identity id.
func (d *Dispatcher) Key(id any) string {
	return d.keys.SerializeKey(methodFindByID, id)
}

// New builds an entity of the dispatcher's kind without persisting it.
func (d *Dispatcher) New(values any) (*entity.Entity, error) {
	return d.kind.New(values)
}

// FindByID returns the entity with identity id, from the cache when
// possible. Cached entries hold exported values, so every call returns a
// fresh entity the caller may mutate freely.
func (d *Dispatcher) FindByID(ctx context.Context, id any) (_ *entity.Entity, err error) {
	ctx, done := d.observe(ctx, "find_by_id")
	defer func() { done(err) }()

	if d.cache == nil {
		return d.repo.FindByID(ctx, id)
	}

	key := d.Key(id)
	missed := false
	values, err := cache.GetOrFetch(ctx, d.cache, key, d.ttl, func(ctx context.Context) (map[string]any, error) {
		missed = true
		d.metrics.CacheMiss(d.kind.Name())
		d.logger.Debug("cache miss", "kind", d.kind.Name(), "key", key)
		e, err := d.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return e.Export(), nil
	})
	observability.CacheResult(trace.SpanFromContext(ctx), !missed)
	if !missed && err == nil {
		d.metrics.CacheHit(d.kind.Name())
	}

	var storeErr *cache.StoreError
	if errors.As(err, &storeErr) {
		d.metrics.CacheError(d.kind.Name(), "set")
		d.logger.Warn("cache store failed", "kind", d.kind.Name(), "key", storeErr.Key, "error", storeErr.Err)
	} else if err != nil {
		return nil, err
	}
	if values == nil {
		return nil, modelerr.NotFound(d.kind.Name(), id)
	}
	return d.kind.New(values)
}

// Save coerces v and inserts or updates it depending on its identity.
func (d *Dispatcher) Save(ctx context.Context, v any) (_ *entity.Entity, err error) {
	ctx, done := d.observe(ctx, "save")
	defer func() { done(err) }()

	e, err := d.kind.Coerce(v)
	if err != nil {
		return nil, err
	}
	if e.HasID() {
		return e, d.update(ctx, e)
	}
	return e, d.insert(ctx, e)
}

// Insert coerces v, inserts it and caches it under its new identity.
func (d *Dispatcher) Insert(ctx context.Context, v any) (_ *entity.Entity, err error) {
	ctx, done := d.observe(ctx, "insert")
	defer func() { done(err) }()

	e, err := d.kind.Coerce(v)
	if err != nil {
		return nil, err
	}
	return e, d.insert(ctx, e)
}

// Update coerces v, updates it and refreshes its cache entry.
func (d *Dispatcher) Update(ctx context.Context, v any) (_ *entity.Entity, err error) {
	ctx, done := d.observe(ctx, "update")
	defer func() { done(err) }()

	e, err := d.kind.Coerce(v)
	if err != nil {
		return nil, err
	}
	return e, d.update(ctx, e)
}

// Remove coerces v, removes it and drops its cache entry. The returned
// entity no longer has an identity.
func (d *Dispatcher) Remove(ctx context.Context, v any) (_ *entity.Entity, err error) {
	ctx, done := d.observe(ctx, "remove")
	defer func() { done(err) }()

	e, err := d.kind.Coerce(v)
	if err != nil {
		return nil, err
	}
	return e, d.repo.Remove(ctx, e, repository.AfterBackend(d.invalidate))
}

func (d *Dispatcher) insert(ctx context.Context, e *entity.Entity) error {
	return d.repo.Insert(ctx, e, repository.AfterBackend(d.writeThrough))
}

func (d *Dispatcher) update(ctx context.Context, e *entity.Entity) error {
	return d.repo.Update(ctx, e, repository.AfterBackend(d.writeThrough))
}

// writeThrough stores the entity under its identity. A failed write drops
// the key instead, so a stale entry is never served.
func (d *Dispatcher) writeThrough(ctx context.Context, e *entity.Entity) {
	d.expireQueries(ctx)
	if d.cache == nil {
		return
	}
	key := d.Key(e.ID())
	if err := d.cache.Set(ctx, key, e.Export(), d.ttl); err != nil {
		d.metrics.CacheError(d.kind.Name(), "set")
		d.logger.Warn("cache write failed", "kind", d.kind.Name(), "key", key, "error", err)
		if err := d.cache.Remove(ctx, key); err != nil {
			d.metrics.CacheError(d.kind.Name(), "remove")
			d.logger.Error("cache remove failed", "kind", d.kind.Name(), "key", key, "error", err)
		}
	}
}

func (d *Dispatcher) invalidate(ctx context.Context, e *entity.Entity) {
	d.expireQueries(ctx)
	if d.cache == nil {
		return
	}
	key := d.Key(e.ID())
	if err := d.cache.Remove(ctx, key); err != nil {
		d.metrics.CacheError(d.kind.Name(), "remove")
		d.logger.Error("cache remove failed", "kind", d.kind.Name(), "key", key, "error", err)
	}
}

// expireQueries drops query results persisted through the repository cache,
// since any write may change them.
func (d *Dispatcher) expireQueries(ctx context.Context) {
	if err := d.repo.Cache().ExpireTracked(ctx); err != nil {
		d.logger.Warn("query cache expiry failed", "kind", d.kind.Name(), "error", err)
	}
}

// ExpireTag drops the query results persisted with tag.
func (d *Dispatcher) ExpireTag(ctx context.Context, tag string) error {
	return d.repo.Cache().ExpireTag(ctx, tag)
}

// Invoke runs a named repository query. Unknown names fail with an
// undefined method error.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args ...any) (_ any, err error) {
	defined := d.repo.HasQuery(name)
	op := opUndefinedQuery
	if defined {
		op = "invoke:" + name
	}
	ctx, done := d.observe(ctx, op)
	defer func() { done(err) }()

	if !defined {
		return nil, modelerr.UndefinedMethod(fmt.Sprintf("%s dispatcher", d.kind.Name()), name)
	}
	return d.repo.Call(ctx, name, args...)
}

// InvokeAs runs a named query and checks its result against T. A nil result
// is accepted for nillable types only.
func InvokeAs[T any](ctx context.Context, d *Dispatcher, name string, args ...any) (T, error) {
	var zero T
	res, err := d.Invoke(ctx, name, args...)
	if err != nil {
		return zero, err
	}
	want := reflect.TypeOf((*T)(nil)).Elem()
	if res == nil && nillable(want) {
		return zero, nil
	}
	typed, ok := res.(T)
	if !ok {
		return zero, modelerr.Type(want.String(), res)
	}
	return typed, nil
}

// observe opens a span for op and returns the function that closes it and
// records the operation duration.
func (d *Dispatcher) observe(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := d.tracer.Start(ctx, d.kind.Name(), op)
	return ctx, func(err error) {
		d.tracer.End(span, err)
		d.metrics.ObserveOperation(d.kind.Name(), op, time.Since(start), err)
	}
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
