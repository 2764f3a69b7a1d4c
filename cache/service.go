package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is the key-value contract every driver implements. Get reports a
// miss with ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value any, ok bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Remove(ctx context.Context, key string) error
}

// KeySerializer builds a cache key from a method name + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// FetchFn loads a value from the source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Fetcher is implemented by drivers with their own read-through logic,
// such as request coalescing. GetOrFetch prefers it when available.
type Fetcher interface {
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)
}

// PrefixRemover is implemented by drivers that can drop keys by prefix.
type PrefixRemover interface {
	RemoveByPrefix(ctx context.Context, prefix string) error
}

// StoreError is returned by GetOrFetch when the value was fetched but could
// not be written back. The fetched value is returned alongside it.
type StoreError struct {
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cache store %q: %v", e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// GetOrFetch returns the cached value for key, calling fetchFn and storing
// its result on a miss. Failed reads and values of the wrong type count as
// misses.
func GetOrFetch[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fetchFn FetchFn[T]) (T, error) {
	var zero T

	if f, ok := c.(Fetcher); ok {
		result, err := f.GetOrFetch(ctx, key, fetchFn)
		if err != nil {
			return zero, err
		}
		if result == nil {
			return zero, nil
		}
		typed, ok := result.(T)
		if !ok {
			return zero, fmt.Errorf("cache: value for %q is %T, want %T", key, result, zero)
		}
		return typed, nil
	}

	if cached, hit, _ := c.Get(ctx, key); hit {
		if typed, ok := cached.(T); ok {
			return typed, nil
		}
	}

	value, err := fetchFn(ctx)
	if err != nil {
		return zero, err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return value, &StoreError{Key: key, Err: err}
	}
	return value, nil
}
