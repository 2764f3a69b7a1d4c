package cache

import (
	"context"
	"errors"
	"time"
)

// Cascade layers caches from fastest to slowest. Writes go to every tier.
// Reads stop at the first tier holding the key and copy the value into
// the faster tiers above it.
type Cascade struct {
	tiers       []Cache
	backfillTTL time.Duration
}

// CascadeOption configures a Cascade.
type CascadeOption func(*Cascade)

// WithBackfillTTL sets the TTL used when a hit is copied to faster tiers.
func WithBackfillTTL(ttl time.Duration) CascadeOption {
	return func(c *Cascade) { c.backfillTTL = ttl }
}

// NewCascade returns a cache over tiers, ordered fastest first.
func NewCascade(tiers []Cache, opts ...CascadeOption) *Cascade {
	c := &Cascade{tiers: tiers}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cascade) Get(ctx context.Context, key string) (any, bool, error) {
	var errs []error
	for i, tier := range c.tiers {
		value, ok, err := tier.Get(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		for _, faster := range c.tiers[:i] {
			if err := faster.Set(ctx, key, value, c.backfillTTL); err != nil {
				errs = append(errs, err)
			}
		}
		return value, true, errors.Join(errs...)
	}
	return nil, false, errors.Join(errs...)
}

func (c *Cascade) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	var errs []error
	for _, tier := range c.tiers {
		if err := tier.Set(ctx, key, value, ttl); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Cascade) Exists(ctx context.Context, key string) (bool, error) {
	var errs []error
	for _, tier := range c.tiers {
		ok, err := tier.Exists(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, errors.Join(errs...)
}

func (c *Cascade) Remove(ctx context.Context, key string) error {
	var errs []error
	for _, tier := range c.tiers {
		if err := tier.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveByPrefix forwards to every tier that supports prefix removal.
func (c *Cascade) RemoveByPrefix(ctx context.Context, prefix string) error {
	var errs []error
	for _, tier := range c.tiers {
		if pr, ok := tier.(PrefixRemover); ok {
			if err := pr.RemoveByPrefix(ctx, prefix); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
