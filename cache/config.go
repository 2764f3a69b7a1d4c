package cache

import (
	"github.com/go-redis/redis/v8"
	"github.com/goliatone/go-entity/internal/cacheinfra"
)

// Config configures the sturdyc backed memory driver. See
// cacheinfra.Config for the meaning of each field.
type Config = cacheinfra.Config

// EarlyRefreshConfig tunes background refreshes of hot entries.
type EarlyRefreshConfig = cacheinfra.EarlyRefreshConfig

// DefaultConfig holds 10000 entries in 256 shards for five minutes, with
// early refreshes off.
func DefaultConfig() Config { return cacheinfra.DefaultConfig() }

// DefaultEarlyRefresh returns timings for Config.EarlyRefresh. Refreshes run
// the fetch function in background goroutines, so a refresh that started
// before a write can store the row it read.
func DefaultEarlyRefresh() *EarlyRefreshConfig { return cacheinfra.DefaultEarlyRefresh() }

// NewMemory returns the sturdyc backed memory driver. Every entry uses
// cfg.TTL and the ttl passed to Set is ignored.
func NewMemory(cfg Config) (Cache, error) {
	store, err := cacheinfra.NewSturdycStore(cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// RedisConfig configures the Redis driver.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key.
	Prefix string
	// Codec encodes values. Defaults to MsgpackCodec.
	Codec Codec
}

// RedisCache is the Cache returned by NewRedis. Close releases the
// connection pool.
type RedisCache interface {
	Cache
	PrefixRemover
	Close() error
}

// NewRedis connects a Redis backed cache. The connection is lazy, so a
// wrong address surfaces on first use.
func NewRedis(cfg RedisConfig) RedisCache {
	codec := cfg.Codec
	if codec == nil {
		codec = MsgpackCodec{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return cacheinfra.NewRedisStore(client, codec, cfg.Prefix)
}
