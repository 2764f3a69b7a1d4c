// Package cache provides the cache contract used by repositories and
// dispatchers, the drivers implementing it, and key serialization.
//
// # Contract
//
// Every driver implements Cache:
//
//	Get(ctx, key) (value, ok, err)
//	Set(ctx, key, value, ttl) error
//	Exists(ctx, key) (bool, error)
//	Remove(ctx, key) error
//
// A value written with Set is returned by Get until it is removed or its
// TTL runs out.
//
// # Drivers
//
//   - NewStatic: an in-process map with per-key TTLs
//   - NewMemory: a sturdyc client, sharded and size bounded, one TTL for all keys
//   - NewRedis: Redis through go-redis, values encoded by a Codec
//   - NewCascade: several caches layered fastest first
//
// Drivers that also implement Fetcher (the memory driver does) get
// request coalescing from GetOrFetch:
//
//	user, err := cache.GetOrFetch(ctx, c, key, time.Minute, func(ctx context.Context) (map[string]any, error) {
//		return backend.Load(ctx, id)
//	})
//
// # Keys
//
// NewDefaultKeySerializer renders method arguments with reflection:
//
//	serializer := cache.NewDefaultKeySerializer()
//	key := serializer.SerializeKey("FindByID", "user-123") // FindByID::user-123
//
// Function arguments are rendered by pointer, which is stable only within a
// process. Types can take over their rendering with a CacheKey() string
// method.
//
// NewHashedKeySerializer keeps the namespace and method readable and hashes
// the arguments with xxhash, so every key of a method shares a prefix that
// can be invalidated at once:
//
//	keys := cache.NewHashedKeySerializer("users", nil)
//	keys.SerializeKey("FindByID", 42) // users::FindByID::<16 hex chars>
//
// # Codecs
//
// Byte oriented drivers use a Codec. JSONCodec and MsgpackCodec are
// provided and Base64 wraps either one to keep payloads printable.
package cache
