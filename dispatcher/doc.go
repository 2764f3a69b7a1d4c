// Package dispatcher is the caller facing entry point of a kind.
//
// A Dispatcher couples a repository.Repository to a cache.Cache and accepts
// either entities or loose values, which it coerces into entities of the
// repository's kind:
//
//	users, _ := dispatcher.New(repo, cache.NewStatic())
//	ada, err := users.Save(ctx, entity.Values{"name": "Ada"})
//	same, err := users.FindByID(ctx, ada.ID()) // served from the cache
//
// Reads are cache first. Inserts and updates store the exported entity under
// its identity before returning, and removals drop it, so callers sharing a
// cache always read their own writes. Any write also expires the query
// results the repository persisted through its CacheHelper.
//
// Named repository queries are reached through Invoke, or InvokeAs when the
// caller wants the result checked against a Go type.
package dispatcher
