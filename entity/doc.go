// Package entity provides dynamically shaped records built from typed
// properties.
//
// # Kinds
//
// A Kind plays the role of an entity class. It names the identity field,
// carries lifecycle hooks and behaviors, and decides how denied writes are
// reported:
//
//	user := entity.NewKind("User")
//	content := entity.NewKind("Content", entity.WithBehaviors(
//		entity.BehaviorFunc(func(e *entity.Entity) {
//			e.HasOne("user", user)
//			e.HasMany("comments", comment)
//		}),
//	))
//
//	c, err := content.New(entity.Values{
//		"id":    1,
//		"title": "Content 1",
//		"user":  entity.Values{"id": 7, "name": "A"},
//	})
//
// # Properties
//
// Fields are backed by a Property. Undeclared fields get a pass-through
// Value on first write. Declared fields can use Date, Number, HasOne or
// HasMany, and computed fields such as Name derive their value from
// siblings.
//
// # Access control
//
// Whitelist and Blacklist restrict writes only. The identity field can
// never be listed. Kinds built with AccessStrict return an access denied
// error for blocked writes, the default AccessSilent drops them.
//
// # Sets
//
// Set holds raw values and builds entities only for the indices that are
// read, so large result lists cost nothing until they are used.
package entity
