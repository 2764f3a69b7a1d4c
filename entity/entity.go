package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"sort"

	"github.com/goliatone/go-entity/modelerr"
)

// Values is a plain field map used to build and export entities.
type Values = map[string]any

// Entity is a dynamically shaped record made of named properties.
//
// Field access goes through aliases and the write access policy of the
// entity. Reads are never restricted. Iteration and export follow the
// order in which fields were first set.
type Entity struct {
	kind      *Kind
	props     map[string]Property
	computed  map[string]Computed
	order     []string
	aliases   map[string]string
	whitelist map[string]struct{}
	blacklist map[string]struct{}
}

func newEntity(k *Kind) *Entity {
	return &Entity{
		kind:      k,
		props:     make(map[string]Property),
		computed:  make(map[string]Computed),
		aliases:   make(map[string]string),
		whitelist: make(map[string]struct{}),
		blacklist: make(map[string]struct{}),
	}
}

// Kind returns the kind the entity was built from.
func (e *Entity) Kind() *Kind {
	return e.kind
}

// Set writes value to field name. Writes to fields blocked by the access
// lists are dropped, or rejected when the kind uses AccessStrict.
func (e *Entity) Set(name string, value any) error {
	name = e.unalias(name)
	if !e.CanAccess(name) {
		if e.kind.policy == AccessStrict {
			return modelerr.AccessDenied(e.kind.name, name)
		}
		return nil
	}

	if c, ok := e.computed[name]; ok {
		if err := c.SetOn(e, value); err != nil {
			return err
		}
		e.touch(name)
		return nil
	}

	p, ok := e.props[name]
	if !ok {
		p = &Value{}
		e.props[name] = p
	}
	if err := p.Set(value); err != nil {
		return err
	}
	e.touch(name)
	return nil
}

// Get returns the value of field name, or nil when it is not set.
func (e *Entity) Get(name string) any {
	name = e.unalias(name)
	if c, ok := e.computed[name]; ok {
		return c.GetFrom(e)
	}
	if p, ok := e.props[name]; ok {
		return p.Get()
	}
	return nil
}

// Property returns the property behind field name, or nil.
func (e *Entity) Property(name string) Property {
	return e.props[e.unalias(name)]
}

// Has reports whether field name has been set.
func (e *Entity) Has(name string) bool {
	return slices.Contains(e.order, e.unalias(name))
}

// Unset removes field name together with its property.
func (e *Entity) Unset(name string) {
	name = e.unalias(name)
	if !e.CanAccess(name) {
		return
	}
	delete(e.props, name)
	if i := slices.Index(e.order, name); i >= 0 {
		e.order = slices.Delete(e.order, i, i+1)
	}
}

// Register declares a property for field name without marking it as set.
func (e *Entity) Register(name string, p Property) {
	e.props[e.unalias(name)] = p
}

// Compute declares a computed field.
func (e *Entity) Compute(name string, c Computed) {
	e.computed[e.unalias(name)] = c
}

// HasOne declares a single relation to kind.
func (e *Entity) HasOne(name string, kind *Kind) {
	e.Register(name, NewHasOne(kind))
}

// HasMany declares a relation to many entities of kind.
func (e *Entity) HasMany(name string, kind *Kind) {
	e.Register(name, NewHasMany(kind))
}

// Alias routes reads and writes of alias to field.
func (e *Entity) Alias(field, alias string) {
	e.aliases[alias] = field
}

// Unalias returns the real field name behind alias.
func (e *Entity) Unalias(alias string) string {
	return e.unalias(alias)
}

func (e *Entity) unalias(name string) string {
	if field, ok := e.aliases[name]; ok {
		return field
	}
	return name
}

func (e *Entity) touch(name string) {
	if !slices.Contains(e.order, name) {
		e.order = append(e.order, name)
	}
}

// ID returns the identity value or nil.
func (e *Entity) ID() any {
	return e.Get(e.kind.idField)
}

// SetID assigns the identity.
func (e *Entity) SetID(id any) error {
	return e.Set(e.kind.idField, id)
}

// RemoveID clears the identity.
func (e *Entity) RemoveID() {
	e.Unset(e.kind.idField)
}

// HasID reports whether the identity is set to a non-empty value.
func (e *Entity) HasID() bool {
	if !e.Has(e.kind.idField) {
		return false
	}
	switch id := e.ID().(type) {
	case nil:
		return false
	case string:
		return id != ""
	}
	return true
}

// Exists is an alias of HasID.
func (e *Entity) Exists() bool {
	return e.HasID()
}

func (e *Entity) isIdentity(name string) bool {
	return name == e.kind.idField || name == e.unalias(e.kind.idField)
}

// Whitelist adds names to the whitelist. Once the whitelist is non-empty
// only listed fields and the identity can be written.
func (e *Entity) Whitelist(names ...string) error {
	return e.addToList(e.whitelist, "whitelist", names)
}

// Blacklist adds names to the blacklist. Listed fields cannot be written,
// even when whitelisted.
func (e *Entity) Blacklist(names ...string) error {
	return e.addToList(e.blacklist, "blacklist", names)
}

func (e *Entity) addToList(list map[string]struct{}, label string, names []string) error {
	for _, n := range names {
		if e.isIdentity(e.unalias(n)) {
			return modelerr.Configuration("cannot %s identity field %q of %s", label, n, e.kind.name)
		}
	}
	for _, n := range names {
		list[e.unalias(n)] = struct{}{}
	}
	return nil
}

// CanAccess reports whether field name may be written.
func (e *Entity) CanAccess(name string) bool {
	name = e.unalias(name)
	if e.isIdentity(name) {
		return true
	}
	if _, ok := e.blacklist[name]; ok {
		return false
	}
	if len(e.whitelist) > 0 {
		_, ok := e.whitelist[name]
		return ok
	}
	return true
}

// Import loads values into the entity through Set. A scalar sets the
// identity, a map sets each key, and another entity is copied field by
// field. The identity is applied first and remaining map keys in sorted
// order.
func (e *Entity) Import(values any) error {
	switch v := values.(type) {
	case nil:
		return nil
	case *Entity:
		if v == nil {
			return nil
		}
		for _, name := range v.order {
			if err := e.Set(name, v.exportField(name)); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		return e.importMap(v)
	case fmt.Stringer:
		return e.SetID(v.String())
	}

	rv := reflect.ValueOf(values)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return modelerr.Type("map with string keys", values)
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return e.importMap(m)
	case reflect.Slice, reflect.Array, reflect.Struct, reflect.Func, reflect.Chan:
		return modelerr.Type("map or scalar", values)
	}
	return e.SetID(values)
}

func (e *Entity) importMap(m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ii, jj := e.isIdentity(e.unalias(keys[i])), e.isIdentity(e.unalias(keys[j]))
		if ii != jj {
			return ii
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		if err := e.Set(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// Export returns the entity as a plain map. Relations are exported
// recursively.
func (e *Entity) Export() map[string]any {
	out := make(map[string]any, len(e.order))
	for _, name := range e.order {
		out[name] = e.exportField(name)
	}
	return out
}

func (e *Entity) exportField(name string) any {
	if c, ok := e.computed[name]; ok {
		return c.GetFrom(e)
	}
	if p, ok := e.props[name]; ok {
		return p.Export()
	}
	return nil
}

// Fields returns the set fields in insertion order.
func (e *Entity) Fields() []string {
	return slices.Clone(e.order)
}

// Len returns the number of set fields.
func (e *Entity) Len() int {
	return len(e.order)
}

// Each calls fn for every set field in insertion order until fn returns
// false.
func (e *Entity) Each(fn func(name string, value any) bool) {
	for _, name := range slices.Clone(e.order) {
		if !fn(name, e.Get(name)) {
			return
		}
	}
}

// MarshalJSON encodes the exported entity keeping field order.
func (e *Entity) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range e.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.exportField(name))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String implements fmt.Stringer.
func (e *Entity) String() string {
	return fmt.Sprintf("%s(%v)", e.kind.name, e.ID())
}
