package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// defaultKeySerializer renders arguments with reflection so equal arguments
// always produce equal keys.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer returns the readable reflection based serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey joins method and the rendered args with KeySeparator.
func (s *defaultKeySerializer) SerializeKey(method string, args ...any) string {
	if len(args) == 0 {
		return method
	}

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, method)
	for _, arg := range args {
		parts = append(parts, s.render(arg))
	}
	return strings.Join(parts, KeySeparator)
}

func (s *defaultKeySerializer) render(v any) string {
	if v == nil {
		return "nil"
	}

	if k, ok := v.(interface{ CacheKey() string }); ok {
		return k.CacheKey()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		// pointer identity, stable only within one process
		return fmt.Sprintf("func:%p", v)
	case reflect.Chan:
		return fmt.Sprintf("chan:%p", v)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return s.render(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return fmt.Sprintf("slice[%d]:{%s}", rv.Len(), s.renderElems(rv))
	case reflect.Array:
		return fmt.Sprintf("array[%d]:{%s}", rv.Len(), s.renderElems(rv))
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return s.renderMap(rv)
	case reflect.Struct:
		return s.renderStruct(rv)
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return fmt.Sprintf("%v", v)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "fallback:" + rv.Type().String()
	}
	return "json:" + string(data)
}

func (s *defaultKeySerializer) renderElems(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = s.render(rv.Index(i).Interface())
	}
	return strings.Join(parts, ",")
}

// renderMap sorts entries by their rendered key.
func (s *defaultKeySerializer) renderMap(rv reflect.Value) string {
	pairs := make([][2]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, [2]string{s.render(iter.Key().Interface()), s.render(iter.Value().Interface())})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p[0] + "=" + p[1]
	}
	return fmt.Sprintf("map[%d]:{%s}", len(parts), strings.Join(parts, ","))
}

// renderStruct includes exported fields only.
func (s *defaultKeySerializer) renderStruct(rv reflect.Value) string {
	rt := rv.Type()
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() || !rv.Field(i).CanInterface() {
			continue
		}
		parts = append(parts, field.Name+":"+s.render(rv.Field(i).Interface()))
	}
	return fmt.Sprintf("struct:{%s}", strings.Join(parts, ","))
}

// hashedKeySerializer keeps namespace and method readable and hashes the
// arguments, which keeps keys short and valid for external stores.
type hashedKeySerializer struct {
	namespace string
	inner     KeySerializer
}

// NewHashedKeySerializer returns a serializer producing keys shaped as
// namespace::method::hash. Calls without arguments yield namespace::method.
func NewHashedKeySerializer(namespace string, inner KeySerializer) KeySerializer {
	if inner == nil {
		inner = NewDefaultKeySerializer()
	}
	return &hashedKeySerializer{namespace: namespace, inner: inner}
}

func (s *hashedKeySerializer) SerializeKey(method string, args ...any) string {
	prefix := method
	if s.namespace != "" {
		prefix = s.namespace + KeySeparator + method
	}
	if len(args) == 0 {
		return prefix
	}
	sum := xxhash.Sum64String(s.namespace + KeySeparator + s.inner.SerializeKey(method, args...))
	return fmt.Sprintf("%s%s%016x", prefix, KeySeparator, sum)
}

// Namespace returns the prefix shared by every key of s.
func (s *hashedKeySerializer) Namespace() string {
	return s.namespace
}
