package cache

import (
	"strings"
	"testing"
)

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

type userID string

func (u userID) CacheKey() string { return "user:" + string(u) }

func TestDefaultKeySerializer(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	var nilPtr *int
	n := 7

	tests := []struct {
		name   string
		method string
		args   []any
		want   string
	}{
		{"no args", "FindAll", nil, "FindAll"},
		{"single int", "FindByID", []any{42}, joinWithSeparator("FindByID", "42")},
		{"basic types", "FindBy", []any{1, "title", true, 3.14}, joinWithSeparator("FindBy", "1", "title", "true", "3.14")},
		{"nil", "FindByID", []any{nil}, joinWithSeparator("FindByID", "nil")},
		{"nil pointer", "FindByID", []any{nilPtr}, joinWithSeparator("FindByID", "nil")},
		{"pointer", "FindByID", []any{&n}, joinWithSeparator("FindByID", "7")},
		{"slice", "FindMany", []any{[]int{1, 2}}, joinWithSeparator("FindMany", "slice[2]:{1,2}")},
		{"nil slice", "FindMany", []any{[]int(nil)}, joinWithSeparator("FindMany", "slice:nil")},
		{"array", "FindMany", []any{[2]string{"a", "b"}}, joinWithSeparator("FindMany", "array[2]:{a,b}")},
		{"map sorted", "FindBy", []any{map[string]any{"z": 1, "a": "x"}}, joinWithSeparator("FindBy", "map[2]:{a=x,z=1}")},
		{"struct exported fields", "FindBy", []any{struct {
			Field  string
			hidden int
		}{"title", 3}}, joinWithSeparator("FindBy", "struct:{Field:title}")},
		{"cache key override", "FindByID", []any{userID("7")}, joinWithSeparator("FindByID", "user:7")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serializer.SerializeKey(tt.method, tt.args...); got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_MapOrderIsStable(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	m := map[string]int{"c": 3, "b": 2, "a": 1, "d": 4}
	first := serializer.SerializeKey("FindBy", m)
	for i := 0; i < 20; i++ {
		if got := serializer.SerializeKey("FindBy", m); got != first {
			t.Fatalf("unstable key: %s != %s", got, first)
		}
	}
}

func TestDefaultKeySerializer_Functions(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	fn := func() {}
	a := serializer.SerializeKey("Call", fn)
	b := serializer.SerializeKey("Call", fn)
	if a != b || !strings.Contains(a, "func:0x") {
		t.Errorf("function keys = %s, %s", a, b)
	}
}

func TestHashedKeySerializer(t *testing.T) {
	users := NewHashedKeySerializer("users", nil)
	posts := NewHashedKeySerializer("posts", nil)

	if got := users.SerializeKey("FindAll"); got != "users::FindAll" {
		t.Errorf("no-arg key = %s", got)
	}

	key := users.SerializeKey("FindByID", 42)
	if !strings.HasPrefix(key, "users::FindByID::") {
		t.Errorf("key %s lacks readable prefix", key)
	}
	if len(key) != len("users::FindByID::")+16 {
		t.Errorf("key %s should end with a 16 char hash", key)
	}
	if key != users.SerializeKey("FindByID", 42) {
		t.Error("hashed keys must be deterministic")
	}
	if key == users.SerializeKey("FindByID", 43) {
		t.Error("different args must hash differently")
	}
	if strings.TrimPrefix(key, "users::") == strings.TrimPrefix(posts.SerializeKey("FindByID", 42), "posts::") {
		t.Error("namespace must be part of the hash input")
	}
}
