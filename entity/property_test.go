package entity_test

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-entity/entity"
	"github.com/goliatone/go-entity/modelerr"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name  string
		opts  []entity.NumberOption
		input any
		want  any
	}{
		{"int", nil, 5, int64(5)},
		{"float", nil, 2.5, 2.5},
		{"int string", nil, "42", int64(42)},
		{"float string", nil, " 3.25 ", 3.25},
		{"exponent string", nil, "1e3", 1000.0},
		{"nil resets", nil, nil, int64(0)},
		{"clamp min", []entity.NumberOption{entity.WithMin(10)}, 3, int64(10)},
		{"clamp max", []entity.NumberOption{entity.WithMax(10)}, 30, int64(10)},
		{"clamp float max", []entity.NumberOption{entity.WithMax(1.5)}, 2.25, 1.5},
		{"inside bounds", []entity.NumberOption{entity.WithMin(0), entity.WithMax(10)}, 7, int64(7)},
		{"int rounds up to fractional min", []entity.NumberOption{entity.WithMin(0.5)}, 0, int64(1)},
		{"int rounds down to fractional max", []entity.NumberOption{entity.WithMax(9.5)}, 30, int64(9)},
		{"negative fractional min", []entity.NumberOption{entity.WithMin(-2.5)}, -7, int64(-2)},
		{"uint32", nil, uint32(math.MaxUint32), int64(math.MaxUint32)},
		{"largest uint64 that fits", nil, uint64(math.MaxInt64), int64(math.MaxInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := entity.NewNumber(tt.opts...)
			if err := n.Set(tt.input); err != nil {
				t.Fatalf("Set(%v) error = %v", tt.input, err)
			}
			if got := n.Export(); got != tt.want {
				t.Errorf("Export() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNumberRejectsGarbage(t *testing.T) {
	n := entity.NewNumber()
	garbage := []any{
		"abc", "1.2.3", true, []int{1},
		uint64(math.MaxUint64), uint64(math.MaxInt64) + 1,
		math.NaN(), float32(math.NaN()),
	}
	for _, in := range garbage {
		if err := n.Set(in); !errors.Is(err, modelerr.ErrFormat) {
			t.Errorf("Set(%v) error = %v, want format error", in, err)
		}
	}
	if n.Int() != 0 {
		t.Errorf("failed sets must keep the old value, got %v", n.Get())
	}
}

func TestNumberRoundTrip(t *testing.T) {
	a := entity.NewNumber(entity.WithMax(100))
	_ = a.Import("250")
	b := entity.NewNumber(entity.WithMax(100))
	_ = b.Import(a.Export())
	if a.Export() != b.Export() {
		t.Errorf("round trip changed value: %v != %v", a.Export(), b.Export())
	}
}

func TestDate(t *testing.T) {
	d := entity.NewDate()
	if err := d.Set("2024-03-05 10:11:12"); err != nil {
		t.Fatal(err)
	}
	if d.Get() != "2024-03-05 10:11:12" {
		t.Errorf("Get() = %v", d.Get())
	}

	again := entity.NewDate()
	if err := again.Import(d.Export()); err != nil {
		t.Fatal(err)
	}
	if again.Export() != d.Export() {
		t.Errorf("round trip = %v, want %v", again.Export(), d.Export())
	}

	if err := d.Set("2024-03-05T10:11:12+02:00"); err != nil {
		t.Fatalf("RFC3339 fallback failed: %v", err)
	}
	if d.Get() != "2024-03-05 08:11:12" {
		t.Errorf("RFC3339 value not normalized to UTC: %v", d.Get())
	}

	if err := d.Set("not a date"); !errors.Is(err, modelerr.ErrFormat) {
		t.Errorf("Set(garbage) = %v", err)
	}
	if err := d.Set(12); !errors.Is(err, modelerr.ErrFormat) {
		t.Errorf("Set(int) = %v", err)
	}
}

func TestDateLayoutAndLocation(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	d := entity.NewDate(entity.WithLayout("2006-01-02"), entity.WithLocation(loc))

	ts := time.Date(2020, 1, 31, 23, 30, 0, 0, time.UTC)
	if err := d.Set(ts); err != nil {
		t.Fatal(err)
	}
	if d.Get() != "2020-02-01" {
		t.Errorf("Get() = %v", d.Get())
	}
	if d.Layout() != "2006-01-02" {
		t.Errorf("Layout() = %s", d.Layout())
	}
}

func TestDateDefaultsToNow(t *testing.T) {
	before := time.Now().Add(-time.Second)
	d := entity.NewDate()
	if d.Time().Before(before) {
		t.Errorf("initial value %v is older than %v", d.Time(), before)
	}
}

func TestNameProperty(t *testing.T) {
	kind := entity.NewKind("Person", entity.WithBehaviors(entity.BehaviorFunc(func(e *entity.Entity) {
		e.Compute("name", entity.NewName())
	})))

	p := kind.MustNew(entity.Values{"name": "Ada King Lovelace"})
	if p.Get("forename") != "Ada" || p.Get("surname") != "King Lovelace" {
		t.Errorf("forename=%v surname=%v", p.Get("forename"), p.Get("surname"))
	}
	if p.Get("name") != "Ada King Lovelace" {
		t.Errorf("name = %v", p.Get("name"))
	}

	_ = p.Set("surname", "Byron")
	if got := p.Export()["name"]; got != "Ada Byron" {
		t.Errorf("exported name = %v", got)
	}

	if err := p.Set("name", 12); !errors.Is(err, modelerr.ErrType) {
		t.Errorf("Set(name, 12) = %v", err)
	}
}

func TestRelationsRequireKind(t *testing.T) {
	if err := entity.NewHasOne(nil).Set(entity.Values{"id": 1}); !errors.Is(err, modelerr.ErrConfiguration) {
		t.Errorf("HasOne without kind = %v", err)
	}
	if err := entity.NewHasMany(nil).Set([]any{}); !errors.Is(err, modelerr.ErrConfiguration) {
		t.Errorf("HasMany without kind = %v", err)
	}
}

func TestHasOneExportWhenUnset(t *testing.T) {
	rel := entity.NewHasOne(entity.NewKind("User"))
	if got := rel.Export(); !reflect.DeepEqual(got, map[string]any{}) {
		t.Errorf("Export() = %#v, want empty map", got)
	}
	if rel.Get() != nil {
		t.Errorf("Get() = %v, want nil", rel.Get())
	}
}

func TestHasManyRejectsForeignSet(t *testing.T) {
	rel := entity.NewHasMany(entity.NewKind("Comment"))
	other := entity.NewSet(entity.NewKind("User"))
	if err := rel.Set(other); !errors.Is(err, modelerr.ErrType) {
		t.Errorf("Set(foreign set) = %v", err)
	}
	if err := rel.Set(entity.Values{"body": "x"}); !errors.Is(err, modelerr.ErrType) {
		t.Errorf("Set(map) = %v", err)
	}
	if rel.Items().Len() != 0 {
		t.Errorf("Items().Len() = %d", rel.Items().Len())
	}
}

func TestNumberBoundedOverflow(t *testing.T) {
	n := entity.NewNumber(entity.WithMin(0))
	if err := n.Set(uint64(math.MaxUint64)); !errors.Is(err, modelerr.ErrFormat) {
		t.Fatalf("Set(MaxUint64) error = %v, want format error", err)
	}
	if got := n.Export(); got != int64(0) {
		t.Errorf("Export() = %#v, want the previous value", got)
	}
}

func TestValueCopiesNestedValues(t *testing.T) {
	meta := map[string]any{"k": "saved", "tags": []any{"a"}}
	v := entity.NewValue(nil)
	if err := v.Set(meta); err != nil {
		t.Fatal(err)
	}
	meta["k"] = "changed by caller"

	exported := v.Export().(map[string]any)
	exported["k"] = "changed by reader"
	exported["tags"].([]any)[0] = "b"

	want := map[string]any{"k": "saved", "tags": []any{"a"}}
	if got := v.Get(); !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %#v, want %#v", got, want)
	}
}

func TestClone(t *testing.T) {
	typed := map[string][]string{"roles": {"admin"}, "none": nil}
	cp := entity.Clone(typed).(map[string][]string)
	cp["roles"][0] = "guest"
	if typed["roles"][0] != "admin" {
		t.Errorf("typed map shares its slices: %v", typed)
	}
	if cp["none"] != nil {
		t.Errorf("nil slice became %#v", cp["none"])
	}

	nested := map[string]any{"inner": map[string]any{"n": 1}, "empty": nil}
	out := entity.CloneMap(nested)
	out["inner"].(map[string]any)["n"] = 2
	if nested["inner"].(map[string]any)["n"] != 1 {
		t.Errorf("nested map is shared: %v", nested)
	}
	if v, ok := out["empty"]; !ok || v != nil {
		t.Errorf("nil entry = %#v, %v", v, ok)
	}

	e, _ := entity.New(entity.Values{"id": 1})
	if entity.Clone(e) != any(e) {
		t.Error("entities are not copied")
	}
	if entity.CloneMap(nil) != nil {
		t.Error("CloneMap(nil) should be nil")
	}
}

func TestValueExportFlattensEntities(t *testing.T) {
	nested, _ := entity.New(entity.Values{"id": 1})
	v := entity.NewValue(nested)
	if got := v.Export(); !reflect.DeepEqual(got, map[string]any{"id": 1}) {
		t.Errorf("Export() = %#v", got)
	}
}
