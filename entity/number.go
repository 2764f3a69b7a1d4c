package entity

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-entity/modelerr"
)

// Number normalizes its input to int64 or float64 and clamps it to optional
// bounds.
type Number struct {
	min   *float64
	max   *float64
	value any
}

// NumberOption configures a Number property.
type NumberOption func(*Number)

// WithMin sets the lower bound.
func WithMin(v float64) NumberOption {
	return func(n *Number) { n.min = &v }
}

// WithMax sets the upper bound.
func WithMax(v float64) NumberOption {
	return func(n *Number) { n.max = &v }
}

// NewNumber returns a Number holding zero.
func NewNumber(opts ...NumberOption) *Number {
	n := &Number{value: int64(0)}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Number) Set(value any) error {
	v, err := toNumber(value)
	if err != nil {
		return err
	}
	n.value = n.clamp(v)
	return nil
}

func (n *Number) Get() any {
	return n.value
}

func (n *Number) Import(value any) error {
	return n.Set(value)
}

func (n *Number) Export() any {
	return n.value
}

// Int returns the value truncated to an integer.
func (n *Number) Int() int64 {
	switch v := n.value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// Float returns the value as a float.
func (n *Number) Float() float64 {
	switch v := n.value.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}

// clamp moves v onto the nearest bound. Integers stay integers and are
// rounded towards the inside of the range.
func (n *Number) clamp(v any) any {
	f := asFloat(v)
	_, isInt := v.(int64)
	if n.min != nil && f < *n.min {
		if isInt {
			return int64(math.Ceil(*n.min))
		}
		return *n.min
	}
	if n.max != nil && f > *n.max {
		if isInt {
			return int64(math.Floor(*n.max))
		}
		return *n.max
	}
	return v
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

func toNumber(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return int64(0), nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return fromUnsigned(uint64(v))
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return fromUnsigned(v)
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case json.Number:
		return parseNumber(v.String())
	case string:
		return parseNumber(v)
	default:
		return nil, modelerr.Format("number", value, nil)
	}
}

// parseNumber picks integer or float parsing by looking for a decimal point
// or exponent.
func parseNumber(s string) (any, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, modelerr.Format("number", s, err)
		}
		return fromFloat(f)
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, modelerr.Format("number", s, err)
	}
	return i, nil
}

func fromUnsigned(v uint64) (any, error) {
	if v > math.MaxInt64 {
		return nil, modelerr.Format("number", v, strconv.ErrRange)
	}
	return int64(v), nil
}

func fromFloat(f float64) (any, error) {
	if math.IsNaN(f) {
		return nil, modelerr.Format("number", f, nil)
	}
	return f, nil
}
