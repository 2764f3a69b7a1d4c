package entity

import (
	"fmt"
	"time"

	"github.com/goliatone/go-entity/modelerr"
)

// DefaultDateLayout is the layout dates are parsed from and formatted to
// unless a property is given its own.
const DefaultDateLayout = "2006-01-02 15:04:05"

// Date holds a point in time and exposes it as a formatted string.
type Date struct {
	layout   string
	location *time.Location
	value    time.Time
}

// DateOption configures a Date property.
type DateOption func(*Date)

// WithLayout sets the time layout used for parsing and formatting.
func WithLayout(layout string) DateOption {
	return func(d *Date) {
		if layout != "" {
			d.layout = layout
		}
	}
}

// WithLocation sets the location values are interpreted in.
func WithLocation(loc *time.Location) DateOption {
	return func(d *Date) {
		if loc != nil {
			d.location = loc
		}
	}
}

// NewDate returns a Date initialised to the current time.
func NewDate(opts ...DateOption) *Date {
	d := &Date{
		layout:   DefaultDateLayout,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.value = time.Now().In(d.location)
	return d
}

func (d *Date) Set(value any) error {
	switch v := value.(type) {
	case time.Time:
		d.value = v.In(d.location)
		return nil
	case *time.Time:
		if v == nil {
			return modelerr.Format("date", value, nil)
		}
		d.value = v.In(d.location)
		return nil
	case string:
		t, err := time.ParseInLocation(d.layout, v, d.location)
		if err != nil {
			if alt, altErr := time.Parse(time.RFC3339, v); altErr == nil {
				d.value = alt.In(d.location)
				return nil
			}
			return modelerr.Format("date", v, err)
		}
		d.value = t
		return nil
	case fmt.Stringer:
		return d.Set(v.String())
	default:
		return modelerr.Format("date", value, nil)
	}
}

// Get returns the date formatted with the property layout.
func (d *Date) Get() any {
	return d.value.Format(d.layout)
}

func (d *Date) Import(value any) error {
	return d.Set(value)
}

func (d *Date) Export() any {
	return d.Get()
}

// Time returns the underlying time value.
func (d *Date) Time() time.Time {
	return d.value
}

// Layout returns the layout in use.
func (d *Date) Layout() string {
	return d.layout
}
