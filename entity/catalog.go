package entity

import (
	"sort"

	"github.com/goliatone/go-entity/modelerr"
	"github.com/puzpuzpuz/xsync/v3"
)

// Catalog maps kind names to kinds. It is safe for concurrent use.
type Catalog struct {
	kinds *xsync.MapOf[string, *Kind]
}

// NewCatalog returns a catalog holding kinds.
func NewCatalog(kinds ...*Kind) (*Catalog, error) {
	c := &Catalog{kinds: xsync.NewMapOf[string, *Kind]()}
	for _, k := range kinds {
		if err := c.Add(k); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add registers k under its name. Names must be unique.
func (c *Catalog) Add(k *Kind) error {
	if k == nil || k.name == "" {
		return modelerr.Configuration("cannot register an unnamed kind")
	}
	if _, loaded := c.kinds.LoadOrStore(k.name, k); loaded {
		return modelerr.Configuration("kind %q already registered", k.name)
	}
	return nil
}

// Lookup returns the kind registered under name.
func (c *Catalog) Lookup(name string) (*Kind, bool) {
	return c.kinds.Load(name)
}

// Names returns the registered kind names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, c.kinds.Size())
	c.kinds.Range(func(name string, _ *Kind) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}
