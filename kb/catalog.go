package kb

import (
	"fmt"
	"sync"

	"github.com/apertureworks/skymosaic/core"
)

// Entry is a named footprint polygon held by the catalog.
type Entry struct {
	Name    string
	Polygon core.SphericalPolygon
}

// Catalog is an in-memory, thread-safe store of named footprints. It is
// the registration boundary between footprint providers and the
// geometric kernel: providers hand over corner angles, the catalog
// holds the resulting polygons.
type Catalog struct {
	mu sync.RWMutex

	entries map[string]*Entry
	order   []string
}

// NewCatalog constructs an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*Entry)}
}

// Add registers a footprint. It returns an error if the name is already
// taken or the polygon is empty.
func (c *Catalog) Add(name string, polygon core.SphericalPolygon) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name == "" {
		return fmt.Errorf("footprint with empty name")
	}
	if _, exists := c.entries[name]; exists {
		return fmt.Errorf("footprint %q already exists", name)
	}
	if polygon.IsEmpty() {
		return fmt.Errorf("footprint %q has an empty polygon", name)
	}
	c.entries[name] = &Entry{Name: name, Polygon: polygon}
	c.order = append(c.order, name)
	return nil
}

// Get returns the entry with the given name, or nil if not found.
func (c *Catalog) Get(name string) *Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[name]
}

// List returns a snapshot of all entries in the order they were added.
// Mosaic building is order-sensitive on ties, so insertion order is the
// order callers get back.
func (c *Catalog) List() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]*Entry, 0, len(c.order))
	for _, name := range c.order {
		res = append(res, c.entries[name])
	}
	return res
}

// Len returns the number of registered footprints.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
