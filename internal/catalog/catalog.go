// Package catalog holds resource descriptions keyed by stable identifier.
package catalog

import (
	"iter"

	tfdraft "github.com/tfdraft/tfdraft-go"
)

// Catalog is a collection of resources with unique IDs, preserving
// insertion order. A catalog is built once per run and never mutated
// after graph construction begins.
type Catalog struct {
	byID  map[string]tfdraft.Resource
	order []string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		byID: make(map[string]tfdraft.Resource),
	}
}

// FromResources builds a catalog from a slice of resources.
// Fails with DuplicateIDError on the first repeated ID.
func FromResources(resources []tfdraft.Resource) (*Catalog, error) {
	c := New()
	for _, r := range resources {
		if err := c.Add(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add inserts a resource. Fails with DuplicateIDError if the ID is
// already present.
func (c *Catalog) Add(r tfdraft.Resource) error {
	if _, exists := c.byID[r.ID]; exists {
		return &tfdraft.DuplicateIDError{ID: r.ID}
	}
	c.byID[r.ID] = r
	c.order = append(c.order, r.ID)
	return nil
}

// Get returns the resource with the given ID.
// Fails with NotFoundError if absent.
func (c *Catalog) Get(id string) (tfdraft.Resource, error) {
	r, ok := c.byID[id]
	if !ok {
		return tfdraft.Resource{}, &tfdraft.NotFoundError{ID: id}
	}
	return r, nil
}

// Has reports whether the catalog contains id.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns a restartable sequence of resources in insertion order.
func (c *Catalog) All() iter.Seq[tfdraft.Resource] {
	return func(yield func(tfdraft.Resource) bool) {
		for _, id := range c.order {
			if !yield(c.byID[id]) {
				return
			}
		}
	}
}

// IDs returns the resource IDs in insertion order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Len returns the number of resources in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}
