package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-htmlkit/pkg/formula"
)

// Cache stores compiled formulas by view identifier. Writers are serialized
// and publish a fresh copy of the table, so readers never lock and never
// observe a partially built formula.
type Cache struct {
	mu       sync.Mutex
	formulas atomic.Pointer[map[string]*formula.Formula]
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	c := &Cache{}
	empty := make(map[string]*formula.Formula)
	c.formulas.Store(&empty)
	return c
}

// Store seals f and publishes it under id, replacing any previous entry.
func (c *Cache) Store(id string, f *formula.Formula) error {
	key := strings.TrimSpace(id)
	if key == "" {
		return fmt.Errorf("render: view id is required")
	}
	if f == nil {
		return fmt.Errorf("render: formula is required")
	}
	f.Seal()

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.snapshot()
	next := make(map[string]*formula.Formula, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[key] = f
	c.formulas.Store(&next)
	return nil
}

// Load retrieves the formula published under id.
func (c *Cache) Load(id string) (*formula.Formula, bool) {
	f, ok := c.snapshot()[strings.TrimSpace(id)]
	return f, ok
}

// Delete removes id from the cache and reports whether it was present.
func (c *Cache) Delete(id string) bool {
	key := strings.TrimSpace(id)

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.snapshot()
	if _, ok := current[key]; !ok {
		return false
	}
	next := make(map[string]*formula.Formula, len(current))
	for k, v := range current {
		if k != key {
			next[k] = v
		}
	}
	c.formulas.Store(&next)
	return true
}

// Has reports whether a formula is published under id.
func (c *Cache) Has(id string) bool {
	_, ok := c.Load(id)
	return ok
}

// List returns the sorted view identifiers.
func (c *Cache) List() []string {
	current := c.snapshot()
	names := make([]string, 0, len(current))
	for name := range current {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of cached formulas.
func (c *Cache) Len() int {
	return len(c.snapshot())
}

func (c *Cache) snapshot() map[string]*formula.Formula {
	if m := c.formulas.Load(); m != nil {
		return *m
	}
	return nil
}
