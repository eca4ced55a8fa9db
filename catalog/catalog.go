// Package catalog holds named physics-body templates loaded from shape
// definition documents.
package catalog

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Catalog maps body names to templates. A name loaded twice keeps the most
// recent definition.
type Catalog struct {
	mu     sync.RWMutex
	opts   Options
	bodies map[string]BodyTemplate
}

func New(opts Options) *Catalog {
	return &Catalog{
		opts:   opts,
		bodies: make(map[string]BodyTemplate),
	}
}

func (c *Catalog) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts
}

// Insert adds or replaces a template.
func (c *Catalog) Insert(name string, tmpl BodyTemplate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tmpl.Name = name
	c.bodies[name] = tmpl
}

// Lookup returns the template registered under name. The returned value shares
// its slices with the catalog and must not be modified.
func (c *Catalog) Lookup(name string) (BodyTemplate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tmpl, ok := c.bodies[name]
	return tmpl, ok
}

// RemoveByFile re-reads the document at path and evicts every body it names.
func (c *Catalog) RemoveByFile(path string) error {
	data, err := readDocument(path)
	if err != nil {
		return fmt.Errorf("catalog: remove %s: %w", path, err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return fmt.Errorf("catalog: remove %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for name := range doc.Bodies {
		if _, ok := c.bodies[name]; ok {
			delete(c.bodies, name)
			removed++
		}
	}
	log.Printf("Catalog: removed %d bodies named in %s", removed, path)
	return nil
}

// RemoveAll evicts every template.
func (c *Catalog) RemoveAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies = make(map[string]BodyTemplate)
}

// Names returns the registered body names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.bodies))
	for name := range c.bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bodies)
}
