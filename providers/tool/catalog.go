package tool

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrNotFound is returned by Catalog.Call for an unknown tool name.
var ErrNotFound = errors.New("tool not found")

// Catalog is a registry of tools keyed by case-insensitive name. It is safe
// for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]GenericTool
}

// NewCatalog returns a catalog holding tools.
func NewCatalog(tools ...GenericTool) *Catalog {
	c := &Catalog{tools: make(map[string]GenericTool, len(tools))}
	c.Add(tools...)
	return c
}

// Add registers tools, replacing any tool with the same name.
func (c *Catalog) Add(tools ...GenericTool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tools {
		c.tools[strings.ToLower(t.ToolInfo().Name)] = t
	}
}

func (c *Catalog) Get(name string) (GenericTool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tools[strings.ToLower(name)]
	return t, ok
}

// Remove reports whether a tool was registered under name.
func (c *Catalog) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := c.tools[key]; !ok {
		return false
	}
	delete(c.tools, key)
	return true
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

// Descriptions returns the description of every tool sorted by name, ready
// to be advertised to a model.
func (c *Catalog) Descriptions() []Description {
	c.mu.RLock()
	descriptions := make([]Description, 0, len(c.tools))
	for _, t := range c.tools {
		descriptions = append(descriptions, t.ToolInfo())
	}
	c.mu.RUnlock()

	slices.SortFunc(descriptions, func(a, b Description) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return descriptions
}

// Call dispatches inputJSON to the named tool. The lock is not held while
// the tool runs.
func (c *Catalog) Call(ctx context.Context, name, inputJSON string) (string, error) {
	t, ok := c.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return t.Call(ctx, inputJSON)
}
