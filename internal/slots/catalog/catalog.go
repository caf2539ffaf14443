// Package catalog names the renderables that slot registrations may refer to.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/pageslots/internal/slots"
)

// ErrUnknownComponent is returned by Lookup for names with no registration.
var ErrUnknownComponent = errors.New("unknown slot component")

// builtinTags are the element components every catalog starts with.
var builtinTags = []string{"div", "aside", "section", "nav", "header", "footer", "p", "span"}

// Catalog maps component names to renderables. It is safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	components map[string]slots.Renderable
}

// New returns a catalog holding the built-in element components.
func New() *Catalog {
	c := &Catalog{components: make(map[string]slots.Renderable, len(builtinTags))}
	for _, tag := range builtinTags {
		c.components[tag] = Element{Tag: tag}
	}
	return c
}

// Register adds or replaces the component stored under name.
func (c *Catalog) Register(name string, component slots.Renderable) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("component name is required")
	}
	if component == nil {
		return fmt.Errorf("component %q is nil", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.components == nil {
		c.components = map[string]slots.Renderable{}
	}
	c.components[name] = component
	return nil
}

// Lookup returns the component registered under name.
func (c *Catalog) Lookup(name string) (slots.Renderable, error) {
	c.mu.RLock()
	component, ok := c.components[strings.TrimSpace(name)]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return component, nil
}

// Names returns the registered component names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.components))
	for name := range c.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Named is implemented by renderables that can report their catalog name.
type Named interface {
	ComponentName() string
}

// Name describes component for diagnostics: its ComponentName when it has
// one, otherwise its Go type.
func Name(component slots.Renderable) string {
	if component == nil {
		return ""
	}
	if named, ok := component.(Named); ok {
		return named.ComponentName()
	}
	return fmt.Sprintf("%T", component)
}
