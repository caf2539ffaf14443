// Package slots selects which registered renderers are active for a named
// page slot at the current route path.
//
// A slot is an insertion point in a page layout. Entries are registered per
// slot in order; each carries a path rule, a renderable, and the props to
// hand it. Dispatch filters a slot's entries against the current path and
// returns the survivors in registration order.
package slots

import "github.com/a-h/templ"

// Props is the attribute bag handed to a renderable unchanged.
type Props map[string]any

// Renderable produces a UI node for one slot entry.
type Renderable interface {
	Render(props Props) templ.Component
}

// RenderableFunc adapts a plain function into a Renderable.
type RenderableFunc func(props Props) templ.Component

// Render calls f(props).
func (f RenderableFunc) Render(props Props) templ.Component {
	return f(props)
}

// Entry binds a renderable and its props to a path rule within one slot.
type Entry struct {
	// Path is the route path that activates the entry. Descendant paths
	// also activate it unless Exact is set.
	Path string
	// Component renders the entry.
	Component Renderable
	// Props are passed to Component as-is.
	Props Props
	// Exact disables descendant matching.
	Exact bool
}

// Mount is one dispatched renderer together with the props it receives.
type Mount struct {
	Component Renderable
	Props     Props
}
