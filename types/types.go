// Package types defines the shared data structures for the actioncore
// dispatch engine. This package contains only type definitions — no logic.
package types

// Node is one element in the markup tree as seen by the dispatch core.
// The concrete tree lives in the markup package; the core only needs
// identity, kind, attribute access, and the parent link.
type Node interface {
	// Kind is the element kind, e.g. "div", "ui-carousel", "x-widget".
	Kind() string
	// ID is the document-unique element id, or "" if none.
	ID() string
	// Attr returns the named attribute value and whether it is set.
	Attr(name string) (string, bool)
	// Parent returns the parent element, or nil at the root.
	Parent() Node
}

// ActionBinding is one parsed "event:target.method" binding.
// Immutable once parsed.
type ActionBinding struct {
	Event  string
	Target string // target element id
	Method string
}

// ActionMap maps event name → binding for one element. Within one source
// string a later binding for the same event overwrites an earlier one.
// A nil ActionMap means "no bindings"; it is never an empty map.
type ActionMap map[string]*ActionBinding

// Event is the runtime event payload passed through to the invocation.
type Event struct {
	Type string
	Data map[string]any
}

// Invocation is one dispatch request. Created fresh per dispatch and
// handed to exactly one consumer — a handler call or a pending queue.
type Invocation struct {
	Target Node
	Method string
	Args   map[string]any // optional value bag
	Source Node           // the element that originated the event
	Event  *Event         // nil for programmatic execution
}

// Handler is a component's dispatch entry point.
type Handler func(*Invocation)
