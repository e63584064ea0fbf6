// Package markup provides the concrete element tree the dispatch core
// operates on. The core itself only sees the types.Node interface; this
// package owns structure, attributes, and the id index.
package markup

import (
	"fmt"
	"sort"

	"github.com/nathoo/actioncore/types"
)

// Element is one node in the document tree.
type Element struct {
	kind     string
	id       string
	attrs    map[string]string
	parent   *Element
	children []*Element
}

// NewElement creates a detached element. attrs may be nil.
func NewElement(kind, id string, attrs map[string]string) *Element {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &Element{kind: kind, id: id, attrs: attrs}
}

// Kind returns the element kind ("div", "ui-carousel", ...).
func (el *Element) Kind() string { return el.kind }

// ID returns the element id, or "" if none.
func (el *Element) ID() string { return el.id }

// Attr returns the named attribute value and whether it is set.
func (el *Element) Attr(name string) (string, bool) {
	v, ok := el.attrs[name]
	return v, ok
}

// SetAttr sets an attribute. Note: the action-map cache reads the "on"
// attribute once per element; changes after first dispatch through an
// engine are not observed by it.
func (el *Element) SetAttr(name, value string) {
	el.attrs[name] = value
}

// AttrNames returns the element's attribute names, sorted.
func (el *Element) AttrNames() []string {
	names := make([]string, 0, len(el.attrs))
	for name := range el.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parent returns the parent element, or nil at the root.
func (el *Element) Parent() types.Node {
	if el.parent == nil {
		return nil
	}
	return el.parent
}

// Children returns the element's children in document order.
func (el *Element) Children() []*Element {
	return el.children
}

// Append attaches child as the last child of el. A child already
// attached elsewhere is detached first.
func (el *Element) Append(child *Element) {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = el
	el.children = append(el.children, child)
}

func (el *Element) remove(child *Element) {
	for i, c := range el.children {
		if c == child {
			el.children = append(el.children[:i], el.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Walk visits el and its descendants depth-first in document order.
// The walk stops when fn returns false.
func (el *Element) Walk(fn func(*Element) bool) bool {
	if !fn(el) {
		return false
	}
	for _, c := range el.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Document is an element tree with an id index.
type Document struct {
	Title string
	root  *Element
	byID  map[string]*Element
}

// NewDocument indexes the tree rooted at root. Elements without an id
// are legal; duplicate ids are not.
func NewDocument(title string, root *Element) (*Document, error) {
	d := &Document{Title: title, root: root, byID: map[string]*Element{}}

	var dup error
	root.Walk(func(el *Element) bool {
		if el.id == "" {
			return true
		}
		if _, exists := d.byID[el.id]; exists {
			dup = fmt.Errorf("duplicate element id %q", el.id)
			return false
		}
		d.byID[el.id] = el
		return true
	})
	if dup != nil {
		return nil, dup
	}

	return d, nil
}

// Root returns the document's root element.
func (d *Document) Root() *Element {
	return d.root
}

// NodeByID implements the engine's NodeIndex.
func (d *Document) NodeByID(id string) (types.Node, bool) {
	el, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return el, true
}

// ElementByID returns the concrete element for id.
func (d *Document) ElementByID(id string) (*Element, bool) {
	el, ok := d.byID[id]
	return el, ok
}

// Len reports the number of elements in the document.
func (d *Document) Len() int {
	n := 0
	d.root.Walk(func(*Element) bool {
		n++
		return true
	})
	return n
}
