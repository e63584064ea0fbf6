// Package resolve finds the nearest enclosing action binding for an event.
package resolve

import (
	"github.com/nathoo/actioncore/engine/actionmap"
	"github.com/nathoo/actioncore/types"
)

// Found pairs the node that declared a binding with the binding itself.
// The declaring node may be an ancestor of the node the event started on.
type Found struct {
	Node    types.Node
	Binding *types.ActionBinding
}

// FindAction walks from node up the ancestor chain, inclusive of node
// itself, and returns the first binding declared for eventName — the
// nearest enclosing declaration wins, matching bubbling semantics.
// Returns nil when the chain is exhausted without a match.
func FindAction(cache *actionmap.Cache, node types.Node, eventName string) *Found {
	for n := node; n != nil; n = n.Parent() {
		m := cache.Get(n)
		if m == nil {
			continue
		}
		if binding, ok := m[eventName]; ok {
			return &Found{Node: n, Binding: binding}
		}
	}
	return nil
}
