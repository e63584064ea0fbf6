// Package actionmap lazily computes and memoizes per-node action maps.
package actionmap

import (
	"github.com/nathoo/actioncore/engine/parser"
	"github.com/nathoo/actioncore/types"
)

// DefaultAttr is the attribute consulted for action declarations.
const DefaultAttr = "on"

// Cache memoizes the parsed action map of each node, keyed by node
// identity. The attribute is read once per node, on first access; a
// change to the attribute after that is not observed. This is a known,
// accepted limitation: action declarations are static markup.
type Cache struct {
	attr string
	maps map[types.Node]types.ActionMap
}

// NewCache creates a cache reading the standard "on" attribute.
func NewCache() *Cache {
	return NewCacheAttr(DefaultAttr)
}

// NewCacheAttr creates a cache reading a custom attribute name.
func NewCacheAttr(attr string) *Cache {
	return &Cache{attr: attr, maps: map[types.Node]types.ActionMap{}}
}

// Get returns the node's action map, parsing the attribute on first
// access and returning the same stored reference (possibly nil) on every
// later call for the same node.
func (c *Cache) Get(n types.Node) types.ActionMap {
	if m, ok := c.maps[n]; ok {
		return m
	}
	raw, _ := n.Attr(c.attr)
	m := parser.ParseActionMap(raw)
	c.maps[n] = m
	return m
}

// Len reports how many nodes have a cached result.
func (c *Cache) Len() int {
	return len(c.maps)
}
