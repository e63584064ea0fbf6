package actionmap

import (
	"reflect"
	"testing"

	"github.com/nathoo/actioncore/types"
)

// fakeNode is a minimal Node with a mutable attribute store.
type fakeNode struct {
	kind  string
	id    string
	attrs map[string]string
}

func (n *fakeNode) Kind() string       { return n.kind }
func (n *fakeNode) ID() string         { return n.id }
func (n *fakeNode) Parent() types.Node { return nil }
func (n *fakeNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func TestGet_ParsesOnAttribute(t *testing.T) {
	c := NewCache()
	n := &fakeNode{kind: "div", id: "hero", attrs: map[string]string{"on": "tap:carousel.next"}}

	m := c.Get(n)
	if m == nil {
		t.Fatal("expected action map, got nil")
	}
	b := m["tap"]
	if b == nil || b.Target != "carousel" || b.Method != "next" {
		t.Errorf("tap binding = %+v", b)
	}
}

func TestGet_ReturnsSameReference(t *testing.T) {
	c := NewCache()
	n := &fakeNode{kind: "div", attrs: map[string]string{"on": "tap:carousel.next"}}

	m1 := c.Get(n)
	m2 := c.Get(n)
	if reflect.ValueOf(m1).Pointer() != reflect.ValueOf(m2).Pointer() {
		t.Error("expected identical cached map reference on repeated Get")
	}
	if m1["tap"] != m2["tap"] {
		t.Error("expected identical binding pointer on repeated Get")
	}
}

func TestGet_CachesNilResult(t *testing.T) {
	c := NewCache()
	n := &fakeNode{kind: "div", attrs: map[string]string{}}

	if m := c.Get(n); m != nil {
		t.Fatalf("expected nil map for node without on attribute, got %v", m)
	}
	if c.Len() != 1 {
		t.Errorf("expected nil result to be cached, Len = %d", c.Len())
	}
	// Second call hits the cache, not the attribute.
	if m := c.Get(n); m != nil {
		t.Errorf("expected cached nil, got %v", m)
	}
}

func TestGet_AttributeChangeNotObserved(t *testing.T) {
	c := NewCache()
	n := &fakeNode{kind: "div", attrs: map[string]string{"on": "tap:a"}}

	m1 := c.Get(n)
	n.attrs["on"] = "tap:b"
	m2 := c.Get(n)

	if m2["tap"].Target != "a" {
		t.Errorf("attribute change was observed: target = %q", m2["tap"].Target)
	}
	if m1["tap"] != m2["tap"] {
		t.Error("expected the first parse result to be reused")
	}
}

func TestGet_DistinctNodesDistinctEntries(t *testing.T) {
	c := NewCacheAttr("on")
	a := &fakeNode{kind: "div", attrs: map[string]string{"on": "tap:x"}}
	b := &fakeNode{kind: "div", attrs: map[string]string{"on": "tap:y"}}

	if c.Get(a)["tap"].Target != "x" {
		t.Error("node a parsed wrong")
	}
	if c.Get(b)["tap"].Target != "y" {
		t.Error("node b parsed wrong")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}
