// Package loader loads Lua document declarations into a markup tree at
// startup. The Lua VM is discarded after loading — zero Lua at runtime.
package loader

import (
	"fmt"
	"strconv"

	"github.com/nathoo/actioncore/markup"
	lua "github.com/yuin/gopher-lua"
)

// rawElement holds an element table before compilation.
type rawElement struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// attrValue renders a Lua value as an attribute string. Tables and
// functions are not attribute material and yield "".
func attrValue(v lua.LValue) (string, bool) {
	switch val := v.(type) {
	case lua.LString:
		return string(val), true
	case lua.LBool:
		if bool(val) {
			return "true", true
		}
		return "false", true
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return strconv.Itoa(int(f)), true
		}
		return strconv.FormatFloat(f, 'g', -1, 64), true
	default:
		return "", false
	}
}

// compile turns the collected Lua tables into a markup.Document.
// Structural problems (missing root, unknown parent, duplicate ids,
// unreachable elements) are errors; binding-level problems are left to
// validate, which only warns.
func compile(coll *collector) (*markup.Document, error) {
	if coll.doc == nil {
		return nil, fmt.Errorf("no Document declaration found")
	}

	title := getString(coll.doc, "title")
	rootID := getString(coll.doc, "root")
	if rootID == "" {
		return nil, fmt.Errorf("Document.root is required")
	}

	// First pass: create every element.
	byID := map[string]*markup.Element{}
	parents := map[string]string{}
	order := make([]string, 0, len(coll.elements))

	for _, raw := range coll.elements {
		if _, exists := byID[raw.id]; exists {
			return nil, fmt.Errorf("duplicate element id %q", raw.id)
		}

		kind := getString(raw.table, "kind")
		if kind == "" {
			kind = "div"
		}

		attrs := map[string]string{}
		raw.table.ForEach(func(k, v lua.LValue) {
			key, ok := k.(lua.LString)
			if !ok {
				return
			}
			name := string(key)
			if name == "kind" || name == "parent" {
				return
			}
			if s, ok := attrValue(v); ok {
				attrs[name] = s
			}
		})

		byID[raw.id] = markup.NewElement(kind, raw.id, attrs)
		parents[raw.id] = getString(raw.table, "parent")
		order = append(order, raw.id)
	}

	root, ok := byID[rootID]
	if !ok {
		return nil, fmt.Errorf("root element %q is not declared", rootID)
	}
	if parents[rootID] != "" {
		return nil, fmt.Errorf("root element %q must not declare a parent", rootID)
	}

	// Second pass: attach children in declaration order. Elements other
	// than the root default to the root as parent.
	for _, id := range order {
		if id == rootID {
			continue
		}
		parentID := parents[id]
		if parentID == "" {
			parentID = rootID
		}
		parent, ok := byID[parentID]
		if !ok {
			return nil, fmt.Errorf("element %q declares unknown parent %q", id, parentID)
		}
		parent.Append(byID[id])
	}

	// A parent chain that never reaches the root (a cycle among
	// non-root elements) leaves elements out of the tree.
	reachable := 0
	root.Walk(func(*markup.Element) bool {
		reachable++
		return true
	})
	if reachable != len(order) {
		return nil, fmt.Errorf("%d element(s) unreachable from root %q (parent cycle?)",
			len(order)-reachable, rootID)
	}

	return markup.NewDocument(title, root)
}
