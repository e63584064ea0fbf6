package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the Lua document constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Document { title = "...", root = "page" }
	L.SetGlobal("Document", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.doc = tbl
		return 0
	}))

	// Element "id" { kind = "div", parent = "page", on = "tap:x.next", ... }
	// Curried: Element("id") returns a function that takes a table.
	// Every table key besides kind and parent becomes an attribute.
	L.SetGlobal("Element", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.elements = append(coll.elements, rawElement{id: id, table: tbl})
			return 0
		}))
		return 1
	}))
}
