// Package parser converts action attribute strings into bindings.
// Intentionally dumb: no expression language, just token splitting.
package parser

import (
	"strings"

	"github.com/nathoo/actioncore/types"
)

// DefaultMethod is the method a binding invokes when the ".method" suffix
// is omitted, e.g. "tap:dialog" means "tap:dialog.activate".
const DefaultMethod = "activate"

// ParseAction parses a single "event:target.method" binding string.
// Whitespace around every token is insignificant. Returns nil when the
// string is not a binding: no ':' separator, empty event, or empty target.
// A malformed binding is a routine non-result, never an error.
func ParseAction(text string) *types.ActionBinding {
	colon := strings.Index(text, ":")
	if colon < 0 {
		return nil
	}

	event := strings.TrimSpace(text[:colon])
	rest := text[colon+1:]

	// The target/method split uses the first '.' after the colon. The
	// event and method may themselves contain further '.' characters.
	target := rest
	method := ""
	if dot := strings.Index(rest, "."); dot >= 0 {
		target = rest[:dot]
		method = rest[dot+1:]
	}

	target = strings.TrimSpace(target)
	method = strings.TrimSpace(method)

	if event == "" || target == "" {
		return nil
	}
	if method == "" {
		method = DefaultMethod
	}

	return &types.ActionBinding{Event: event, Target: target, Method: method}
}

// ParseActionMap parses a full action attribute value: one or more
// ';'-separated bindings. Malformed segments are dropped silently; a later
// binding for an already-seen event overwrites the earlier one. Returns nil
// when no segment yields a binding (empty string, whitespace, ";;;").
func ParseActionMap(text string) types.ActionMap {
	var m types.ActionMap

	for _, seg := range strings.Split(text, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		binding := ParseAction(seg)
		if binding == nil {
			continue
		}
		if m == nil {
			m = types.ActionMap{}
		}
		m[binding.Event] = binding
	}

	return m
}
