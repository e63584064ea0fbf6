package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/actioncore/engine"
	"github.com/nathoo/actioncore/engine/resolve"
	"github.com/nathoo/actioncore/engine/task"
	"github.com/nathoo/actioncore/markup"
	"github.com/nathoo/actioncore/types"
)

// Console processes playground commands against one loaded document.
// It owns the deferred-task queue and drains it at the end of every
// command line — that drain is the "later" at which pending-queue
// flushes run. Both the plain CLI and the TUI drive a Console.
type Console struct {
	Doc   *markup.Document
	Eng   *engine.Engine
	Tasks *task.Queue
	Trace bool

	sink []string // lines emitted by installed demo handlers
}

// NewConsole wires a console, its engine, and its task queue over doc.
func NewConsole(doc *markup.Document) *Console {
	c := &Console{Doc: doc, Tasks: &task.Queue{}}
	c.Eng = engine.New(doc, c.Tasks)
	return c
}

// Exec processes one command line and returns its output. quit is true
// for /quit. Command forms:
//
//	<event> <id>                  trigger an event on an element
//	exec <target>.<method> [from <id>]   programmatic execution
//	/install /global /map /tree /queues /trace /help /quit
func (c *Console) Exec(line string) (out []string, quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false
	}

	if strings.HasPrefix(line, "/") {
		out, quit = c.handleMeta(line)
	} else {
		out = c.handleCommand(line)
	}

	// End-of-line checkpoint: run deferred flushes, collect handler output.
	if c.Tasks.Len() > 0 && c.Trace {
		out = append(out, fmt.Sprintf("[trace] draining %d deferred task(s)", c.Tasks.Len()))
	}
	c.Tasks.Drain()
	out = append(out, c.takeSink()...)

	return out, quit
}

// handleCommand runs a trigger or exec command.
func (c *Console) handleCommand(line string) []string {
	fields := strings.Fields(line)

	if fields[0] == "exec" {
		return c.cmdExec(fields[1:])
	}

	if len(fields) != 2 {
		return []string{"error: expected '<event> <id>' or 'exec <target>.<method>'"}
	}
	return c.cmdTrigger(fields[0], fields[1])
}

// cmdTrigger fires an event on the named element and routes it through
// binding resolution.
func (c *Console) cmdTrigger(eventName, id string) []string {
	source, ok := c.Doc.ElementByID(id)
	if !ok {
		return []string{fmt.Sprintf("error: no element with id %q", id)}
	}

	var out []string
	if c.Trace {
		if found := resolve.FindAction(c.Eng.Cache, source, eventName); found != nil {
			out = append(out, fmt.Sprintf("[trace] %s resolved to %s.%s (declared on %s)",
				eventName, found.Binding.Target, found.Binding.Method, nodeName(found.Node)))
		} else {
			out = append(out, fmt.Sprintf("[trace] no binding for %s from %s", eventName, id))
		}
	}

	ev := &types.Event{Type: eventName}
	if err := c.Eng.Trigger(source, eventName, ev); err != nil {
		return append(out, "error: "+err.Error())
	}
	return out
}

// cmdExec dispatches directly: exec <target>.<method> [from <id>].
func (c *Console) cmdExec(args []string) []string {
	if len(args) != 1 && len(args) != 3 {
		return []string{"usage: exec <target>.<method> [from <id>]"}
	}

	targetID, method, ok := strings.Cut(args[0], ".")
	if !ok || targetID == "" || method == "" {
		return []string{"usage: exec <target>.<method> [from <id>]"}
	}

	target, found := c.Doc.ElementByID(targetID)
	if !found {
		return []string{fmt.Sprintf("error: no element with id %q", targetID)}
	}

	var source types.Node
	if len(args) == 3 {
		if args[1] != "from" {
			return []string{"usage: exec <target>.<method> [from <id>]"}
		}
		el, ok := c.Doc.ElementByID(args[2])
		if !ok {
			return []string{fmt.Sprintf("error: no element with id %q", args[2])}
		}
		source = el
	}

	if err := c.Eng.Execute(target, method, source, nil); err != nil {
		return []string{"error: " + err.Error()}
	}
	return nil
}

// logHandler returns a demo handler that reports each invocation to the
// console output. It stands in for a real component implementation.
func (c *Console) logHandler(name string) types.Handler {
	return func(inv *types.Invocation) {
		c.sink = append(c.sink, "→ "+name+"."+inv.Method+describeInvocation(inv))
	}
}

func (c *Console) takeSink() []string {
	lines := c.sink
	c.sink = nil
	return lines
}

// describeInvocation renders the invocation's source and event.
func describeInvocation(inv *types.Invocation) string {
	var parts []string
	if inv.Source != nil {
		parts = append(parts, "source="+nodeName(inv.Source))
	}
	if inv.Event != nil {
		parts = append(parts, "event="+inv.Event.Type)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// nodeName renders an element for output: id if set, kind otherwise.
func nodeName(n types.Node) string {
	if n.ID() != "" {
		return n.ID()
	}
	return "<" + n.Kind() + ">"
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (c *Console) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/install":
		return c.cmdInstall(arg), false

	case "/global":
		return c.cmdGlobal(arg), false

	case "/map":
		return c.cmdMap(arg), false

	case "/tree":
		return c.cmdTree(), false

	case "/queues":
		return c.cmdQueues(), false

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	case "/help":
		return c.cmdHelp(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

// cmdInstall installs a logging handler for an element, simulating the
// component's upgrade completing. Buffered invocations flush at the end
// of this command line.
func (c *Console) cmdInstall(id string) []string {
	if id == "" {
		return []string{"usage: /install <id>"}
	}
	el, ok := c.Doc.ElementByID(id)
	if !ok {
		return []string{fmt.Sprintf("error: no element with id %q", id)}
	}

	pending := c.Eng.Dispatcher.Pending(el)
	c.Eng.InstallHandler(el, c.logHandler(nodeName(el)))

	out := []string{fmt.Sprintf("Handler installed for %s.", nodeName(el))}
	if pending > 0 {
		out = append(out, fmt.Sprintf("Flushing %d pending invocation(s).", pending))
	}
	return out
}

// cmdGlobal registers a logging global handler for a method name.
func (c *Console) cmdGlobal(method string) []string {
	if method == "" {
		return []string{"usage: /global <method>"}
	}
	c.Eng.RegisterGlobalHandler(method, c.logHandler("global:"+method))
	return []string{fmt.Sprintf("Global handler registered for %q.", method)}
}

// cmdMap shows an element's parsed action map.
func (c *Console) cmdMap(id string) []string {
	if id == "" {
		return []string{"usage: /map <id>"}
	}
	el, ok := c.Doc.ElementByID(id)
	if !ok {
		return []string{fmt.Sprintf("error: no element with id %q", id)}
	}

	m := c.Eng.Cache.Get(el)
	if m == nil {
		return []string{fmt.Sprintf("%s declares no actions.", nodeName(el))}
	}

	events := make([]string, 0, len(m))
	for ev := range m {
		events = append(events, ev)
	}
	sort.Strings(events)

	out := make([]string, 0, len(events))
	for _, ev := range events {
		b := m[ev]
		out = append(out, fmt.Sprintf("%s → %s.%s", ev, b.Target, b.Method))
	}
	return out
}

// cmdTree renders the document tree with dispatch state per element.
func (c *Console) cmdTree() []string {
	var out []string
	var render func(el *markup.Element, depth int)
	render = func(el *markup.Element, depth int) {
		label := strings.Repeat("  ", depth) + el.Kind()
		if el.ID() != "" {
			label += "#" + el.ID()
		}
		if on, ok := el.Attr("on"); ok {
			label += ` on="` + on + `"`
		}
		if c.Eng.Dispatcher.Resolved(el) {
			label += " [ready]"
		} else if n := c.Eng.Dispatcher.Pending(el); n > 0 {
			label += fmt.Sprintf(" [%d pending]", n)
		}
		out = append(out, label)
		for _, child := range el.Children() {
			render(child, depth+1)
		}
	}
	render(c.Doc.Root(), 0)
	return out
}

// cmdQueues lists elements with buffered invocations.
func (c *Console) cmdQueues() []string {
	targets := c.Eng.Dispatcher.PendingTargets()
	if len(targets) == 0 {
		return []string{"No pending invocations."}
	}

	names := make([]string, 0, len(targets))
	counts := map[string]int{}
	for _, n := range targets {
		name := nodeName(n)
		names = append(names, name)
		counts[name] = c.Eng.Dispatcher.Pending(n)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, fmt.Sprintf("%s: %d pending", name, counts[name]))
	}
	return out
}

func (c *Console) cmdHelp() []string {
	return []string{
		"Commands:",
		"  <event> <id>                   trigger an event on an element (e.g. 'tap hero')",
		"  exec <target>.<method> [from <id>]   execute an action directly",
		"Meta:",
		"  /install <id>   install a handler (simulates component upgrade)",
		"  /global <m>     register a global handler for method m",
		"  /map <id>       show an element's action map",
		"  /tree           show the document tree and dispatch state",
		"  /queues         show pending invocation queues",
		"  /trace          toggle resolution trace output",
		"  /quit           exit",
	}
}
