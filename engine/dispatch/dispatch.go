// Package dispatch implements the invocation dispatch state machine:
// global method handlers, per-target pending queues, and the deferred
// flush that runs when a component installs its handler.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/nathoo/actioncore/types"
)

// Scheduler is the injected deferred-mutation capability: run fn once,
// later, preserving order relative to other scheduled callbacks. The
// dispatcher never runs flushes inline; it posts them here.
type Scheduler interface {
	Schedule(fn func())
}

// Config controls target classification.
type Config struct {
	// ReservedPrefix marks element kinds owned by the framework
	// (e.g. "ui-carousel"). A reserved-kind target without an installed
	// handler is a configuration error, not a pending state.
	ReservedPrefix string
	// StandardKinds are element kinds that can never host an action
	// handler (plain built-in elements).
	StandardKinds map[string]bool
}

// DefaultConfig returns the stock classification: "ui-" reserved prefix
// and the common built-in element kinds.
func DefaultConfig() Config {
	return Config{
		ReservedPrefix: "ui-",
		StandardKinds: map[string]bool{
			"a": true, "button": true, "div": true, "form": true,
			"img": true, "input": true, "label": true, "p": true,
			"section": true, "select": true, "span": true, "textarea": true,
		},
	}
}

// UnrecognizedComponentError reports a reserved-kind target whose
// implementation was never loaded. This is a configuration error, not a
// transient state, and is never queued.
type UnrecognizedComponentError struct {
	Kind string
}

func (e *UnrecognizedComponentError) Error() string {
	return fmt.Sprintf("component %q has no loaded implementation", e.Kind)
}

// NotAnActionTargetError reports a dispatch to a standard element kind
// that can never host an action handler.
type NotAnActionTargetError struct {
	Kind   string
	Method string
}

func (e *NotAnActionTargetError) Error() string {
	return fmt.Sprintf("element kind %q cannot receive action %q", e.Kind, e.Method)
}

// targetState tracks one target's readiness. Exactly one of the two
// shapes is active: unresolved (handler nil, queue may accumulate) or
// resolved (handler set, queue gone). A resolved target never reverts.
type targetState struct {
	handler types.Handler
	queue   []*types.Invocation
}

// Dispatcher owns the global method table and the per-target state.
// One instance per process, threaded through call sites explicitly.
// Not safe for concurrent use; the framework runs one event loop.
type Dispatcher struct {
	sched   Scheduler
	cfg     Config
	globals map[string]types.Handler
	targets map[types.Node]*targetState
}

// New creates a dispatcher using sched for deferred flushes.
func New(sched Scheduler, cfg Config) *Dispatcher {
	return &Dispatcher{
		sched:   sched,
		cfg:     cfg,
		globals: map[string]types.Handler{},
		targets: map[types.Node]*targetState{},
	}
}

// readiness classifies a target for one dispatch decision.
type readiness int

const (
	ready readiness = iota // handler installed, call synchronously
	recognizedUnready      // reserved kind, implementation missing
	standardNonExtensible  // plain element, can never host a handler
	pendingCustom          // custom kind, readiness merely pending
)

// classify computes the target's readiness once per dispatch.
func (d *Dispatcher) classify(target types.Node) readiness {
	if st, ok := d.targets[target]; ok && st.handler != nil {
		return ready
	}
	kind := target.Kind()
	if d.cfg.ReservedPrefix != "" && strings.HasPrefix(kind, d.cfg.ReservedPrefix) {
		return recognizedUnready
	}
	if d.cfg.StandardKinds[kind] {
		return standardNonExtensible
	}
	return pendingCustom
}

// Dispatch routes one invocation. Decision order, first match wins:
//  1. A global handler for method intercepts, regardless of target.
//  2. A ready target's handler is called synchronously.
//  3. A reserved-kind target without a handler fails: the implementation
//     was never loaded.
//  4. A standard element kind fails: it can never host a handler.
//  5. Otherwise the invocation is appended to the target's pending queue.
//
// Fatal errors are returned to the caller and leave every queue and call
// count untouched.
func (d *Dispatcher) Dispatch(target types.Node, method string, args map[string]any,
	source types.Node, event *types.Event) error {

	inv := &types.Invocation{
		Target: target,
		Method: method,
		Args:   args,
		Source: source,
		Event:  event,
	}

	if h, ok := d.globals[method]; ok {
		h(inv)
		return nil
	}

	switch d.classify(target) {
	case ready:
		d.targets[target].handler(inv)
		return nil

	case recognizedUnready:
		return &UnrecognizedComponentError{Kind: target.Kind()}

	case standardNonExtensible:
		return &NotAnActionTargetError{Kind: target.Kind(), Method: method}

	default: // pendingCustom
		st, ok := d.targets[target]
		if !ok {
			st = &targetState{}
			d.targets[target] = st
		}
		st.queue = append(st.queue, inv)
		return nil
	}
}

// InstallHandler switches target from unresolved to resolved. Dispatches
// issued after this call go directly to handler, even before a scheduled
// flush has run. If invocations were buffered, exactly one flush task is
// scheduled; it delivers them in enqueue order, each exactly once, then
// the queue is gone for good.
func (d *Dispatcher) InstallHandler(target types.Node, handler types.Handler) {
	st, ok := d.targets[target]
	if !ok {
		d.targets[target] = &targetState{handler: handler}
		return
	}

	st.handler = handler

	if len(st.queue) == 0 {
		return
	}

	pending := st.queue
	st.queue = nil
	d.sched.Schedule(func() {
		for _, inv := range pending {
			handler(inv)
		}
	})
}

// RegisterGlobalHandler inserts or overwrites the global table entry for
// method. Last write wins; takes effect for all subsequent dispatches.
func (d *Dispatcher) RegisterGlobalHandler(method string, handler types.Handler) {
	d.globals[method] = handler
}

// Pending reports how many invocations are buffered for target.
func (d *Dispatcher) Pending(target types.Node) int {
	if st, ok := d.targets[target]; ok {
		return len(st.queue)
	}
	return 0
}

// PendingTotal reports buffered invocations across all targets.
func (d *Dispatcher) PendingTotal() int {
	total := 0
	for _, st := range d.targets {
		total += len(st.queue)
	}
	return total
}

// PendingTargets returns the targets that currently have buffered
// invocations, in no particular order.
func (d *Dispatcher) PendingTargets() []types.Node {
	var nodes []types.Node
	for n, st := range d.targets {
		if len(st.queue) > 0 {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Resolved reports whether target has an installed handler.
func (d *Dispatcher) Resolved(target types.Node) bool {
	st, ok := d.targets[target]
	return ok && st.handler != nil
}

// GlobalCount reports how many global method handlers are registered.
func (d *Dispatcher) GlobalCount() int {
	return len(d.globals)
}
