// Package engine provides the facade that wires binding resolution and
// invocation dispatch into the four operations external code calls:
// Trigger, Execute, InstallHandler, RegisterGlobalHandler.
package engine

import (
	"fmt"

	"github.com/nathoo/actioncore/engine/actionmap"
	"github.com/nathoo/actioncore/engine/dispatch"
	"github.com/nathoo/actioncore/engine/resolve"
	"github.com/nathoo/actioncore/types"
)

// NodeIndex resolves binding target ids to nodes. The markup document
// implements this; the engine never walks the tree itself.
type NodeIndex interface {
	NodeByID(id string) (types.Node, bool)
}

// UnknownTargetError reports a binding whose target id names no element
// in the document.
type UnknownTargetError struct {
	ID string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("action target %q does not exist in the document", e.ID)
}

// Engine composes the action-map cache, the resolver, and the dispatcher
// over one document. One instance per document, threaded through call
// sites explicitly — no process-wide singleton.
type Engine struct {
	Index      NodeIndex
	Cache      *actionmap.Cache
	Dispatcher *dispatch.Dispatcher
}

// New creates an engine over index using sched for deferred flushes and
// the stock target classification.
func New(index NodeIndex, sched dispatch.Scheduler) *Engine {
	return NewConfig(index, sched, dispatch.DefaultConfig())
}

// NewConfig creates an engine with a custom target classification.
func NewConfig(index NodeIndex, sched dispatch.Scheduler, cfg dispatch.Config) *Engine {
	return &Engine{
		Index:      index,
		Cache:      actionmap.NewCache(),
		Dispatcher: dispatch.New(sched, cfg),
	}
}

// Trigger routes a bubbling event that originated on source. The nearest
// enclosing binding for eventName wins; no binding is a routine no-op.
// The invocation's source is the element the event started on, not the
// element that declared the binding.
func (e *Engine) Trigger(source types.Node, eventName string, event *types.Event) error {
	found := resolve.FindAction(e.Cache, source, eventName)
	if found == nil {
		return nil
	}

	target, ok := e.Index.NodeByID(found.Binding.Target)
	if !ok {
		return &UnknownTargetError{ID: found.Binding.Target}
	}

	return e.Dispatcher.Dispatch(target, found.Binding.Method, nil, source, event)
}

// Execute dispatches directly to target, bypassing binding resolution.
// Used for explicit, programmatic action execution.
func (e *Engine) Execute(target types.Node, method string, source types.Node, event *types.Event) error {
	return e.Dispatcher.Dispatch(target, method, nil, source, event)
}

// InstallHandler publishes target's dispatch entry point. Called by the
// component-upgrade subsystem once the component is ready.
func (e *Engine) InstallHandler(target types.Node, handler types.Handler) {
	e.Dispatcher.InstallHandler(target, handler)
}

// RegisterGlobalHandler registers a handler for method on any target.
func (e *Engine) RegisterGlobalHandler(method string, handler types.Handler) {
	e.Dispatcher.RegisterGlobalHandler(method, handler)
}
