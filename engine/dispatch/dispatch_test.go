package dispatch

import (
	"errors"
	"testing"

	"github.com/nathoo/actioncore/types"
)

// elem is a minimal Node for dispatch tests; identity is the pointer.
type elem struct {
	kind string
	id   string
}

func (e *elem) Kind() string               { return e.kind }
func (e *elem) ID() string                 { return e.id }
func (e *elem) Parent() types.Node         { return nil }
func (e *elem) Attr(string) (string, bool) { return "", false }

// manualScheduler records scheduled callbacks and runs them on demand,
// standing in for the event loop's deferred-mutation checkpoint.
type manualScheduler struct {
	tasks []func()
}

func (s *manualScheduler) Schedule(fn func()) {
	s.tasks = append(s.tasks, fn)
}

func (s *manualScheduler) run() {
	tasks := s.tasks
	s.tasks = nil
	for _, fn := range tasks {
		fn()
	}
}

// recorder collects invocations delivered to a handler.
type recorder struct {
	calls []*types.Invocation
}

func (r *recorder) handler() types.Handler {
	return func(inv *types.Invocation) {
		r.calls = append(r.calls, inv)
	}
}

func newTestDispatcher() (*Dispatcher, *manualScheduler) {
	sched := &manualScheduler{}
	return New(sched, DefaultConfig()), sched
}

func TestDispatch_ReadyTarget_Synchronous(t *testing.T) {
	d, _ := newTestDispatcher()
	target := &elem{kind: "x-widget", id: "w"}
	source := &elem{kind: "button", id: "b"}
	var rec recorder
	d.InstallHandler(target, rec.handler())

	ev := &types.Event{Type: "tap"}
	if err := d.Dispatch(target, "next", nil, source, ev); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if len(rec.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(rec.calls))
	}
	inv := rec.calls[0]
	if inv.Target != types.Node(target) || inv.Method != "next" ||
		inv.Source != types.Node(source) || inv.Event != ev {
		t.Errorf("invocation fields not preserved: %+v", inv)
	}
}

func TestDispatch_ReservedKindWithoutHandler_Fails(t *testing.T) {
	d, _ := newTestDispatcher()
	target := &elem{kind: "ui-carousel", id: "c"}

	err := d.Dispatch(target, "next", nil, nil, nil)
	var ucErr *UnrecognizedComponentError
	if !errors.As(err, &ucErr) {
		t.Fatalf("expected UnrecognizedComponentError, got %v", err)
	}
	if ucErr.Kind != "ui-carousel" {
		t.Errorf("Kind = %q", ucErr.Kind)
	}
	if d.Pending(target) != 0 {
		t.Error("fatal error must not enqueue anything")
	}
}

func TestDispatch_StandardKind_Fails(t *testing.T) {
	d, _ := newTestDispatcher()
	target := &elem{kind: "div", id: "d"}

	err := d.Dispatch(target, "activate", nil, nil, nil)
	var naErr *NotAnActionTargetError
	if !errors.As(err, &naErr) {
		t.Fatalf("expected NotAnActionTargetError, got %v", err)
	}
	if d.Pending(target) != 0 {
		t.Error("fatal error must not enqueue anything")
	}
}

func TestDispatch_CustomKind_Buffers(t *testing.T) {
	d, _ := newTestDispatcher()
	target := &elem{kind: "x-widget", id: "w"}

	if err := d.Dispatch(target, "first", nil, nil, nil); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if err := d.Dispatch(target, "second", nil, nil, nil); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if d.Pending(target) != 2 {
		t.Fatalf("Pending = %d, want 2", d.Pending(target))
	}
	if d.Resolved(target) {
		t.Error("target must not be resolved yet")
	}
}

func TestInstallHandler_FlushIsDeferredAndOrdered(t *testing.T) {
	d, sched := newTestDispatcher()
	target := &elem{kind: "x-widget", id: "w"}
	var rec recorder

	d.Dispatch(target, "first", nil, nil, nil)
	d.Dispatch(target, "second", nil, nil, nil)
	d.InstallHandler(target, rec.handler())

	// Not synchronous with installation.
	if len(rec.calls) != 0 {
		t.Fatalf("flush ran synchronously: %d calls", len(rec.calls))
	}
	if d.Pending(target) != 0 {
		t.Error("queue must be handed off at install time")
	}

	sched.run()

	if len(rec.calls) != 2 {
		t.Fatalf("expected 2 flushed calls, got %d", len(rec.calls))
	}
	if rec.calls[0].Method != "first" || rec.calls[1].Method != "second" {
		t.Errorf("flush order wrong: %q, %q", rec.calls[0].Method, rec.calls[1].Method)
	}

	// Exactly once: a second drain delivers nothing new.
	sched.run()
	if len(rec.calls) != 2 {
		t.Errorf("flush delivered twice: %d calls", len(rec.calls))
	}
}

func TestDispatch_AfterInstall_BeforeFlush_GoesDirect(t *testing.T) {
	d, sched := newTestDispatcher()
	target := &elem{kind: "x-widget", id: "w"}
	var rec recorder

	d.Dispatch(target, "buffered", nil, nil, nil)
	d.InstallHandler(target, rec.handler())

	// Issued after install but before the scheduled flush runs:
	// must go direct, must not land in the superseded queue.
	if err := d.Dispatch(target, "direct", nil, nil, nil); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0].Method != "direct" {
		t.Fatalf("expected synchronous direct call, got %v", rec.calls)
	}
	if d.Pending(target) != 0 {
		t.Error("superseded queue must never grow again")
	}

	sched.run()
	if len(rec.calls) != 2 {
		t.Fatalf("expected buffered call after flush, got %d", len(rec.calls))
	}
	if rec.calls[1].Method != "buffered" {
		t.Errorf("flushed call = %q", rec.calls[1].Method)
	}
}

func TestInstallHandler_EmptyQueue_NoTaskScheduled(t *testing.T) {
	d, sched := newTestDispatcher()
	target := &elem{kind: "x-widget", id: "w"}
	var rec recorder

	d.InstallHandler(target, rec.handler())
	if len(sched.tasks) != 0 {
		t.Errorf("expected no flush task for empty queue, got %d", len(sched.tasks))
	}
}

func TestGlobalHandler_InterceptsAnyTarget(t *testing.T) {
	d, _ := newTestDispatcher()
	var global recorder
	d.RegisterGlobalHandler("m", global.handler())

	// Even a plain div and an unresolved custom target: the global path
	// never errors on readiness and never creates a queue entry.
	div := &elem{kind: "div", id: "d"}
	custom := &elem{kind: "x-widget", id: "w"}

	if err := d.Dispatch(div, "m", nil, nil, nil); err != nil {
		t.Fatalf("global dispatch to div failed: %v", err)
	}
	if err := d.Dispatch(custom, "m", nil, nil, nil); err != nil {
		t.Fatalf("global dispatch to custom failed: %v", err)
	}

	if len(global.calls) != 2 {
		t.Fatalf("expected 2 global calls, got %d", len(global.calls))
	}
	if d.Pending(custom) != 0 || d.PendingTotal() != 0 {
		t.Error("global dispatch must not touch pending queues")
	}
}

func TestGlobalHandler_LastWriteWins(t *testing.T) {
	d, _ := newTestDispatcher()
	var first, second recorder
	d.RegisterGlobalHandler("m", first.handler())
	d.RegisterGlobalHandler("m", second.handler())

	d.Dispatch(&elem{kind: "div"}, "m", nil, nil, nil)

	if len(first.calls) != 0 || len(second.calls) != 1 {
		t.Errorf("last registration must win: first=%d second=%d",
			len(first.calls), len(second.calls))
	}
	if d.GlobalCount() != 1 {
		t.Errorf("GlobalCount = %d, want 1", d.GlobalCount())
	}
}

func TestGlobalHandler_BeatsReadyTarget(t *testing.T) {
	d, _ := newTestDispatcher()
	target := &elem{kind: "x-widget", id: "w"}
	var local, global recorder
	d.InstallHandler(target, local.handler())
	d.RegisterGlobalHandler("m", global.handler())

	d.Dispatch(target, "m", nil, nil, nil)

	if len(global.calls) != 1 || len(local.calls) != 0 {
		t.Errorf("global must be consulted first: global=%d local=%d",
			len(global.calls), len(local.calls))
	}
}

func TestQueues_IndependentPerTarget(t *testing.T) {
	d, sched := newTestDispatcher()
	a := &elem{kind: "x-a", id: "a"}
	b := &elem{kind: "x-b", id: "b"}

	d.Dispatch(a, "one", nil, nil, nil)
	d.Dispatch(b, "two", nil, nil, nil)
	d.Dispatch(a, "three", nil, nil, nil)

	if d.Pending(a) != 2 || d.Pending(b) != 1 {
		t.Fatalf("Pending(a)=%d Pending(b)=%d", d.Pending(a), d.Pending(b))
	}
	if d.PendingTotal() != 3 {
		t.Errorf("PendingTotal = %d", d.PendingTotal())
	}

	var recA recorder
	d.InstallHandler(a, recA.handler())
	sched.run()

	if len(recA.calls) != 2 {
		t.Fatalf("a received %d calls", len(recA.calls))
	}
	if d.Pending(b) != 1 {
		t.Error("b's queue must be untouched by a's flush")
	}
}

func TestClassify_ReservedPrefixConfigurable(t *testing.T) {
	sched := &manualScheduler{}
	d := New(sched, Config{
		ReservedPrefix: "app-",
		StandardKinds:  map[string]bool{"plain": true},
	})

	err := d.Dispatch(&elem{kind: "app-thing"}, "go", nil, nil, nil)
	var ucErr *UnrecognizedComponentError
	if !errors.As(err, &ucErr) {
		t.Errorf("app- kind should be reserved, got %v", err)
	}

	err = d.Dispatch(&elem{kind: "plain"}, "go", nil, nil, nil)
	var naErr *NotAnActionTargetError
	if !errors.As(err, &naErr) {
		t.Errorf("plain kind should be non-extensible, got %v", err)
	}

	// "ui-" is not reserved under this config: it buffers.
	ui := &elem{kind: "ui-carousel"}
	if err := d.Dispatch(ui, "go", nil, nil, nil); err != nil {
		t.Errorf("non-reserved custom kind should buffer, got %v", err)
	}
	if d.Pending(ui) != 1 {
		t.Errorf("Pending = %d, want 1", d.Pending(ui))
	}
}
