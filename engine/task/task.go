// Package task provides the ordered deferred-callback queue that backs
// pending-queue flushes. The dispatch core only sees the Scheduler side;
// the owning loop (console, TUI) pumps Drain between commands.
package task

// Queue is a FIFO of deferred callbacks. Zero value is ready to use.
// Not safe for concurrent use; the framework runs one event loop.
type Queue struct {
	fns []func()
}

// Schedule appends fn to run on the next Drain. Order is preserved
// relative to other scheduled callbacks.
func (q *Queue) Schedule(fn func()) {
	q.fns = append(q.fns, fn)
}

// Drain runs all queued callbacks in order. Callbacks scheduled while
// draining run in the same drain, after the ones already queued.
func (q *Queue) Drain() {
	for len(q.fns) > 0 {
		fn := q.fns[0]
		q.fns = q.fns[1:]
		fn()
	}
}

// Len reports how many callbacks are waiting.
func (q *Queue) Len() int {
	return len(q.fns)
}
