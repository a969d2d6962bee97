// Package loop provides a single-owner event loop: a goroutine that drains
// a queue of closures ("wake tokens" carrying their own handler) and runs
// each one. It is the Go translation of the event-loop/wake-token pattern:
// firing a token from any goroutine causes its closure to run exactly once,
// on the loop's own goroutine, and never concurrently with another posted
// closure.
package loop

// Loop is owned by exactly one goroutine, started via Run. Post is safe to
// call from any goroutine, including the owner itself.
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// New creates a Loop with the given task queue depth. A depth of 0 makes
// Post block until the owner's Run goroutine is ready to accept, which is
// almost never what callers want; pick a depth that absorbs a burst.
func New(queueDepth int) *Loop {
	return &Loop{
		tasks: make(chan func(), queueDepth),
		done:  make(chan struct{}),
	}
}

// Post queues fn to run on the loop's owning goroutine. Multiple posts
// before the loop drains are not coalesced — each queued fn runs once, in
// FIFO order, which is a strictly stronger guarantee than the minimum
// "at least one invocation" wake-token contract requires.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Run drains the task queue on the calling goroutine until Stop is called.
// It blocks, so callers invoke it as `go loop.Run()`.
func (l *Loop) Run() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.done:
			return
		}
	}
}

// Stop causes Run to return once any already-queued tasks still pending in
// the select have been considered. It does not guarantee already-queued
// tasks run before Run returns.
func (l *Loop) Stop() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
}
