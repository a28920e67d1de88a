package promise

import "sync/atomic"

// stateKind tags the five legal variants of state[A]. Exactly one of the
// payload fields on state[A] is meaningful for a given kind; see the table
// in spec.md §3.
type stateKind uint8

const (
	stateWaiting stateKind = iota
	stateInterruptible
	stateInterrupted
	stateDone
	stateLinked
)

// state is an immutable snapshot of a promiseCore's tagged-union state. A
// transition never mutates one of these in place: it builds a new state
// value and CASes the core's pointer from the old snapshot to the new one.
type state[A any] struct {
	kind stateKind

	// waiting
	first *k[A]   // fast slot, populated first
	waitq []*k[A] // "rest" for waiting; the full queue for interruptible/interrupted

	// interruptible
	handler func(error)

	// interrupted
	signal error

	// done
	result Try[A]

	// linked
	target *promiseCore[A]
}

func newWaitingState[A any]() *state[A] {
	return &state[A]{kind: stateWaiting}
}

// promiseCore holds the single atomically-updated state field plus the
// collaborators a promise needs to run callbacks: a Scheduler, a Monitor, a
// TraceRecorder and a LocalContext. Multiple Promise[A] handles (produced by
// Respond, at increasing depth) may share one promiseCore.
type promiseCore[A any] struct {
	st    atomic.Pointer[state[A]]
	id    uint64
	sched Scheduler
	mon   Monitor
	trc   TraceRecorder
	lctx  LocalContext
}

var idCounter atomic.Uint64

func nextID() uint64 {
	return idCounter.Add(1)
}

func newCore[A any](o *options[A]) *promiseCore[A] {
	c := &promiseCore[A]{
		id:    nextID(),
		sched: o.sched,
		mon:   o.mon,
		trc:   o.trc,
		lctx:  o.lctx,
	}
	c.st.Store(newWaitingState[A]())
	return c
}

// continueK registers k to run once the core completes. See spec.md §4.2.
func (c *promiseCore[A]) continueK(kk *k[A]) {
	for {
		s := c.st.Load()
		switch s.kind {
		case stateDone:
			c.submitOne(kk, s.result)
			return
		case stateWaiting:
			var next *state[A]
			if s.first == nil {
				next = &state[A]{kind: stateWaiting, first: kk, waitq: s.waitq}
			} else {
				next = &state[A]{kind: stateWaiting, first: s.first, waitq: prepend(kk, s.waitq)}
			}
			if c.st.CompareAndSwap(s, next) {
				return
			}
		case stateInterruptible:
			next := &state[A]{kind: stateInterruptible, waitq: prepend(kk, s.waitq), handler: s.handler}
			if c.st.CompareAndSwap(s, next) {
				return
			}
		case stateInterrupted:
			next := &state[A]{kind: stateInterrupted, waitq: prepend(kk, s.waitq), signal: s.signal}
			if c.st.CompareAndSwap(s, next) {
				return
			}
		case stateLinked:
			c = s.target
		}
	}
}

// updateIfEmpty attempts to complete the core with result, returning false
// if it was already Done. See spec.md §4.3.
func (c *promiseCore[A]) updateIfEmpty(result Try[A]) bool {
	for {
		s := c.st.Load()
		switch s.kind {
		case stateDone:
			return false
		case stateLinked:
			return s.target.updateIfEmpty(result)
		default:
			next := &state[A]{kind: stateDone, result: result}
			if c.st.CompareAndSwap(s, next) {
				c.dispatch(s, result)
				return true
			}
		}
	}
}

// poll returns the result if Done, forwarding through Linked.
func (c *promiseCore[A]) poll() (Try[A], bool) {
	for {
		s := c.st.Load()
		switch s.kind {
		case stateDone:
			return s.result, true
		case stateLinked:
			c = s.target
		default:
			var zero Try[A]
			return zero, false
		}
	}
}

// isInterrupted returns the most recently recorded interrupt signal, if any,
// forwarding through Linked.
func (c *promiseCore[A]) isInterrupted() (error, bool) {
	for {
		s := c.st.Load()
		switch s.kind {
		case stateInterrupted:
			return s.signal, true
		case stateLinked:
			c = s.target
		default:
			return nil, false
		}
	}
}

// setInterruptHandler installs h, replacing any previous handler. See
// spec.md §4.5.
func (c *promiseCore[A]) setInterruptHandler(h func(error)) {
	for {
		s := c.st.Load()
		switch s.kind {
		case stateWaiting:
			waitq := consolidate(s.first, s.waitq)
			next := &state[A]{kind: stateInterruptible, waitq: waitq, handler: h}
			if c.st.CompareAndSwap(s, next) {
				return
			}
		case stateInterruptible:
			next := &state[A]{kind: stateInterruptible, waitq: s.waitq, handler: h}
			if c.st.CompareAndSwap(s, next) {
				return
			}
		case stateInterrupted:
			if h != nil {
				h(s.signal)
			}
			return
		case stateDone:
			return
		case stateLinked:
			c = s.target
		}
	}
}

// raise delivers sig out-of-band. See spec.md §4.5.
func (c *promiseCore[A]) raise(sig error) {
	for {
		s := c.st.Load()
		switch s.kind {
		case stateInterruptible:
			next := &state[A]{kind: stateInterrupted, waitq: s.waitq, signal: sig}
			if c.st.CompareAndSwap(s, next) {
				if s.handler != nil {
					s.handler(sig)
				}
				return
			}
		case stateInterrupted:
			next := &state[A]{kind: stateInterrupted, waitq: s.waitq, signal: sig}
			if c.st.CompareAndSwap(s, next) {
				return
			}
		case stateWaiting:
			waitq := consolidate(s.first, s.waitq)
			next := &state[A]{kind: stateInterrupted, waitq: waitq, signal: sig}
			if c.st.CompareAndSwap(s, next) {
				return
			}
		case stateDone:
			return
		case stateLinked:
			c = s.target
		}
	}
}
