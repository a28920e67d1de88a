package promise

import (
	"fmt"
	"time"
)

// maxChainDepth is the largest depth a handle returned by Respond may have.
// Respond panics rather than returning a handle one past it (spec.md §4.4,
// §8).
const maxChainDepth = 32766

// Promise is a write-once cell for a value of type A. The zero value is not
// usable; construct one with New, NewDone or NewInterruptible.
//
// A Promise value returned by Respond shares its core with its parent but
// observes a greater depth: every query and control operation forwards to
// the shared core, so completing, interrupting or polling either handle has
// the same effect.
type Promise[A any] struct {
	core  *promiseCore[A]
	depth int16
}

// New creates an empty Promise in the Waiting state.
func New[A any](opts ...Option[A]) *Promise[A] {
	o := resolveOptions(opts)
	return &Promise[A]{core: newCore(o)}
}

// NewDone creates a Promise already completed with result.
func NewDone[A any](result Try[A], opts ...Option[A]) *Promise[A] {
	o := resolveOptions(opts)
	c := newCore(o)
	c.st.Store(&state[A]{kind: stateDone, result: result})
	return &Promise[A]{core: c}
}

// NewInterruptible creates an empty Promise pre-seeded with an interrupt
// handler.
func NewInterruptible[A any](handler func(error), opts ...Option[A]) *Promise[A] {
	o := resolveOptions(opts)
	c := newCore(o)
	c.st.Store(&state[A]{kind: stateInterruptible, handler: handler})
	return &Promise[A]{core: c}
}

// Depth reports the depth at which a Respond call on this handle would
// register its continuation.
func (p *Promise[A]) Depth() int16 { return p.depth }

// SetValue completes the promise with a as a successful result. Equivalent
// to Update(Return(a)).
func (p *Promise[A]) SetValue(a A) error {
	return p.Update(Return(a))
}

// SetException completes the promise with err as a failure. Equivalent to
// Update(Throw(err)).
func (p *Promise[A]) SetException(err error) error {
	return p.Update(Throw[A](err))
}

// Update completes the promise with result, returning an
// *ImmutableResultError if it was already Done.
func (p *Promise[A]) Update(result Try[A]) error {
	if !p.core.updateIfEmpty(result) {
		return &ImmutableResultError{Cause: ErrImmutableResult, PromiseID: p.core.id}
	}
	return nil
}

// UpdateIfEmpty completes the promise with result, returning false (and
// leaving the promise untouched) if it was already Done.
func (p *Promise[A]) UpdateIfEmpty(result Try[A]) bool {
	return p.core.updateIfEmpty(result)
}

// Poll returns the current result if the promise is Done.
func (p *Promise[A]) Poll() (Try[A], bool) {
	return p.core.poll()
}

// Get blocks until the promise is Done or timeout elapses. A non-positive
// timeout polls once, after flushing the scheduler, without waiting. The
// flush prevents deadlock when the calling goroutine is itself the
// scheduler's only worker (spec.md §4.8).
func (p *Promise[A]) Get(timeout time.Duration) (Try[A], error) {
	if r, ok := p.core.poll(); ok {
		return r, nil
	}

	done := make(chan Try[A], 1)
	p.core.continueK(&k[A]{
		saved: p.core.lctx.Save(),
		fn:    func(r Try[A]) { done <- r },
		depth: p.depth,
	})
	p.core.sched.Flush()

	if timeout <= 0 {
		select {
		case r := <-done:
			return r, nil
		default:
			return Try[A]{}, newTimeoutError()
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-done:
		return r, nil
	case <-timer.C:
		return Try[A]{}, newTimeoutError()
	}
}

// IsInterrupted returns the most recently recorded interrupt signal, if any.
func (p *Promise[A]) IsInterrupted() (error, bool) {
	return p.core.isInterrupted()
}

// SetInterruptHandler installs handler, replacing any previously installed
// handler. If the promise is already Interrupted, handler runs synchronously
// on the calling goroutine before SetInterruptHandler returns, for the
// recorded signal — this can deadlock a caller holding a lock inside
// handler; the core does not guard against it (spec.md §9).
func (p *Promise[A]) SetInterruptHandler(handler func(error)) {
	p.core.setInterruptHandler(handler)
}

// Raise delivers sig as an out-of-band interrupt. It never completes the
// promise; a completer may still supply a result afterward, which
// supersedes the recorded signal.
func (p *Promise[A]) Raise(sig error) {
	p.core.raise(sig)
}

// Interruptible is the minimal aggregation target for ForwardInterruptsTo
// and Interrupts: anything that can receive a raised signal.
type Interruptible interface {
	Raise(sig error)
}

// ForwardInterruptsTo installs an interrupt handler on p that re-raises any
// signal it receives on target.
func (p *Promise[A]) ForwardInterruptsTo(target Interruptible) {
	p.SetInterruptHandler(func(sig error) { target.Raise(sig) })
}

// Interrupts constructs an empty Promise whose interrupt handler forwards
// every raised signal to each of fs (spec.md §6).
func Interrupts(fs ...Interruptible) *Promise[struct{}] {
	p := New[struct{}]()
	p.SetInterruptHandler(func(sig error) {
		for _, f := range fs {
			f.Raise(sig)
		}
	})
	return p
}

// Become declares p and other observationally equivalent: every callback
// registered on either sees the same eventual result, and every interrupt
// raised on either reaches the same handler. p must not yet be Done, and no
// concurrent setter may race with this call — both are the caller's
// responsibility (spec.md §4.6, §9).
func (p *Promise[A]) Become(other *Promise[A]) error {
	root := p.core.compress()
	otherCore := other.core.compress()
	if root == otherCore {
		return nil
	}
	return otherCore.link(root)
}

// Respond registers a monitored continuation at this handle's depth and
// returns a new handle sharing the same core, observed one depth deeper —
// the mechanism by which chained callbacks acquire dispatch-order
// posteriority (spec.md §4.7). It panics with a *ChainOverflowError if the
// resulting depth would exceed maxChainDepth: a chain this deep is a
// programming bug, not a condition a caller composing p.Respond(...)
// .Respond(...) can usefully recover from inline.
func (p *Promise[A]) Respond(traceCtx any, fn func(Try[A])) *Promise[A] {
	if p.depth >= maxChainDepth {
		panic(&ChainOverflowError{Cause: ErrChainOverflow, Depth: p.depth + 1})
	}
	p.core.continueK(&k[A]{
		saved:     p.core.lctx.Save(),
		traceCtx:  traceCtx,
		fn:        fn,
		depth:     p.depth,
		monitored: true,
	})
	return &Promise[A]{core: p.core, depth: p.depth + 1}
}

// String renders the promise's current state variant for debugging.
func (p *Promise[A]) String() string {
	s := p.core.st.Load()
	switch s.kind {
	case stateWaiting:
		n := len(s.waitq)
		if s.first != nil {
			n++
		}
		return fmt.Sprintf("Waiting(%d)", n)
	case stateInterruptible:
		return fmt.Sprintf("Interruptible(%d)", len(s.waitq))
	case stateInterrupted:
		return fmt.Sprintf("Interrupted(%d, %v)", len(s.waitq), s.signal)
	case stateDone:
		if s.result.err != nil {
			return fmt.Sprintf("Done(Throw(%v))", s.result.err)
		}
		return fmt.Sprintf("Done(Return(%v))", s.result.value)
	case stateLinked:
		return "Linked(...)"
	default:
		return "Unknown"
	}
}
