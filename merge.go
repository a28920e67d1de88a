package promise

import "reflect"

// compress walks the Linked chain rooted at c to its terminal non-Linked
// core, rewriting intermediate Linked pointers to point directly at the
// terminal on the way back. A failed CAS during compression is tolerated:
// another goroutine compressed concurrently, and any reachable target is a
// valid forwarding target (spec.md §4.6).
func (c *promiseCore[A]) compress() *promiseCore[A] {
	root := c
	for {
		s := root.st.Load()
		if s.kind != stateLinked {
			break
		}
		root = s.target
	}

	cur := c
	for cur != root {
		s := cur.st.Load()
		if s.kind != stateLinked {
			break
		}
		next := &state[A]{kind: stateLinked, target: root}
		cur.st.CompareAndSwap(s, next) // best-effort; tolerate failure
		cur = s.target
	}
	return root
}

// link merges c into target: every continuation and interrupt signal queued
// on c is replayed onto target, and c becomes a forwarding Linked node
// (spec.md §4.6).
func (c *promiseCore[A]) link(target *promiseCore[A]) error {
	if c == target {
		return nil
	}
	for {
		s := c.st.Load()
		switch s.kind {
		case stateLinked:
			next := &state[A]{kind: stateLinked, target: target}
			if c.st.CompareAndSwap(s, next) {
				return s.target.link(target)
			}
		case stateDone:
			if target.updateIfEmpty(s.result) {
				return nil
			}
			if theirs, ok := target.poll(); ok {
				if !reflect.DeepEqual(theirs, s.result) {
					return &ConflictingLinkError[A]{Cause: ErrConflictingLink, Ours: s.result, Theirs: theirs}
				}
			}
			return nil
		case stateWaiting:
			next := &state[A]{kind: stateLinked, target: target}
			if c.st.CompareAndSwap(s, next) {
				if s.first != nil {
					target.continueK(s.first)
				}
				for _, kk := range s.waitq {
					target.continueK(kk)
				}
				return nil
			}
		case stateInterruptible:
			next := &state[A]{kind: stateLinked, target: target}
			if c.st.CompareAndSwap(s, next) {
				for _, kk := range s.waitq {
					target.continueK(kk)
				}
				target.setInterruptHandler(s.handler)
				return nil
			}
		case stateInterrupted:
			next := &state[A]{kind: stateLinked, target: target}
			if c.st.CompareAndSwap(s, next) {
				for _, kk := range s.waitq {
					target.continueK(kk)
				}
				target.raise(s.signal)
				return nil
			}
		}
	}
}
