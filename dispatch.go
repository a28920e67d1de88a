package promise

import "sort"

// submitOne schedules a single already-completed continuation, used when
// continueK registers against an already-Done core (spec.md §4.2).
func (c *promiseCore[A]) submitOne(kk *k[A], result Try[A]) {
	c.sched.Submit(func() {
		c.invoke(kk, result)
	})
}

// dispatch schedules the one work unit that drains every continuation
// accepted by old, in the order described in runDispatch. Called exactly
// once, from the CAS that transitions a core to Done (spec.md §4.3, §4.4).
func (c *promiseCore[A]) dispatch(old *state[A], result Try[A]) {
	var first *k[A]
	var rest []*k[A]
	switch old.kind {
	case stateWaiting:
		first = old.first
		rest = old.waitq
	case stateInterruptible, stateInterrupted:
		rest = old.waitq
	}
	if first == nil && len(rest) == 0 {
		return
	}
	c.sched.Submit(func() {
		c.runDispatch(first, rest, result)
	})
}

// runDispatch runs continuations in depth-nondecreasing order: the fast slot
// first, then depth==0 entries, then depth==1 entries, then a sorted buffer
// for depth>1 (the rare case, per spec.md §4.4).
func (c *promiseCore[A]) runDispatch(first *k[A], rest []*k[A], result Try[A]) {
	if first != nil {
		c.invoke(first, result)
	}

	var depth1, deeper []*k[A]
	for _, kk := range rest {
		switch {
		case kk.depth == 0:
			c.invoke(kk, result)
		case kk.depth == 1:
			depth1 = append(depth1, kk)
		default:
			deeper = append(deeper, kk)
		}
	}

	for _, kk := range depth1 {
		c.invoke(kk, result)
	}

	if len(deeper) > 1 {
		sort.Slice(deeper, func(i, j int) bool { return deeper[i].depth < deeper[j].depth })
	}
	for _, kk := range deeper {
		c.invoke(kk, result)
	}
}

// invoke restores kk's saved local context, records its trace tag, and runs
// its callback. A monitored callback's panic is caught and handed to the
// core's Monitor; an unmonitored callback's panic propagates to the
// scheduler worker.
func (c *promiseCore[A]) invoke(kk *k[A], result Try[A]) {
	prev := c.lctx.Save()
	c.lctx.Restore(kk.saved)
	defer c.lctx.Restore(prev)

	c.trc.Record(kk.traceCtx)

	if kk.monitored {
		defer func() {
			if r := recover(); r != nil {
				c.mon.Catch(panicToError(r))
			}
		}()
	}
	kk.fn(result)
}
