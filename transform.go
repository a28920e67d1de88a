package promise

// Transform creates a fresh promise that forwards its own interrupts back
// to p, registers an unmonitored continuation on p, and becomes whatever f
// returns once p completes. f's synchronous panics are folded into the
// returned promise as a failure rather than reaching the ambient Monitor —
// that distinction is why the registration below is unmonitored (spec.md
// §4.7).
//
// A method cannot introduce its own type parameter in Go, so unlike
// Respond this is a package function rather than a method on Promise[A].
func Transform[A, B any](p *Promise[A], traceCtx any, f func(Try[A]) *Promise[B], opts ...Option[B]) *Promise[B] {
	allOpts := append([]Option[B]{
		WithScheduler[B](p.core.sched),
		WithMonitor[B](p.core.mon),
		WithTraceRecorder[B](p.core.trc),
		WithLocalContext[B](p.core.lctx),
	}, opts...)
	q := New[B](allOpts...)
	q.ForwardInterruptsTo(p)

	p.core.continueK(&k[A]{
		saved:    p.core.lctx.Save(),
		traceCtx: traceCtx,
		depth:    p.depth,
		fn: func(r Try[A]) {
			defer func() {
				if rec := recover(); rec != nil {
					_ = q.SetException(panicToError(rec))
				}
			}()
			next := f(r)
			if err := q.Become(next); err != nil {
				_ = q.SetException(err)
			}
		},
	})

	return q
}
