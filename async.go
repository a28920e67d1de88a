package promise

import "context"

// Go runs fn on a new goroutine and returns a Promise for its result,
// generalizing the teacher's Loop.Promisify to this module's free-standing
// Promise[A]. A panic inside fn is recovered and delivered as a
// *PanicError. Cancellation of ctx is delivered as an interrupt signal via
// Raise, not as settlement: fn keeps running to completion (Go does not
// preempt goroutines), but a consumer can observe IsInterrupted as soon as
// ctx is done, ahead of fn's own return.
func Go[A any](ctx context.Context, sched Scheduler, fn func(ctx context.Context) (A, error), opts ...Option[A]) *Promise[A] {
	allOpts := append([]Option[A]{WithScheduler[A](sched)}, opts...)
	p := New[A](allOpts...)

	fnDone := make(chan struct{})
	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				p.Raise(ctx.Err())
			case <-fnDone:
			}
		}()
	}

	go func() {
		defer close(fnDone)
		defer func() {
			if r := recover(); r != nil {
				_ = p.SetException(panicToError(r))
			}
		}()
		a, err := fn(ctx)
		if err != nil {
			_ = p.SetException(err)
			return
		}
		_ = p.SetValue(a)
	}()

	return p
}
