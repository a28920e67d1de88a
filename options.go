package promise

// options holds the resolved collaborators for a Promise construction call.
type options[A any] struct {
	sched Scheduler
	mon   Monitor
	trc   TraceRecorder
	lctx  LocalContext
}

// Option configures a Promise constructed via New, NewDone or
// NewInterruptible.
type Option[A any] interface {
	apply(*options[A])
}

type optionFunc[A any] func(*options[A])

func (f optionFunc[A]) apply(o *options[A]) { f(o) }

// WithScheduler overrides the Scheduler used to run the promise's
// continuations. Default: DefaultScheduler().
func WithScheduler[A any](s Scheduler) Option[A] {
	return optionFunc[A](func(o *options[A]) { o.sched = s })
}

// WithMonitor overrides the Monitor that catches monitored-callback
// failures. Default: DefaultMonitor().
func WithMonitor[A any](m Monitor) Option[A] {
	return optionFunc[A](func(o *options[A]) { o.mon = m })
}

// WithTraceRecorder overrides the TraceRecorder invoked before each
// callback. Default: DefaultTraceRecorder().
func WithTraceRecorder[A any](t TraceRecorder) Option[A] {
	return optionFunc[A](func(o *options[A]) { o.trc = t })
}

// WithLocalContext overrides the LocalContext saved/restored around each
// callback. Default: DefaultLocalContext().
func WithLocalContext[A any](l LocalContext) Option[A] {
	return optionFunc[A](func(o *options[A]) { o.lctx = l })
}

// resolveOptions assembles defaults then applies opts, skipping nils, in
// the teacher's resolveLoopOptions idiom.
func resolveOptions[A any](opts []Option[A]) *options[A] {
	o := &options[A]{
		sched: DefaultScheduler(),
		mon:   DefaultMonitor(),
		trc:   DefaultTraceRecorder(),
		lctx:  DefaultLocalContext(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(o)
	}
	return o
}
