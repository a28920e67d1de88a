package promise

// LocalContext is the per-task context propagation collaborator (spec.md
// §6). Save captures the caller's current context at continuation
// registration time; Restore re-establishes a snapshot around a callback
// invocation, and is always paired with a restoration of the prior value on
// every exit path, including panics (see promiseCore.invoke).
type LocalContext interface {
	Save() any
	Restore(snapshot any)
}

// noopLocalContext is the package default: Go has no ambient per-goroutine
// context analogous to a single-threaded runtime's implicit call context, so
// the faithful default is simply "nothing to save or restore". Callers that
// need real propagation (e.g. around a context.Context value threaded
// through their own task-local storage) supply a FuncLocalContext.
type noopLocalContext struct{}

func (noopLocalContext) Save() any       { return nil }
func (noopLocalContext) Restore(any) {}

// FuncLocalContext adapts a pair of plain functions to LocalContext.
type FuncLocalContext struct {
	SaveFunc    func() any
	RestoreFunc func(snapshot any)
}

func (f FuncLocalContext) Save() any { return f.SaveFunc() }

func (f FuncLocalContext) Restore(snapshot any) { f.RestoreFunc(snapshot) }

// DefaultLocalContext returns the package's no-op LocalContext.
func DefaultLocalContext() LocalContext { return noopLocalContext{} }
