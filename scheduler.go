package promise

import "sync"

// Scheduler runs submitted work units. The core never runs a continuation
// inline on the completing or registering goroutine: it always goes through
// Submit, bounding stack depth on reentrant completion (spec.md §5, §6).
type Scheduler interface {
	// Submit enqueues work for later execution and returns promptly.
	Submit(work func())
	// Flush drains work already submitted. If a background drain spawned by
	// Submit is already in progress, Flush waits for it to finish rather
	// than racing it for the queue; otherwise it drains synchronously on
	// the calling goroutine. Either way, every item submitted before the
	// call to Flush has run by the time it returns. Used by Get to avoid
	// deadlocking when the caller is also the only worker.
	Flush()
}

// TrampolineScheduler is the package's default Scheduler: a mutex-guarded
// queue drained by at most one goroutine at a time, the same "dequeue under
// lock, run outside it" discipline the teacher's event loop uses for its
// auxiliary job queue. draining is the single active-drain flag: Submit
// only spawns a background drainer when none is running, and Flush either
// becomes the drainer itself or waits on cond for the running one to
// finish — there is never more than one goroutine popping the queue at a
// time, matching the teacher's single-dedicated-consumer model (loop.go's
// Loop.Submit never spawns a worker of its own). It has no timers, no I/O
// and no fairness guarantees beyond FIFO — a real embedder is expected to
// supply its own Scheduler (spec.md §1).
type TrampolineScheduler struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []func()
	draining bool
	logger   Logger
}

// NewTrampolineScheduler creates a TrampolineScheduler. A nil logger falls
// back to the package-level logger set via SetLogger for panic reporting.
func NewTrampolineScheduler(logger Logger) *TrampolineScheduler {
	s := &TrampolineScheduler{logger: logger}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *TrampolineScheduler) Submit(work func()) {
	s.mu.Lock()
	s.queue = append(s.queue, work)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	go s.drain()
}

// drain pops and runs work until the queue is empty, then clears draining
// and wakes anyone waiting in Flush. The caller must have already claimed
// the drainer role by setting draining to true under s.mu.
func (s *TrampolineScheduler) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.cond.Broadcast()
			s.mu.Unlock()
			return
		}
		work := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.safeRun(work)
	}
}

// Flush drains work already submitted. See the Scheduler interface comment
// for the exact contract.
func (s *TrampolineScheduler) Flush() {
	s.mu.Lock()
	for s.draining {
		s.cond.Wait()
	}
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

func (s *TrampolineScheduler) safeRun(work func()) {
	defer func() {
		if r := recover(); r != nil {
			logger := s.logger
			if logger == nil {
				logger = getGlobalLogger()
			}
			logger.Log(LogEntry{
				Level:    LevelError,
				Category: "scheduler",
				Message:  "submitted work panicked",
				Err:      panicToError(r),
			})
		}
	}()
	work()
}

var defaultScheduler = NewTrampolineScheduler(nil)

// DefaultScheduler returns the package-level default TrampolineScheduler,
// shared across every Promise constructed without an explicit WithScheduler
// option.
func DefaultScheduler() Scheduler { return defaultScheduler }
