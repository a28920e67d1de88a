package promise

// Monitor catches failures from monitored callbacks. Unmonitored callbacks
// let failures propagate to the caller instead (in practice, the scheduler
// worker) — see spec.md §6, §7.
type Monitor interface {
	Catch(err error)
}

// LogMonitor reports uncaught monitored-callback failures through a Logger.
type LogMonitor struct {
	logger Logger
}

// NewLogMonitor creates a LogMonitor. A nil logger falls back to the
// package-level logger set via SetLogger.
func NewLogMonitor(logger Logger) *LogMonitor {
	return &LogMonitor{logger: logger}
}

func (m *LogMonitor) Catch(err error) {
	logger := m.logger
	if logger == nil {
		logger = getGlobalLogger()
	}
	logger.Log(LogEntry{
		Level:    LevelError,
		Category: "monitor",
		Message:  "uncaught monitored callback failure",
		Err:      err,
	})
}

// DefaultMonitor returns a LogMonitor backed by the package-level logger.
func DefaultMonitor() Monitor {
	return NewLogMonitor(nil)
}
