package runner

import "fileagents/pkg/tracing"

// RunOptions configures a single Run call
type RunOptions struct {
	// Log is the session log to append to. A fresh log is created when nil.
	Log *tracing.SessionLog

	// Sink, when set on a freshly created log, receives every step
	Sink tracing.Sink

	// Hooks observes task lifecycle events
	Hooks Hooks
}

// sessionLog returns the configured log or a fresh one
func (o *RunOptions) sessionLog() *tracing.SessionLog {
	if o.Log != nil {
		return o.Log
	}
	log := tracing.NewSessionLog()
	if o.Sink != nil {
		log.WithSink(o.Sink)
	}
	return log
}

// hooks returns the configured hooks or a no-op implementation
func (o *RunOptions) hooks() Hooks {
	if o.Hooks != nil {
		return o.Hooks
	}
	return NoopHooks{}
}
