package metrics

import "time"

// Recorder defines observability hooks for fixer runs. Implementations may
// forward to Prometheus or stay in-process. All methods must be safe on the
// NoopRecorder so callers can skip wiring metrics entirely.
type Recorder interface {
	ObserveRunDuration(mode string, d time.Duration)
	IncRunOutcome(mode string, success bool)
	IncFixerApplied(fixer string)
	IncFixerFailed(fixer string)
	AddFilesChanged(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(string, time.Duration) {}
func (NoopRecorder) IncRunOutcome(string, bool)               {}
func (NoopRecorder) IncFixerApplied(string)                   {}
func (NoopRecorder) IncFixerFailed(string)                    {}
func (NoopRecorder) AddFilesChanged(int)                      {}
