package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserRegistered()                            {}
func (n *NoopRecorder) IncLogin(outcome string)                       {}
func (n *NoopRecorder) IncLogout()                                    {}
func (n *NoopRecorder) IncAuthRejected(reason string)                 {}
func (n *NoopRecorder) IncTaskCreated()                               {}
func (n *NoopRecorder) IncTaskUpdated()                               {}
func (n *NoopRecorder) IncTaskDeleted()                               {}
func (n *NoopRecorder) ObserveRequestDuration(duration time.Duration) {}
