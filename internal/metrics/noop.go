package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserRegistered()                    {}
func (n *NoopRecorder) IncLogin(status string)                {}
func (n *NoopRecorder) IncAuthFailure(reason string)          {}
func (n *NoopRecorder) IncSessionCache(result string)         {}
func (n *NoopRecorder) IncEntityOperation(entity, op string)  {}
func (n *NoopRecorder) ObserveSearchDuration(d time.Duration) {}
func (n *NoopRecorder) IncRateLimited(scope string)           {}

func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, d time.Duration) {}
