// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Entity and operation labels.
const (
	EntityContact = "contact"
	EntityAddress = "address"

	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Recorder captures metric events for the application.
// Implementations: NoopRecorder, InMemoryRecorder (tests), PrometheusRecorder.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(status string)        // status: "success" or "failed"
	IncAuthFailure(reason string)  // reason: "missing_token" or "invalid_token"
	IncSessionCache(result string) // result: "hit", "miss" or "error"

	// Contact book metrics
	IncEntityOperation(entity, op string)
	ObserveSearchDuration(duration time.Duration)

	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	IncRateLimited(scope string) // scope: "user" or "ip"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
