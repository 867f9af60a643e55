// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(outcome string) // outcome: "success" or "failed"
	IncLogout()

	// Gate metrics
	IncAuthRejected(reason string) // reason: "missing", "invalid", "revoked"

	// Task metrics
	IncTaskCreated()
	IncTaskUpdated()
	IncTaskDeleted()

	// Request metrics
	ObserveRequestDuration(duration time.Duration)
}

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginFailed  = "failed"
)

// Gate rejection reasons.
const (
	RejectMissing = "missing"
	RejectInvalid = "invalid"
	RejectRevoked = "revoked"
)

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
