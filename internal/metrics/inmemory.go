package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered      uint64
	LoginsSucceeded      uint64
	LoginsFailed         uint64
	Logouts              uint64
	AuthRejectedMissing  uint64
	AuthRejectedInvalid  uint64
	AuthRejectedRevoked  uint64
	TasksCreated         uint64
	TasksUpdated         uint64
	TasksDeleted         uint64
	RequestCount         uint64
	RequestDurationTotal int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersRegistered      uint64
	loginsSucceeded      uint64
	loginsFailed         uint64
	logouts              uint64
	authRejectedMissing  uint64
	authRejectedInvalid  uint64
	authRejectedRevoked  uint64
	tasksCreated         uint64
	tasksUpdated         uint64
	tasksDeleted         uint64
	requestCount         uint64
	requestDurationTotal int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:      atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:      atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:         atomic.LoadUint64(&m.loginsFailed),
		Logouts:              atomic.LoadUint64(&m.logouts),
		AuthRejectedMissing:  atomic.LoadUint64(&m.authRejectedMissing),
		AuthRejectedInvalid:  atomic.LoadUint64(&m.authRejectedInvalid),
		AuthRejectedRevoked:  atomic.LoadUint64(&m.authRejectedRevoked),
		TasksCreated:         atomic.LoadUint64(&m.tasksCreated),
		TasksUpdated:         atomic.LoadUint64(&m.tasksUpdated),
		TasksDeleted:         atomic.LoadUint64(&m.tasksDeleted),
		RequestCount:         atomic.LoadUint64(&m.requestCount),
		RequestDurationTotal: atomic.LoadInt64(&m.requestDurationTotal),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin increments the login counter for the given outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	if outcome == LoginSuccess {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() {
	atomic.AddUint64(&m.logouts, 1)
}

// IncAuthRejected increments the gate rejection counter for reason.
func (m *InMemoryRecorder) IncAuthRejected(reason string) {
	switch reason {
	case RejectMissing:
		atomic.AddUint64(&m.authRejectedMissing, 1)
	case RejectRevoked:
		atomic.AddUint64(&m.authRejectedRevoked, 1)
	default:
		atomic.AddUint64(&m.authRejectedInvalid, 1)
	}
}

// IncTaskCreated increments task created counter.
func (m *InMemoryRecorder) IncTaskCreated() {
	atomic.AddUint64(&m.tasksCreated, 1)
}

// IncTaskUpdated increments task updated counter.
func (m *InMemoryRecorder) IncTaskUpdated() {
	atomic.AddUint64(&m.tasksUpdated, 1)
}

// IncTaskDeleted increments task deleted counter.
func (m *InMemoryRecorder) IncTaskDeleted() {
	atomic.AddUint64(&m.tasksDeleted, 1)
}

// ObserveRequestDuration records one request duration.
func (m *InMemoryRecorder) ObserveRequestDuration(duration time.Duration) {
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddInt64(&m.requestDurationTotal, duration.Nanoseconds())
}
