package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	m := NewInMemory()

	m.IncUserRegistered()
	m.IncLogin(LoginSuccess)
	m.IncLogin(LoginFailed)
	m.IncLogin(LoginFailed)
	m.IncLogout()
	m.IncAuthRejected(RejectMissing)
	m.IncAuthRejected(RejectInvalid)
	m.IncAuthRejected(RejectRevoked)
	m.IncTaskCreated()
	m.IncTaskUpdated()
	m.IncTaskDeleted()
	m.ObserveRequestDuration(2 * time.Millisecond)

	want := Snapshot{
		UsersRegistered:      1,
		LoginsSucceeded:      1,
		LoginsFailed:         2,
		Logouts:              1,
		AuthRejectedMissing:  1,
		AuthRejectedInvalid:  1,
		AuthRejectedRevoked:  1,
		TasksCreated:         1,
		TasksUpdated:         1,
		TasksDeleted:         1,
		RequestCount:         1,
		RequestDurationTotal: int64(2 * time.Millisecond),
	}
	if got := m.Snapshot(); got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	m := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncTaskCreated()
		}()
	}
	wg.Wait()

	if got := m.Snapshot().TasksCreated; got != 100 {
		t.Errorf("TasksCreated = %d, want 100", got)
	}
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoop()
	r.IncUserRegistered()
	r.IncLogin(LoginFailed)
	r.IncAuthRejected(RejectRevoked)
	r.ObserveRequestDuration(time.Second)
}
