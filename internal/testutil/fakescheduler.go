package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FakeScheduler is an in-memory implementation of notify.Scheduler.
// Handles are assigned deterministically: n1, n2, ...
type FakeScheduler struct {
	mu         sync.Mutex
	nextHandle int

	// Granted controls RequestPermission. Defaults to true.
	Granted bool

	// Now anchors the future/past decision. Zero means time.Now().
	Now time.Time

	// Error injection for testing
	PermissionErr error
	ScheduleErr   error
	CancelErr     error

	// Active maps live handles to their fire time.
	Active map[string]time.Time
	// Cancelled records every handle passed to Cancel.
	Cancelled []string

	ScheduleCalls   int
	PermissionCalls int
}

// NewFakeScheduler creates a fake scheduler that grants permission.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{
		Granted: true,
		Active:  make(map[string]time.Time),
	}
}

func (f *FakeScheduler) now() time.Time {
	if f.Now.IsZero() {
		return time.Now()
	}
	return f.Now
}

// RequestPermission implements notify.Scheduler.
func (f *FakeScheduler) RequestPermission(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PermissionCalls++
	if f.PermissionErr != nil {
		return false, f.PermissionErr
	}
	return f.Granted, nil
}

// Schedule implements notify.Scheduler.
func (f *FakeScheduler) Schedule(ctx context.Context, title, body string, fireAt time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ScheduleCalls++

	if f.ScheduleErr != nil {
		return "", f.ScheduleErr
	}
	if !fireAt.After(f.now()) {
		return "", nil
	}

	f.nextHandle++
	handle := fmt.Sprintf("n%d", f.nextHandle)
	f.Active[handle] = fireAt
	return handle, nil
}

// Cancel implements notify.Scheduler.
func (f *FakeScheduler) Cancel(ctx context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CancelErr != nil {
		return f.CancelErr
	}

	f.Cancelled = append(f.Cancelled, handle)
	delete(f.Active, handle)
	return nil
}
