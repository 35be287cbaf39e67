package notify

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/google/uuid"
)

// TimerScheduler delivers desktop notifications from in-process timers.
//
// Handles are random UUIDs. A timer that fires removes itself, so a later
// Cancel for the same handle is a no-op. Timers do not survive a process
// restart; re-importing records via pull re-establishes them.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	logger *log.Logger

	// overridable in tests
	now     func() time.Time
	deliver func(title, body string) error
}

// NewTimerScheduler creates a scheduler delivering through the desktop
// notification daemon. If logger is nil, a default logger writing to
// stderr is used.
func NewTimerScheduler(logger *log.Logger) *TimerScheduler {
	if logger == nil {
		logger = log.New(os.Stderr, "[notify] ", log.LstdFlags)
	}
	return &TimerScheduler{
		timers: make(map[string]*time.Timer),
		logger: logger,
		now:    time.Now,
		deliver: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
}

// RequestPermission implements Scheduler. Desktop delivery has no OS
// permission gate, so this always grants.
func (s *TimerScheduler) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

// Schedule implements Scheduler.
func (s *TimerScheduler) Schedule(ctx context.Context, title, body string, fireAt time.Time) (string, error) {
	if !fireAt.After(s.now()) {
		return "", nil
	}

	handle := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[handle] = time.AfterFunc(fireAt.Sub(s.now()), func() {
		s.mu.Lock()
		delete(s.timers, handle)
		s.mu.Unlock()

		if err := s.deliver(title, body); err != nil {
			s.logger.Printf("WARNING: failed to deliver notification %s: %v", handle, err)
		}
	})

	return handle, nil
}

// Cancel implements Scheduler.
func (s *TimerScheduler) Cancel(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[handle]; ok {
		timer.Stop()
		delete(s.timers, handle)
	}
	return nil
}

// Close stops every pending timer. Scheduled notifications will not fire.
func (s *TimerScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for handle, timer := range s.timers {
		timer.Stop()
		delete(s.timers, handle)
	}
}
