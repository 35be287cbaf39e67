package notify

import (
	"context"
	"io"
	"log"
	"testing"
	"time"
)

func newTestScheduler() *TimerScheduler {
	return NewTimerScheduler(log.New(io.Discard, "", 0))
}

func TestSchedulePastReturnsEmptyHandle(t *testing.T) {
	s := newTestScheduler()
	defer s.Close()

	now := time.Now()
	s.now = func() time.Time { return now }

	for _, fireAt := range []time.Time{now, now.Add(-time.Minute)} {
		handle, err := s.Schedule(context.Background(), "t", "b", fireAt)
		if err != nil {
			t.Fatalf("Schedule failed: %v", err)
		}
		if handle != "" {
			t.Errorf("Schedule(%v) = %q, want empty handle", fireAt, handle)
		}
	}
	if len(s.timers) != 0 {
		t.Errorf("%d timers registered for past fire times", len(s.timers))
	}
}

func TestScheduleFutureAndCancel(t *testing.T) {
	s := newTestScheduler()
	defer s.Close()

	handle, err := s.Schedule(context.Background(), "t", "b", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if handle == "" {
		t.Fatal("Schedule returned empty handle for a future time")
	}
	if _, ok := s.timers[handle]; !ok {
		t.Fatal("no timer registered for handle")
	}

	if err := s.Cancel(context.Background(), handle); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, ok := s.timers[handle]; ok {
		t.Error("timer still registered after cancel")
	}

	// Cancelling again, or cancelling garbage, is a no-op.
	if err := s.Cancel(context.Background(), handle); err != nil {
		t.Errorf("second Cancel failed: %v", err)
	}
	if err := s.Cancel(context.Background(), ""); err != nil {
		t.Errorf("Cancel of empty handle failed: %v", err)
	}
}

func TestScheduleDelivers(t *testing.T) {
	s := newTestScheduler()
	defer s.Close()

	delivered := make(chan string, 1)
	s.deliver = func(title, body string) error {
		delivered <- title + "/" + body
		return nil
	}

	handle, err := s.Schedule(context.Background(), "feed cat", "Task reminder", time.Now().Add(20*time.Millisecond))
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	select {
	case got := <-delivered:
		if got != "feed cat/Task reminder" {
			t.Errorf("delivered %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notification never delivered")
	}

	// A fired timer unregisters itself.
	deadline := time.Now().Add(time.Second)
	for {
		s.mu.Lock()
		_, ok := s.timers[handle]
		s.mu.Unlock()
		if !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("fired timer still registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDistinctHandles(t *testing.T) {
	s := newTestScheduler()
	defer s.Close()

	first, err := s.Schedule(context.Background(), "a", "b", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	second, err := s.Schedule(context.Background(), "a", "b", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if first == second {
		t.Errorf("both schedules got handle %q", first)
	}
}
