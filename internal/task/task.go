// Package task defines the todo record shared by the local store, the
// remote collection and the sync engine.
package task

import (
	"fmt"
	"time"
)

// Task is the unit of synchronization between the local store and the
// remote collection.
//
// LocalID is assigned by the local store on insert and never reused.
// RemoteID is assigned by the remote collection on first successful push
// and is the only stable correlation key between the two stores; it is
// empty until the record has been pushed.
//
// CreatedAt is set once at creation and never mutated afterward. It is the
// sole ordering key and carries millisecond precision, matching the wire
// representation in both stores.
type Task struct {
	LocalID   int64
	RemoteID  string
	Title     string
	Completed bool
	CreatedAt time.Time

	// Synced is local-only bookkeeping: true once the record has a remote
	// counterpart. A record with Synced=false is pending push.
	Synced bool

	// ReminderAt, when set, means a reminder should fire at that time.
	// NotificationID holds the scheduler handle for the current ReminderAt;
	// it is empty unless a scheduling attempt for that time succeeded.
	ReminderAt     *time.Time
	NotificationID string
}

// Fields carries the attributes accepted when constructing a record before
// the local store assigns its identifier.
type Fields struct {
	Title          string
	Completed      bool
	CreatedAt      time.Time
	Synced         bool
	RemoteID       string
	ReminderAt     *time.Time
	NotificationID string
}

// FromTitle builds a new pending record with the given title, created now.
func FromTitle(title string) Task {
	return Task{
		Title:     title,
		CreatedAt: truncateMillis(time.Now()),
	}
}

// FromFields builds a record from explicit field values. A zero CreatedAt
// is replaced with the current time.
func FromFields(f Fields) Task {
	createdAt := f.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return Task{
		Title:          f.Title,
		Completed:      f.Completed,
		CreatedAt:      truncateMillis(createdAt),
		Synced:         f.Synced,
		RemoteID:       f.RemoteID,
		ReminderAt:     f.ReminderAt,
		NotificationID: f.NotificationID,
	}
}

// Validate checks if the task has valid field values.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(t.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(t.Title))
	}
	if t.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is required")
	}
	return nil
}

// Pending reports whether the record still awaits its first push.
func (t *Task) Pending() bool {
	return !t.Synced
}

// NormalizeRemoteTime converts a server-side timestamp to the local
// millisecond representation. Remote timestamps may be absent (zero value),
// in which case now is substituted.
func NormalizeRemoteTime(t time.Time, now time.Time) time.Time {
	if t.IsZero() {
		t = now
	}
	return truncateMillis(t)
}

// truncateMillis drops sub-millisecond precision and the monotonic clock
// reading so that values survive a round trip through either store.
func truncateMillis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli())
}
