// Package notify provides reminder notification scheduling.
//
// The Scheduler abstracts the OS-level notification capability: it accepts
// a fire time and returns an opaque handle, or accepts a handle and cancels
// it. Scheduling a time that is not strictly in the future yields an empty
// handle, which is a valid non-error outcome - no notification will fire.
package notify

import (
	"context"
	"time"
)

// Scheduler schedules and cancels local reminder notifications.
type Scheduler interface {
	// RequestPermission asks for the capability to deliver notifications.
	// Callers must not schedule when permission is denied.
	RequestPermission(ctx context.Context) (bool, error)

	// Schedule registers a notification for fireAt and returns its handle.
	// The handle is empty iff fireAt is not strictly in the future.
	Schedule(ctx context.Context, title, body string, fireAt time.Time) (string, error)

	// Cancel revokes a previously scheduled notification.
	// No-op if the handle is unknown or the notification already fired.
	Cancel(ctx context.Context, handle string) error
}
