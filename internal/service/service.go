// Package service implements the task operations behind the CLI commands:
// local CRUD, the reminder/notification lifecycle, and best-effort
// mirroring of edits to the remote collection.
package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"todosync/internal/notify"
	"todosync/internal/remote"
	"todosync/internal/store"
	"todosync/internal/sync"
	"todosync/internal/task"
)

// Service wires the local store, the remote collection and the
// notification scheduler behind one task-level API.
//
// The remote collection may be nil (offline / not configured): edits then
// stay local and are reconciled by the next push. Edit mirroring to a
// configured remote is best-effort - a remote failure is logged and never
// rolls back the local change. Deletion is the exception: it propagates
// remotely first and fails if that fails, otherwise the next pull would
// re-import the record.
type Service struct {
	store    *store.Store
	remote   remote.Collection
	notifier notify.Scheduler
	ownerID  string
	logger   *log.Logger
}

// New creates a task service. collection may be nil when no remote is
// configured. If logger is nil, a default logger writing to stderr is used.
func New(st *store.Store, collection remote.Collection, scheduler notify.Scheduler, ownerID string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(os.Stderr, "[service] ", log.LstdFlags)
	}
	return &Service{
		store:    st,
		remote:   collection,
		notifier: scheduler,
		ownerID:  ownerID,
		logger:   logger,
	}
}

// Create inserts a new pending record with the given title.
func (s *Service) Create(ctx context.Context, title string) (task.Task, error) {
	t := task.FromTitle(title)
	if err := t.Validate(); err != nil {
		return task.Task{}, err
	}
	return s.store.InsertContext(ctx, t)
}

// List returns all local records, newest first.
func (s *Service) List(ctx context.Context) ([]task.Task, error) {
	return s.store.ListContext(ctx)
}

// Get returns a single local record.
func (s *Service) Get(ctx context.Context, id int64) (task.Task, error) {
	return s.store.GetContext(ctx, id)
}

// SetCompleted marks a record done or not done.
func (s *Service) SetCompleted(ctx context.Context, id int64, done bool) error {
	t, err := s.store.GetContext(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.UpdateContext(ctx, id, store.TaskUpdate{Completed: &done}); err != nil {
		return err
	}

	s.mirror(ctx, t, remote.TaskUpdate{Completed: &done})
	return nil
}

// Rename changes a record's title.
func (s *Service) Rename(ctx context.Context, id int64, title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}

	t, err := s.store.GetContext(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.UpdateContext(ctx, id, store.TaskUpdate{Title: &title}); err != nil {
		return err
	}

	s.mirror(ctx, t, remote.TaskUpdate{Title: &title})
	return nil
}

// SetReminder points a record's reminder at a new time.
//
// Any prior notification handle is cancelled before the new time takes
// effect, so a handle never outlives the reminder it was scheduled for.
// A time in the past is stored for display with no notification scheduled.
func (s *Service) SetReminder(ctx context.Context, id int64, at time.Time) error {
	t, err := s.store.GetContext(ctx, id)
	if err != nil {
		return err
	}

	s.cancelNotification(ctx, t)

	at = time.UnixMilli(at.UnixMilli())
	update := store.TaskUpdate{ReminderAt: &at, ClearNotificationID: true}

	granted, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		s.logger.Printf("WARNING: notification permission request failed: %v", err)
	}
	if granted {
		handle, err := s.notifier.Schedule(ctx, t.Title, sync.ReminderBody, at)
		if err != nil {
			s.logger.Printf("WARNING: failed to schedule reminder for task %d: %v", id, err)
		} else if handle != "" {
			update.NotificationID = &handle
			update.ClearNotificationID = false
		}
	}

	if err := s.store.UpdateContext(ctx, id, update); err != nil {
		return err
	}

	s.mirror(ctx, t, remote.TaskUpdate{ReminderAt: &at})
	return nil
}

// ClearReminder removes a record's reminder and cancels its notification.
func (s *Service) ClearReminder(ctx context.Context, id int64) error {
	t, err := s.store.GetContext(ctx, id)
	if err != nil {
		return err
	}

	s.cancelNotification(ctx, t)

	if err := s.store.UpdateContext(ctx, id, store.TaskUpdate{
		ClearReminder:       true,
		ClearNotificationID: true,
	}); err != nil {
		return err
	}

	s.mirror(ctx, t, remote.TaskUpdate{ClearReminder: true})
	return nil
}

// Delete removes a record everywhere: its pending notification is
// cancelled, its remote counterpart (if any) is deleted first, then the
// local row. A remote delete failure aborts so the caller can retry;
// without it the record would come back on the next pull.
func (s *Service) Delete(ctx context.Context, id int64) error {
	t, err := s.store.GetContext(ctx, id)
	if err != nil {
		return err
	}

	s.cancelNotification(ctx, t)

	if t.RemoteID != "" {
		if s.remote == nil || s.ownerID == "" {
			s.logger.Printf("WARNING: no remote configured; remote copy of task %d (%s) left in place", id, t.RemoteID)
		} else if err := s.remote.Delete(ctx, s.ownerID, t.RemoteID); err != nil {
			return fmt.Errorf("failed to delete remote counterpart %s: %w", t.RemoteID, err)
		}
	}

	return s.store.DeleteContext(ctx, id)
}

// cancelNotification revokes the record's current handle, if any.
// Cancellation is advisory: a failure is logged and never blocks the
// surrounding state change.
func (s *Service) cancelNotification(ctx context.Context, t task.Task) {
	if t.NotificationID == "" {
		return
	}
	if err := s.notifier.Cancel(ctx, t.NotificationID); err != nil {
		s.logger.Printf("WARNING: failed to cancel notification %s for task %d: %v", t.NotificationID, t.LocalID, err)
	}
}

// mirror applies a field update to the record's remote counterpart when
// one exists and a remote is configured. Best-effort.
func (s *Service) mirror(ctx context.Context, t task.Task, u remote.TaskUpdate) {
	if s.remote == nil || s.ownerID == "" || !t.Synced || t.RemoteID == "" {
		return
	}
	if err := s.remote.Update(ctx, s.ownerID, t.RemoteID, u); err != nil {
		s.logger.Printf("WARNING: failed to mirror update of task %d to remote %s: %v", t.LocalID, t.RemoteID, err)
	}
}
