package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"todosync/internal/notify"
	"todosync/internal/remote"
	"todosync/internal/store"
	"todosync/internal/task"
)

// ErrOwnerRequired is returned when Push or Pull is called without an
// owner identity. No work is performed in that case.
var ErrOwnerRequired = errors.New("owner id required")

// ReminderBody is the fixed body text of reminder notifications
// re-established during pull.
const ReminderBody = "Task reminder"

// Status classifies a per-record sync outcome.
type Status string

const (
	// StatusSynced means the local record was created remotely and marked synced.
	StatusSynced Status = "synced"
	// StatusInserted means the remote record was imported into the local store.
	StatusInserted Status = "inserted"
	// StatusExists means the remote record already had a local counterpart.
	StatusExists Status = "exists"
	// StatusError means this record's operation failed; the batch continued.
	StatusError Status = "error"
)

// PushResult is the outcome for one pending local record.
type PushResult struct {
	LocalID  int64
	Status   Status
	RemoteID string // set when Status == StatusSynced
	Error    string // set when Status == StatusError
}

// PullResult is the outcome for one remote record.
type PullResult struct {
	RemoteID string
	LocalID  int64 // zero when Status == StatusError
	Status   Status
	Error    string // set when Status == StatusError
}

// Tally aggregates per-record outcomes for reporting.
type Tally struct {
	Synced   int
	Inserted int
	Exists   int
	Errors   int
}

// TallyPush counts push outcomes.
func TallyPush(results []PushResult) Tally {
	var t Tally
	for _, r := range results {
		switch r.Status {
		case StatusSynced:
			t.Synced++
		case StatusError:
			t.Errors++
		}
	}
	return t
}

// TallyPull counts pull outcomes.
func TallyPull(results []PullResult) Tally {
	var t Tally
	for _, r := range results {
		switch r.Status {
		case StatusInserted:
			t.Inserted++
		case StatusExists:
			t.Exists++
		case StatusError:
			t.Errors++
		}
	}
	return t
}

// syncer implements the Syncer interface.
type syncer struct {
	store    *store.Store
	remote   remote.Collection
	notifier notify.Scheduler
	logger   *log.Logger
}

// New creates a new Syncer instance.
//
// The store must be opened and have its schema initialized before passing
// to this function. If logger is nil, a default logger writing to stderr
// is used.
//
// Example:
//
//	st, err := store.Open(dbPath)
//	if err != nil {
//	    return err
//	}
//	if err := st.InitSchema(); err != nil {
//	    return err
//	}
//	syncer := sync.New(st, collection, scheduler, nil)
func New(st *store.Store, collection remote.Collection, scheduler notify.Scheduler, logger *log.Logger) Syncer {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &syncer{
		store:    st,
		remote:   collection,
		notifier: scheduler,
		logger:   logger,
	}
}

// Push implements Syncer.Push.
func (s *syncer) Push(ctx context.Context, ownerID string) ([]PushResult, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	local, err := s.store.ListContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load local snapshot: %w", err)
	}

	results := make([]PushResult, 0)
	for _, t := range local {
		if !t.Pending() {
			continue
		}

		// The remote record carries the original creation time so the
		// correlation seed stays stable; the backend records its own
		// write timestamp separately.
		remoteID, err := s.remote.Add(ctx, ownerID, remote.Task{
			Title:     t.Title,
			CreatedAt: t.CreatedAt,
		})
		if err != nil {
			s.logger.Printf("WARNING: failed to push task %d: %v", t.LocalID, err)
			results = append(results, PushResult{LocalID: t.LocalID, Status: StatusError, Error: err.Error()})
			continue
		}

		if err := s.store.UpdateContext(ctx, t.LocalID, store.TaskUpdate{
			Synced:   boolPtr(true),
			RemoteID: &remoteID,
		}); err != nil {
			// The record stays pending; the next run re-pushes it.
			s.logger.Printf("WARNING: failed to mark task %d synced: %v", t.LocalID, err)
			results = append(results, PushResult{LocalID: t.LocalID, Status: StatusError, Error: err.Error()})
			continue
		}

		results = append(results, PushResult{LocalID: t.LocalID, Status: StatusSynced, RemoteID: remoteID})
	}

	tally := TallyPush(results)
	s.logger.Printf("Push complete: synced=%d, errors=%d", tally.Synced, tally.Errors)

	return results, nil
}

// Pull implements Syncer.Pull.
func (s *syncer) Pull(ctx context.Context, ownerID string) ([]PullResult, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	remoteTasks, err := s.remote.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load remote snapshot: %w", err)
	}

	local, err := s.store.ListContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load local snapshot: %w", err)
	}

	// Existence is decided by remote-id correlation: titles are not unique
	// and only the correlation identifier is stable across stores.
	byRemoteID := make(map[string]task.Task, len(local))
	for _, t := range local {
		if t.RemoteID != "" {
			byRemoteID[t.RemoteID] = t
		}
	}

	now := time.Now()
	results := make([]PullResult, 0, len(remoteTasks))
	for _, r := range remoteTasks {
		if existing, ok := byRemoteID[r.ID]; ok {
			results = append(results, PullResult{RemoteID: r.ID, LocalID: existing.LocalID, Status: StatusExists})
			continue
		}

		fields := task.Fields{
			Title:     r.Title,
			Completed: r.Completed,
			CreatedAt: task.NormalizeRemoteTime(r.CreatedAt, now),
			Synced:    true,
			RemoteID:  r.ID,
		}
		if r.ReminderAt != nil {
			reminderAt := task.NormalizeRemoteTime(*r.ReminderAt, now)
			fields.ReminderAt = &reminderAt
		}

		inserted, err := s.store.InsertContext(ctx, task.FromFields(fields))
		if err != nil {
			s.logger.Printf("WARNING: failed to import remote task %s: %v", r.ID, err)
			results = append(results, PullResult{RemoteID: r.ID, Status: StatusError, Error: err.Error()})
			continue
		}

		if inserted.ReminderAt != nil {
			s.scheduleImported(ctx, inserted)
		}

		results = append(results, PullResult{RemoteID: r.ID, LocalID: inserted.LocalID, Status: StatusInserted})
	}

	tally := TallyPull(results)
	s.logger.Printf("Pull complete: inserted=%d, exists=%d, errors=%d", tally.Inserted, tally.Exists, tally.Errors)

	return results, nil
}

// scheduleImported re-establishes the reminder notification for a freshly
// imported record. Best-effort: every failure is logged and swallowed, the
// import already succeeded.
func (s *syncer) scheduleImported(ctx context.Context, t task.Task) {
	granted, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		s.logger.Printf("WARNING: notification permission request failed for task %d: %v", t.LocalID, err)
		return
	}
	if !granted {
		s.logger.Printf("notification permission denied; task %d imported without reminder", t.LocalID)
		return
	}

	handle, err := s.notifier.Schedule(ctx, t.Title, ReminderBody, *t.ReminderAt)
	if err != nil {
		s.logger.Printf("WARNING: failed to schedule reminder for task %d: %v", t.LocalID, err)
		return
	}
	if handle == "" {
		// Fire time already passed; the record keeps its reminder for
		// display but no notification will fire.
		return
	}

	if err := s.store.UpdateContext(ctx, t.LocalID, store.TaskUpdate{NotificationID: &handle}); err != nil {
		s.logger.Printf("WARNING: failed to record notification handle for task %d: %v", t.LocalID, err)
		if cancelErr := s.notifier.Cancel(ctx, handle); cancelErr != nil {
			s.logger.Printf("WARNING: failed to cancel orphaned notification %s: %v", handle, cancelErr)
		}
	}
}

func boolPtr(b bool) *bool { return &b }
