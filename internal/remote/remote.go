// Package remote defines the owner-scoped remote todo collection consumed
// by the sync engine. The production implementation lives in the firestore
// subpackage; tests use the in-memory fake from internal/testutil.
package remote

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document id does not exist in the
// owner's collection.
var ErrNotFound = errors.New("remote task not found")

// Task is one document in an owner's remote collection.
//
// ID is assigned by the backend on Add. CreatedAt preserves the value
// supplied at push time; the backend keeps its own server-side write
// timestamp separately. A zero CreatedAt means the backend has no value
// recorded and callers must substitute their own (see task.NormalizeRemoteTime).
type Task struct {
	ID         string
	Title      string
	Completed  bool
	CreatedAt  time.Time
	ReminderAt *time.Time
}

// TaskUpdate describes a partial document update. Nil pointer fields are
// left untouched; ClearReminder deletes the reminder field and is ignored
// when ReminderAt is also set.
type TaskUpdate struct {
	Title         *string
	Completed     *bool
	ReminderAt    *time.Time
	ClearReminder bool
}

// Collection is the per-owner remote document set.
//
// All methods require a non-empty ownerID and treat each call as an
// independent durable operation.
type Collection interface {
	// Add creates a new document and returns its server-assigned id.
	Add(ctx context.Context, ownerID string, t Task) (string, error)

	// Update applies a partial update to an existing document.
	Update(ctx context.Context, ownerID, id string, u TaskUpdate) error

	// Delete removes a document. Idempotent.
	Delete(ctx context.Context, ownerID, id string) error

	// Get retrieves a single document. Returns ErrNotFound if absent.
	Get(ctx context.Context, ownerID, id string) (Task, error)

	// List returns all documents ordered by creation time descending.
	List(ctx context.Context, ownerID string) ([]Task, error)
}
