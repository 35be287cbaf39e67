// Package testutil provides in-memory test doubles for the remote
// collection and the notification scheduler.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"todosync/internal/remote"
)

// FakeCollection is an in-memory implementation of remote.Collection.
// Document ids are assigned deterministically: r1, r2, ...
type FakeCollection struct {
	mu     sync.Mutex
	nextID int
	docs   map[string][]remote.Task // ownerID -> docs

	// Error injection for testing
	AddErr    error
	AddErrFor map[string]error // title -> error
	ListErr   error
	UpdateErr error
	DeleteErr error
	GetErr    error

	// Call counters
	AddCalls    int
	UpdateCalls int
	DeleteCalls int
}

// NewFakeCollection creates an empty fake collection.
func NewFakeCollection() *FakeCollection {
	return &FakeCollection{
		docs:      make(map[string][]remote.Task),
		AddErrFor: make(map[string]error),
	}
}

// Seed inserts a document directly, bypassing error injection, and
// returns its assigned id. An empty CreatedAt is left zero so tests can
// exercise timestamp normalization.
func (f *FakeCollection) Seed(ownerID string, t remote.Task) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		f.nextID++
		t.ID = fmt.Sprintf("r%d", f.nextID)
	}
	f.docs[ownerID] = append(f.docs[ownerID], t)
	return t.ID
}

// Docs returns a copy of the owner's documents in insertion order.
func (f *FakeCollection) Docs(ownerID string) []remote.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]remote.Task, len(f.docs[ownerID]))
	copy(out, f.docs[ownerID])
	return out
}

// Add implements remote.Collection.
func (f *FakeCollection) Add(ctx context.Context, ownerID string, t remote.Task) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AddCalls++

	if f.AddErr != nil {
		return "", f.AddErr
	}
	if err := f.AddErrFor[t.Title]; err != nil {
		return "", err
	}

	f.nextID++
	t.ID = fmt.Sprintf("r%d", f.nextID)
	f.docs[ownerID] = append(f.docs[ownerID], t)
	return t.ID, nil
}

// Update implements remote.Collection.
func (f *FakeCollection) Update(ctx context.Context, ownerID, id string, u remote.TaskUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++

	if f.UpdateErr != nil {
		return f.UpdateErr
	}

	docs := f.docs[ownerID]
	for i := range docs {
		if docs[i].ID != id {
			continue
		}
		if u.Title != nil {
			docs[i].Title = *u.Title
		}
		if u.Completed != nil {
			docs[i].Completed = *u.Completed
		}
		if u.ReminderAt != nil {
			at := *u.ReminderAt
			docs[i].ReminderAt = &at
		} else if u.ClearReminder {
			docs[i].ReminderAt = nil
		}
		return nil
	}
	return remote.ErrNotFound
}

// Delete implements remote.Collection.
func (f *FakeCollection) Delete(ctx context.Context, ownerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++

	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	docs := f.docs[ownerID]
	for i := range docs {
		if docs[i].ID == id {
			f.docs[ownerID] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return nil
}

// Get implements remote.Collection.
func (f *FakeCollection) Get(ctx context.Context, ownerID, id string) (remote.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return remote.Task{}, f.GetErr
	}

	for _, d := range f.docs[ownerID] {
		if d.ID == id {
			return d, nil
		}
	}
	return remote.Task{}, remote.ErrNotFound
}

// List implements remote.Collection.
func (f *FakeCollection) List(ctx context.Context, ownerID string) ([]remote.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ListErr != nil {
		return nil, f.ListErr
	}

	out := make([]remote.Task, len(f.docs[ownerID]))
	copy(out, f.docs[ownerID])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
