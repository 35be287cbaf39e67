// Package firestore implements the remote todo collection on Cloud
// Firestore. Documents live under users/{owner}/todos, one document per
// task, with a server-side updatedAt write timestamp kept separate from
// the client-supplied createdAt.
package firestore

import (
	"context"
	"fmt"
	"time"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"todosync/internal/remote"
)

// Collection is the Firestore-backed remote.Collection.
type Collection struct {
	client *fs.Client
}

// New wraps an existing Firestore client.
func New(client *fs.Client) *Collection {
	return &Collection{client: client}
}

// NewClient connects to Firestore for the given project. If
// credentialsFile is empty, application default credentials are used.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*fs.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project id required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := fs.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}

// doc is the Firestore document shape. UpdatedAt is written by the server
// on every Add/Update; CreatedAt keeps whatever value the client pushed.
type doc struct {
	Title      string     `firestore:"title"`
	Completed  bool       `firestore:"completed"`
	CreatedAt  time.Time  `firestore:"createdAt"`
	ReminderAt *time.Time `firestore:"reminderAt"`
	UpdatedAt  time.Time  `firestore:"updatedAt,serverTimestamp"`
}

func (c *Collection) todos(ownerID string) *fs.CollectionRef {
	return c.client.Collection("users").Doc(ownerID).Collection("todos")
}

// Add implements remote.Collection.
func (c *Collection) Add(ctx context.Context, ownerID string, t remote.Task) (string, error) {
	if ownerID == "" {
		return "", fmt.Errorf("owner id required")
	}

	ref, _, err := c.todos(ownerID).Add(ctx, doc{
		Title:      t.Title,
		Completed:  t.Completed,
		CreatedAt:  t.CreatedAt,
		ReminderAt: t.ReminderAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to add remote task: %w", err)
	}

	return ref.ID, nil
}

// Update implements remote.Collection.
func (c *Collection) Update(ctx context.Context, ownerID, id string, u remote.TaskUpdate) error {
	if ownerID == "" || id == "" {
		return fmt.Errorf("owner id and task id required")
	}

	updates := buildUpdates(u)
	if len(updates) == 1 {
		// Only the updatedAt touch: nothing real to change.
		return nil
	}

	if _, err := c.todos(ownerID).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("update remote task %s: %w", id, remote.ErrNotFound)
		}
		return fmt.Errorf("failed to update remote task %s: %w", id, err)
	}
	return nil
}

// buildUpdates translates a partial update into Firestore field updates.
// The server-side updatedAt timestamp is always refreshed.
func buildUpdates(u remote.TaskUpdate) []fs.Update {
	updates := []fs.Update{{Path: "updatedAt", Value: fs.ServerTimestamp}}

	if u.Title != nil {
		updates = append(updates, fs.Update{Path: "title", Value: *u.Title})
	}
	if u.Completed != nil {
		updates = append(updates, fs.Update{Path: "completed", Value: *u.Completed})
	}
	if u.ReminderAt != nil {
		updates = append(updates, fs.Update{Path: "reminderAt", Value: *u.ReminderAt})
	} else if u.ClearReminder {
		updates = append(updates, fs.Update{Path: "reminderAt", Value: nil})
	}

	return updates
}

// Delete implements remote.Collection.
func (c *Collection) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" || id == "" {
		return fmt.Errorf("owner id and task id required")
	}

	if _, err := c.todos(ownerID).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete remote task %s: %w", id, err)
	}
	return nil
}

// Get implements remote.Collection.
func (c *Collection) Get(ctx context.Context, ownerID, id string) (remote.Task, error) {
	if ownerID == "" || id == "" {
		return remote.Task{}, fmt.Errorf("owner id and task id required")
	}

	snap, err := c.todos(ownerID).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return remote.Task{}, fmt.Errorf("get remote task %s: %w", id, remote.ErrNotFound)
		}
		return remote.Task{}, fmt.Errorf("failed to get remote task %s: %w", id, err)
	}

	return snapToTask(snap)
}

// List implements remote.Collection.
func (c *Collection) List(ctx context.Context, ownerID string) ([]remote.Task, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id required")
	}

	iter := c.todos(ownerID).OrderBy("createdAt", fs.Desc).Documents(ctx)
	defer iter.Stop()

	var tasks []remote.Task
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list remote tasks: %w", err)
		}

		t, err := snapToTask(snap)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

func snapToTask(snap *fs.DocumentSnapshot) (remote.Task, error) {
	var d doc
	if err := snap.DataTo(&d); err != nil {
		return remote.Task{}, fmt.Errorf("failed to decode remote task %s: %w", snap.Ref.ID, err)
	}

	return remote.Task{
		ID:         snap.Ref.ID,
		Title:      d.Title,
		Completed:  d.Completed,
		CreatedAt:  d.CreatedAt,
		ReminderAt: d.ReminderAt,
	}, nil
}
