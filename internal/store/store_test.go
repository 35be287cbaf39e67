package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"todosync/internal/task"
)

// setupTestStore creates a temporary database for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if err := st.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return st
}

func TestInsertAndGet(t *testing.T) {
	st := setupTestStore(t)

	reminderAt := time.UnixMilli(5000)
	inserted, err := st.Insert(task.FromFields(task.Fields{
		Title:          "write tests",
		Completed:      true,
		CreatedAt:      time.UnixMilli(1234),
		Synced:         true,
		RemoteID:       "r42",
		ReminderAt:     &reminderAt,
		NotificationID: "n7",
	}))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if inserted.LocalID == 0 {
		t.Fatal("Insert did not assign a local id")
	}

	got, err := st.Get(inserted.LocalID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "write tests" || !got.Completed || !got.Synced {
		t.Errorf("unexpected fields: %+v", got)
	}
	if got.CreatedAt.UnixMilli() != 1234 {
		t.Errorf("created at = %d ms, want 1234", got.CreatedAt.UnixMilli())
	}
	if got.RemoteID != "r42" || got.NotificationID != "n7" {
		t.Errorf("unexpected ids: %+v", got)
	}
	if got.ReminderAt == nil || got.ReminderAt.UnixMilli() != 5000 {
		t.Errorf("reminder at = %v, want 5000 ms", got.ReminderAt)
	}
}

func TestInsertRejectsInvalid(t *testing.T) {
	st := setupTestStore(t)

	if _, err := st.Insert(task.Task{CreatedAt: time.UnixMilli(1)}); err == nil {
		t.Error("Insert accepted a task without a title")
	}
}

func TestInsertAssignsDistinctIDs(t *testing.T) {
	st := setupTestStore(t)

	first, err := st.Insert(task.FromFields(task.Fields{Title: "a", CreatedAt: time.UnixMilli(1)}))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	second, err := st.Insert(task.FromFields(task.Fields{Title: "b", CreatedAt: time.UnixMilli(2)}))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if first.LocalID == second.LocalID {
		t.Errorf("both inserts got id %d", first.LocalID)
	}
}

func TestListOrderedByCreationDescending(t *testing.T) {
	st := setupTestStore(t)

	for _, f := range []struct {
		title string
		ms    int64
	}{
		{"oldest", 1000},
		{"newest", 3000},
		{"middle", 2000},
	} {
		if _, err := st.Insert(task.FromFields(task.Fields{Title: f.title, CreatedAt: time.UnixMilli(f.ms)})); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	tasks, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"newest", "middle", "oldest"}
	if len(tasks) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(want))
	}
	for i, title := range want {
		if tasks[i].Title != title {
			t.Errorf("position %d: got %q, want %q", i, tasks[i].Title, title)
		}
	}
}

func TestUpdatePartial(t *testing.T) {
	st := setupTestStore(t)

	inserted, err := st.Insert(task.FromFields(task.Fields{Title: "before", CreatedAt: time.UnixMilli(100)}))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	title := "after"
	if err := st.Update(inserted.LocalID, TaskUpdate{Title: &title}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := st.Get(inserted.LocalID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "after" {
		t.Errorf("title = %q, want %q", got.Title, "after")
	}
	// Untouched fields keep their values.
	if got.Completed || got.Synced || got.CreatedAt.UnixMilli() != 100 {
		t.Errorf("partial update changed unrelated fields: %+v", got)
	}
}

func TestUpdateClearsNullableColumns(t *testing.T) {
	st := setupTestStore(t)

	reminderAt := time.UnixMilli(9000)
	inserted, err := st.Insert(task.FromFields(task.Fields{
		Title:          "clearable",
		CreatedAt:      time.UnixMilli(100),
		ReminderAt:     &reminderAt,
		NotificationID: "n1",
	}))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := st.Update(inserted.LocalID, TaskUpdate{ClearReminder: true, ClearNotificationID: true}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := st.Get(inserted.LocalID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ReminderAt != nil {
		t.Errorf("reminder at = %v, want nil", got.ReminderAt)
	}
	if got.NotificationID != "" {
		t.Errorf("notification id = %q, want empty", got.NotificationID)
	}
}

func TestUpdateEmptyIsNoop(t *testing.T) {
	st := setupTestStore(t)

	inserted, err := st.Insert(task.FromFields(task.Fields{Title: "same", CreatedAt: time.UnixMilli(100)}))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := st.Update(inserted.LocalID, TaskUpdate{}); err != nil {
		t.Fatalf("empty Update failed: %v", err)
	}
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	st := setupTestStore(t)

	done := true
	if err := st.Update(999, TaskUpdate{Completed: &done}); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	st := setupTestStore(t)

	if _, err := st.Get(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	st := setupTestStore(t)

	inserted, err := st.Insert(task.FromFields(task.Fields{Title: "gone", CreatedAt: time.UnixMilli(100)}))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := st.Delete(inserted.LocalID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := st.Delete(inserted.LocalID); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	if _, err := st.Get(inserted.LocalID); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v after delete, want ErrNotFound", err)
	}
}
