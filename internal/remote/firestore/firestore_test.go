package firestore

import (
	"testing"
	"time"

	fs "cloud.google.com/go/firestore"

	"todosync/internal/remote"
)

func findUpdate(updates []fs.Update, path string) (fs.Update, bool) {
	for _, u := range updates {
		if u.Path == path {
			return u, true
		}
	}
	return fs.Update{}, false
}

func TestBuildUpdatesAlwaysTouchesUpdatedAt(t *testing.T) {
	updates := buildUpdates(remote.TaskUpdate{})

	if len(updates) != 1 {
		t.Fatalf("empty update produced %d field updates, want 1", len(updates))
	}
	if updates[0].Path != "updatedAt" || updates[0].Value != fs.ServerTimestamp {
		t.Errorf("unexpected update: %+v", updates[0])
	}
}

func TestBuildUpdatesFields(t *testing.T) {
	title := "new title"
	done := true
	at := time.UnixMilli(5000)

	updates := buildUpdates(remote.TaskUpdate{Title: &title, Completed: &done, ReminderAt: &at})

	if u, ok := findUpdate(updates, "title"); !ok || u.Value != "new title" {
		t.Errorf("title update = %+v, found=%v", u, ok)
	}
	if u, ok := findUpdate(updates, "completed"); !ok || u.Value != true {
		t.Errorf("completed update = %+v, found=%v", u, ok)
	}
	if u, ok := findUpdate(updates, "reminderAt"); !ok || u.Value != at {
		t.Errorf("reminderAt update = %+v, found=%v", u, ok)
	}
}

func TestBuildUpdatesClearReminder(t *testing.T) {
	updates := buildUpdates(remote.TaskUpdate{ClearReminder: true})

	u, ok := findUpdate(updates, "reminderAt")
	if !ok {
		t.Fatal("no reminderAt update emitted")
	}
	if u.Value != nil {
		t.Errorf("reminderAt cleared to %v, want null", u.Value)
	}
}

func TestBuildUpdatesReminderWinsOverClear(t *testing.T) {
	at := time.UnixMilli(5000)
	updates := buildUpdates(remote.TaskUpdate{ReminderAt: &at, ClearReminder: true})

	u, ok := findUpdate(updates, "reminderAt")
	if !ok {
		t.Fatal("no reminderAt update emitted")
	}
	if u.Value != at {
		t.Errorf("reminderAt = %v, want %v", u.Value, at)
	}
}
