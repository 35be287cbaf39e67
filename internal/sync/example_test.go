package sync_test

import (
	"context"
	"fmt"
	"log"

	"todosync/internal/notify"
	"todosync/internal/remote/firestore"
	"todosync/internal/store"
	"todosync/internal/sync"
)

// This example demonstrates one full reconciliation run.
// Note: This is for documentation only and won't run as a test.
func ExampleNew() {
	ctx := context.Background()

	// Open the local store
	st, err := store.Open(".todosync/todos.db")
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	// Initialize schema (first time only)
	if err := st.InitSchema(); err != nil {
		log.Fatal(err)
	}

	// Connect the remote collection
	client, err := firestore.NewClient(ctx, "my-project", "")
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	// Create the engine
	syncer := sync.New(st, firestore.New(client), notify.NewTimerScheduler(nil), nil)

	// Push pending local tasks, then import what's missing locally
	pushed, err := syncer.Push(ctx, "user-123")
	if err != nil {
		log.Fatal(err)
	}
	pulled, err := syncer.Pull(ctx, "user-123")
	if err != nil {
		log.Fatal(err)
	}

	pushTally := sync.TallyPush(pushed)
	pullTally := sync.TallyPull(pulled)
	fmt.Printf("synced=%d imported=%d\n", pushTally.Synced, pullTally.Inserted)
}
