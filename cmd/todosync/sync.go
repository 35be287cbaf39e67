package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"todosync/internal/sync"
	"todosync/internal/ui"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push pending local tasks to the remote collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context(), true, false)
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Import remote tasks missing locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context(), false, true)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push, then pull",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context(), true, true)
	},
}

// runSync performs one reconciliation run. Push and pull execute
// sequentially; the engine assumes no concurrent runs for the same owner.
func runSync(ctx context.Context, push, pull bool) error {
	ownerID, err := requireOwner()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	collection, cleanup, err := requireRemote(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	engine := sync.New(st, collection, newScheduler(), logger)

	if push {
		results, err := engine.Push(ctx, ownerID)
		if err != nil {
			return err
		}
		printPush(results)
	}

	if pull {
		results, err := engine.Pull(ctx, ownerID)
		if err != nil {
			return err
		}
		printPull(results)
	}

	return nil
}

func printPush(results []sync.PushResult) {
	tally := sync.TallyPush(results)
	fmt.Printf("%s push: %s, %s\n",
		ui.Accent("⇡"),
		ui.Good(fmt.Sprintf("%d synced", tally.Synced)),
		errCount(tally.Errors))

	for _, r := range results {
		if r.Status == sync.StatusError {
			fmt.Printf("  %s task %d: %s\n", ui.Bad("✗"), r.LocalID, r.Error)
		}
	}
}

func printPull(results []sync.PullResult) {
	tally := sync.TallyPull(results)
	fmt.Printf("%s pull: %s, %d existing, %s\n",
		ui.Accent("⇣"),
		ui.Good(fmt.Sprintf("%d imported", tally.Inserted)),
		tally.Exists,
		errCount(tally.Errors))

	for _, r := range results {
		if r.Status == sync.StatusError {
			fmt.Printf("  %s remote %s: %s\n", ui.Bad("✗"), r.RemoteID, r.Error)
		}
	}
}

func errCount(n int) string {
	s := fmt.Sprintf("%d errors", n)
	if n > 0 {
		return ui.Bad(s)
	}
	return s
}
