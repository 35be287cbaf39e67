package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"todosync/internal/service"
	"todosync/internal/ui"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		svc := service.New(st, nil, newScheduler(), cfg.OwnerID, logger)
		t, err := svc.Create(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Printf("Added task %d: %s %s\n", t.LocalID, t.Title, ui.Dim("(pending push)"))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		svc := service.New(st, nil, newScheduler(), cfg.OwnerID, logger)
		tasks, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(tasks) == 0 {
			fmt.Println(ui.Dim("No tasks."))
			return nil
		}

		for _, t := range tasks {
			line := fmt.Sprintf("%s %4d  %s", ui.Checkbox(t.Completed), t.LocalID, t.Title)
			if t.Pending() {
				line += " " + ui.Dim("(pending push)")
			}
			if t.ReminderAt != nil {
				line += " " + ui.Accent("⏰ "+t.ReminderAt.Format("2006-01-02 15:04"))
			}
			fmt.Println(line)
		}
		return nil
	},
}

var undoFlag bool

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed (or not, with --undo)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		collection, cleanup, err := openRemote(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		svc := service.New(st, collection, newScheduler(), cfg.OwnerID, logger)
		if err := svc.SetCompleted(ctx, id, !undoFlag); err != nil {
			return err
		}

		if undoFlag {
			fmt.Printf("Reopened task %d\n", id)
		} else {
			fmt.Printf("%s Completed task %d\n", ui.Good("✓"), id)
		}
		return nil
	},
}

var clearReminderFlag bool

var remindCmd = &cobra.Command{
	Use:   "remind <id> <when>",
	Short: "Set or clear a task reminder",
	Long: `Set a reminder for a task. The time can be RFC 3339 or natural language:

  todosync remind 3 "tomorrow at 9am"
  todosync remind 3 2026-09-01T09:00:00Z
  todosync remind 3 --clear`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		collection, cleanup, err := openRemote(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		svc := service.New(st, collection, newScheduler(), cfg.OwnerID, logger)

		if clearReminderFlag {
			if err := svc.ClearReminder(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Cleared reminder for task %d\n", id)
			return nil
		}

		if len(args) < 2 {
			return fmt.Errorf("reminder time required (or pass --clear)")
		}

		at, err := parseWhen(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}

		if err := svc.SetReminder(ctx, id, at); err != nil {
			return err
		}

		note := ""
		if !at.After(time.Now()) {
			note = " " + ui.Dim("(in the past; no notification will fire)")
		}
		fmt.Printf("Reminder for task %d set to %s%s\n", id, at.Format("2006-01-02 15:04"), note)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task locally and remotely",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		collection, cleanup, err := openRemote(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		svc := service.New(st, collection, newScheduler(), cfg.OwnerID, logger)
		if err := svc.Delete(ctx, id); err != nil {
			return err
		}

		fmt.Printf("Deleted task %d\n", id)
		return nil
	},
}

func init() {
	doneCmd.Flags().BoolVar(&undoFlag, "undo", false, "mark the task as not completed")
	remindCmd.Flags().BoolVar(&clearReminderFlag, "clear", false, "clear the reminder instead of setting one")
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

// parseWhen accepts RFC 3339 first, then natural language ("tomorrow 9am").
func parseWhen(text string) (time.Time, error) {
	if at, err := time.Parse(time.RFC3339, text); err == nil {
		return at, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(text, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", text, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not understand time %q", text)
	}
	return r.Time, nil
}
