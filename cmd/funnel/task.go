// Task commands manage an account's task checklist.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alignment-automations/funnel/pkg/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage an account's task checklist",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <id> <name>",
	Short: "Add a task to an account",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("task add")
		defer sess.close()

		name := strings.Join(args[1:], " ")
		a, err := sess.store.AddTask(args[0], name)
		reportChecklist(a, err, args[0], "task add")
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id> <task-id>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("task done")
		defer sess.close()

		a, err := sess.store.ToggleTask(args[0], args[1])
		reportChecklist(a, err, args[0], "task done")
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id> <task-id>",
	Short: "Remove a task from an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("task rm")
		defer sess.close()

		a, err := sess.store.RemoveTask(args[0], args[1])
		reportChecklist(a, err, args[0], "task rm")
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskRmCmd)
}

// reportChecklist handles the shared output and error paths of checklist
// mutations. On success it prints the updated account (or its JSON form).
func reportChecklist(a types.Account, err error, id, op string) {
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			fmt.Fprintf(os.Stderr, "%s: account or item %q not found\n", op, id)
			os.Exit(exitUserError)
		case errors.Is(err, types.ErrNameEmpty):
			fmt.Fprintf(os.Stderr, "%s: item name must not be empty\n", op)
			os.Exit(exitUserError)
		default:
			fmt.Fprintf(os.Stderr, "%s: %s\n", op, err)
			os.Exit(exitSysError)
		}
	}

	if flagJSON {
		printJSON(a)
		return
	}
	tasks := types.ProgressOf(a.Tasks)
	onboard := types.ProgressOf(a.Onboarding)
	fmt.Printf("%s: tasks %d/%d (%d%%), onboarding %d/%d (%d%%)\n",
		a.Name, tasks.Done, tasks.Total, tasks.Pct, onboard.Done, onboard.Total, onboard.Pct)
}
