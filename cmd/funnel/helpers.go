// Shared helpers for funnel CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alignment-automations/funnel/pkg/types"
)

// mustSession opens a session or exits with a system error. The caller must
// defer sess.close() so background writes drain before exit.
func mustSession(op string) *session {
	sess, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", op, err)
		os.Exit(exitSysError)
	}
	return sess
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal JSON:", err)
		os.Exit(exitSysError)
	}
	fmt.Println(string(out))
}

// accountLine formats one account for list output: ID, stage, name, and
// checklist progress.
func accountLine(a types.Account) string {
	tasks := types.ProgressOf(a.Tasks)
	onboard := types.ProgressOf(a.Onboarding)
	return fmt.Sprintf("%s  %-14s  %s (tasks %d%%, onboarding %d%%)",
		a.ID, a.Status, a.Name, tasks.Pct, onboard.Pct)
}

// printChecklist writes checklist items with completion markers and a
// progress summary line.
func printChecklist(label string, list types.Checklist) {
	p := types.ProgressOf(list)
	fmt.Printf("\n%s (%d/%d, %d%%):\n", label, p.Done, p.Total, p.Pct)
	for _, item := range list {
		mark := " "
		if item.Done {
			mark = "x"
		}
		fmt.Printf("  [%s] %s  %s\n", mark, item.ID, item.Name)
	}
}

// printAccount writes full human-readable account details.
func printAccount(a types.Account) {
	fmt.Printf("ID:        %s\n", a.ID)
	fmt.Printf("Name:      %s\n", a.Name)
	fmt.Printf("Stage:     %s\n", a.Status)
	if a.Phone != "" {
		fmt.Printf("Phone:     %s\n", a.Phone)
	}
	if a.Email != "" {
		fmt.Printf("Email:     %s\n", a.Email)
	}
	if a.Website != "" {
		fmt.Printf("Website:   %s\n", a.Website)
	}
	fmt.Printf("Created:   %s\n", a.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated:   %s\n", a.UpdatedAt.Format("2006-01-02 15:04:05"))
	if a.Notes != "" {
		fmt.Printf("\nNotes:\n  %s\n", a.Notes)
	}
	printChecklist("Tasks", a.Tasks)
	printChecklist("Onboarding", a.Onboarding)
}

// requireStage validates a stage name against the configured pipeline and
// exits with a user error when it is unknown.
func requireStage(stages []string, stage string) {
	if types.StageKnown(stages, stage) {
		return
	}
	fmt.Fprintf(os.Stderr, "unknown stage %q (valid: %s)\n", stage, strings.Join(stages, ", "))
	os.Exit(exitUserError)
}

// notFoundExit prints a not-found message and exits with a user error.
func notFoundExit(id string) {
	fmt.Fprintf(os.Stderr, "account %q not found\n", id)
	os.Exit(exitUserError)
}
