// Onboard commands manage an account's onboarding checklist.
package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Manage an account's onboarding checklist",
}

var onboardAddCmd = &cobra.Command{
	Use:   "add <id> <name>",
	Short: "Add an onboarding item to an account",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("onboard add")
		defer sess.close()

		name := strings.Join(args[1:], " ")
		a, err := sess.store.AddOnboardingItem(args[0], name)
		reportChecklist(a, err, args[0], "onboard add")
		return nil
	},
}

var onboardDoneCmd = &cobra.Command{
	Use:   "done <id> <item-id>",
	Short: "Toggle an onboarding item's completion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("onboard done")
		defer sess.close()

		a, err := sess.store.ToggleOnboardingItem(args[0], args[1])
		reportChecklist(a, err, args[0], "onboard done")
		return nil
	},
}

var onboardRmCmd = &cobra.Command{
	Use:   "rm <id> <item-id>",
	Short: "Remove an onboarding item from an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("onboard rm")
		defer sess.close()

		a, err := sess.store.RemoveOnboardingItem(args[0], args[1])
		reportChecklist(a, err, args[0], "onboard rm")
		return nil
	},
}

func init() {
	onboardCmd.AddCommand(onboardAddCmd)
	onboardCmd.AddCommand(onboardDoneCmd)
	onboardCmd.AddCommand(onboardRmCmd)
}
