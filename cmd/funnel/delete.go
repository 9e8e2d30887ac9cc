// Delete command for the funnel CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("delete")
		defer sess.close()

		// Deleting an absent ID is a no-op, so look it up first to give
		// useful output.
		if _, err := sess.store.Get(args[0]); err != nil {
			notFoundExit(args[0])
		}

		sess.store.Delete(args[0])
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}
