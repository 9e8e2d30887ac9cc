// Select command for the funnel CLI.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alignment-automations/funnel/pkg/types"
)

var selectCmd = &cobra.Command{
	Use:   "select [id]",
	Short: "Select an account, or show the current selection",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("select")
		defer sess.close()

		if len(args) == 0 {
			a, ok := sess.store.Selected()
			if !ok {
				fmt.Println("No account selected")
				return nil
			}
			if flagJSON {
				printJSON(a)
			} else {
				printAccount(a)
			}
			return nil
		}

		if err := sess.store.Select(args[0]); err != nil {
			if errors.Is(err, types.ErrNotFound) {
				notFoundExit(args[0])
			}
			return err
		}

		fmt.Printf("Selected %s\n", args[0])
		return nil
	},
}
