// Show command for the funnel CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alignment-automations/funnel/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Display an account with full details (the selection when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("show")
		defer sess.close()

		var a types.Account
		if len(args) == 0 {
			var ok bool
			a, ok = sess.store.Selected()
			if !ok {
				fmt.Fprintln(os.Stderr, "show: no account selected")
				os.Exit(exitUserError)
			}
		} else {
			var err error
			a, err = sess.store.Get(args[0])
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					notFoundExit(args[0])
				}
				fmt.Fprintln(os.Stderr, "show:", err)
				os.Exit(exitSysError)
			}
		}

		if flagJSON {
			printJSON(a)
		} else {
			printAccount(a)
		}
		return nil
	},
}
