// Move command transitions an account to another pipeline stage.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alignment-automations/funnel/pkg/types"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <stage>",
	Short: "Move an account to a pipeline stage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("move")
		defer sess.close()

		stage := args[1]
		requireStage(sess.store.Stages(), stage)

		a, err := sess.store.Move(args[0], stage)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				notFoundExit(args[0])
			}
			fmt.Fprintln(os.Stderr, "move:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			printJSON(a)
		} else {
			fmt.Printf("Moved %s to %s\n", a.Name, a.Status)
		}
		return nil
	},
}
