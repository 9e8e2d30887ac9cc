// Board command renders the stage-grouped pipeline view.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alignment-automations/funnel/pkg/types"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the pipeline board grouped by stage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("board")
		defer sess.close()

		b := sess.store.Board()

		if flagJSON {
			printJSON(b)
			return nil
		}

		for _, col := range b.Columns {
			fmt.Printf("%s (%d)\n", col.Stage, len(col.Accounts))
			for _, a := range col.Accounts {
				tasks := types.ProgressOf(a.Tasks)
				fmt.Printf("  %s  %s (%d%%)\n", a.ID, a.Name, tasks.Pct)
			}
		}
		if len(b.Orphans) > 0 {
			fmt.Printf("unstaged (%d)\n", len(b.Orphans))
			for _, a := range b.Orphans {
				fmt.Printf("  %s  %s [%s]\n", a.ID, a.Name, a.Status)
			}
		}
		return nil
	},
}
