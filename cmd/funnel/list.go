// List command for the funnel CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listStage string
	listQuery string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts, most recently updated first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := mustSession("list")
		defer sess.close()

		if listStage != "" {
			requireStage(sess.store.Stages(), listStage)
		}

		accounts := sess.store.Search(listQuery, listStage)

		if flagJSON {
			printJSON(accounts)
			return nil
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts found")
			return nil
		}

		selected := sess.store.SelectedID()
		for _, a := range accounts {
			marker := "  "
			if a.ID == selected {
				marker = "* "
			}
			fmt.Println(marker + accountLine(a))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStage, "stage", "", "filter by pipeline stage")
	listCmd.Flags().StringVar(&listQuery, "query", "", "filter by name, email, or phone")
}
