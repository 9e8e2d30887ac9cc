// Create command for the funnel CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alignment-automations/funnel/pkg/types"
)

var (
	createName    string
	createStage   string
	createPhone   string
	createEmail   string
	createWebsite string
	createNotes   string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account with default checklists",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(createName) == "" {
			fmt.Fprintln(os.Stderr, "create: --name is required")
			os.Exit(exitUserError)
		}

		sess := mustSession("create")
		defer sess.close()

		if createStage != "" {
			requireStage(sess.store.Stages(), createStage)
		}

		a, err := sess.store.Create(types.Draft{
			Name:    createName,
			Status:  createStage,
			Phone:   createPhone,
			Email:   createEmail,
			Website: createWebsite,
			Notes:   createNotes,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitUserError)
		}

		if flagJSON {
			printJSON(a)
		} else {
			fmt.Printf("Created account: %s (%s)\n", a.Name, a.ID)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "account name (required)")
	createCmd.Flags().StringVar(&createStage, "stage", "", "initial pipeline stage (default: first stage)")
	createCmd.Flags().StringVar(&createPhone, "phone", "", "contact phone")
	createCmd.Flags().StringVar(&createEmail, "email", "", "contact email")
	createCmd.Flags().StringVar(&createWebsite, "website", "", "website URL")
	createCmd.Flags().StringVar(&createNotes, "notes", "", "free-form notes")

	createCmd.MarkFlagRequired("name")
}
