// Update command for the funnel CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alignment-automations/funnel/pkg/types"
)

var (
	updateName    string
	updatePhone   string
	updateEmail   string
	updateWebsite string
	updateNotes   string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update account fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p types.AccountPatch
		if cmd.Flags().Changed("name") {
			p.Name = types.StringPtr(updateName)
		}
		if cmd.Flags().Changed("phone") {
			p.Phone = types.StringPtr(updatePhone)
		}
		if cmd.Flags().Changed("email") {
			p.Email = types.StringPtr(updateEmail)
		}
		if cmd.Flags().Changed("website") {
			p.Website = types.StringPtr(updateWebsite)
		}
		if cmd.Flags().Changed("notes") {
			p.Notes = types.StringPtr(updateNotes)
		}
		if p == (types.AccountPatch{}) {
			fmt.Fprintln(os.Stderr, "update: at least one field flag must be provided")
			os.Exit(exitUserError)
		}

		sess := mustSession("update")
		defer sess.close()

		a, err := sess.store.Patch(args[0], p)
		if err != nil {
			switch {
			case errors.Is(err, types.ErrNotFound):
				notFoundExit(args[0])
			case errors.Is(err, types.ErrNameEmpty):
				fmt.Fprintln(os.Stderr, "update: name must not be empty")
				os.Exit(exitUserError)
			default:
				fmt.Fprintln(os.Stderr, "update:", err)
				os.Exit(exitSysError)
			}
		}

		if flagJSON {
			printJSON(a)
		} else {
			fmt.Printf("Updated %s\n", a.ID)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "set account name")
	updateCmd.Flags().StringVar(&updatePhone, "phone", "", "set contact phone")
	updateCmd.Flags().StringVar(&updateEmail, "email", "", "set contact email")
	updateCmd.Flags().StringVar(&updateWebsite, "website", "", "set website URL")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "set notes")
}
