// Package register handles account creation
package register

import (
	"fjacquet/finance-manager/cmd/root"

	"github.com/spf13/cobra"
)

var confirm string

// Cmd represents the register command
var Cmd = root.Mutating(&cobra.Command{
	Use:   "register",
	Short: "Register a new user",
	Long: `Register a new user with an empty ledger and the default categories.
The username is taken from --user and the password from --password.`,
	Example: "  finance-manager register -u alice -p secret --confirm secret",
	Args:    cobra.NoArgs,
	RunE:    registerFunc,
})

func init() {
	Cmd.Flags().StringVar(&confirm, "confirm", "", "Password confirmation (prompted when omitted)")
}

func registerFunc(cmd *cobra.Command, args []string) error {
	svc, err := root.Service()
	if err != nil {
		return err
	}
	password, err := root.Secret(cmd, root.SharedFlags.Password, "Password: ")
	if err != nil {
		return err
	}
	again, err := root.Secret(cmd, confirm, "Confirm password: ")
	if err != nil {
		return err
	}

	u, err := svc.Register(root.SharedFlags.Username, password, again)
	if err != nil {
		return err
	}
	root.Printer(cmd).Success("User '%s' registered", u.Username)
	return nil
}
