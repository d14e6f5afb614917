// Package passwd handles password changes
package passwd

import (
	"fjacquet/finance-manager/cmd/root"

	"github.com/spf13/cobra"
)

var (
	newPassword string
	confirm     string
)

// Cmd represents the passwd command
var Cmd = root.Mutating(&cobra.Command{
	Use:   "passwd",
	Short: "Change the password of a user",
	Long:  `Change the password of --user after checking the current one given by --password.`,
	Args:  cobra.NoArgs,
	RunE:  passwdFunc,
})

func init() {
	Cmd.Flags().StringVar(&newPassword, "new-password", "", "New password (prompted when omitted)")
	Cmd.Flags().StringVar(&confirm, "confirm", "", "New password confirmation (prompted when omitted)")
}

func passwdFunc(cmd *cobra.Command, args []string) error {
	svc, err := root.Service()
	if err != nil {
		return err
	}
	current, err := root.Secret(cmd, root.SharedFlags.Password, "Current password: ")
	if err != nil {
		return err
	}
	next, err := root.Secret(cmd, newPassword, "New password: ")
	if err != nil {
		return err
	}
	again, err := root.Secret(cmd, confirm, "Confirm new password: ")
	if err != nil {
		return err
	}

	if err := svc.ChangePassword(root.SharedFlags.Username, current, next, again); err != nil {
		return err
	}
	root.Printer(cmd).Success("Password changed")
	return nil
}
