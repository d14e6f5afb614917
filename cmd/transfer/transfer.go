// Package transfer handles money transfers between users
package transfer

import (
	"fjacquet/finance-manager/cmd/root"
	"fjacquet/finance-manager/internal/report"

	"github.com/spf13/cobra"
)

var description string

// Cmd represents the transfer command
var Cmd = root.Mutating(&cobra.Command{
	Use:   "transfer <recipient> <amount>",
	Short: "Transfer money to another user",
	Long: `Transfer money to another user. The sender gets an expense and the
recipient an income, both in the Transfer category; either both are
recorded or neither.`,
	Example: `  finance-manager transfer -u alice bob 50 -d "concert tickets"`,
	Args:    cobra.ExactArgs(2),
	RunE:    transferFunc,
})

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transfer description")
}

func transferFunc(cmd *cobra.Command, args []string) error {
	svc, err := root.Service()
	if err != nil {
		return err
	}
	u, err := root.Login(cmd)
	if err != nil {
		return err
	}

	res, err := svc.Transfer(cmd.Context(), u, args[0], args[1], description)
	if err != nil {
		return err
	}
	root.Printer(cmd).Success("Transferred %s to %s. New balance: %s",
		report.Amount(res.Amount), res.Receiver, report.Amount(res.SenderBalance))
	return nil
}
