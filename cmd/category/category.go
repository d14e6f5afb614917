// Package category handles category management commands
package category

import (
	"fjacquet/finance-manager/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the category command
var Cmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
	Long: `Manage the categories of a ledger. A category still used by a
transaction cannot be removed; removing a category also drops its budget.`,
}

var addCmd = root.Mutating(&cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := root.Service()
		if err != nil {
			return err
		}
		u, err := root.Login(cmd)
		if err != nil {
			return err
		}
		if err := svc.AddCategory(u, args[0]); err != nil {
			return err
		}
		root.Printer(cmd).Success("Category '%s' added", args[0])
		return nil
	},
})

var removeCmd = root.Mutating(&cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an unused category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := root.Service()
		if err != nil {
			return err
		}
		u, err := root.Login(cmd)
		if err != nil {
			return err
		}
		if err := svc.RemoveCategory(u, args[0]); err != nil {
			return err
		}
		root.Printer(cmd).Success("Category '%s' removed", args[0])
		return nil
	},
})

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := root.Login(cmd)
		if err != nil {
			return err
		}
		out := root.Printer(cmd)
		for _, c := range u.Ledger.Categories() {
			out.Info("%s", c)
		}
		return nil
	},
}

func init() {
	Cmd.AddCommand(addCmd, removeCmd, listCmd)
}
