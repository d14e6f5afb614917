// Package budget handles budget management commands
package budget

import (
	"fmt"
	"text/tabwriter"

	"fjacquet/finance-manager/cmd/root"
	"fjacquet/finance-manager/internal/account"
	budgettracker "fjacquet/finance-manager/internal/budget"
	"fjacquet/finance-manager/internal/report"
	"fjacquet/finance-manager/internal/service"

	"github.com/spf13/cobra"
)

// Cmd represents the budget command
var Cmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage category budgets",
	Long: `Manage category budgets. Expenses in a budgeted category add to its
spending; alerts are raised when spending reaches the warning threshold or
exceeds the limit.`,
}

var setCmd = root.Mutating(&cobra.Command{
	Use:   "set <category> <limit>",
	Short: "Set a budget, replacing any previous one",
	Args:  cobra.ExactArgs(2),
	RunE: withUser(func(cmd *cobra.Command, svc *service.FinanceService, u *account.User, args []string) error {
		if err := svc.SetBudget(u, args[0], args[1]); err != nil {
			return err
		}
		root.Printer(cmd).Success("Budget for '%s' set", args[0])
		return nil
	}),
})

var editCmd = root.Mutating(&cobra.Command{
	Use:   "edit <category> <limit>",
	Short: "Change the limit of a budget, keeping its spending",
	Args:  cobra.ExactArgs(2),
	RunE: withUser(func(cmd *cobra.Command, svc *service.FinanceService, u *account.User, args []string) error {
		if err := svc.EditBudget(u, args[0], args[1]); err != nil {
			return err
		}
		root.Printer(cmd).Success("Budget for '%s' updated", args[0])
		return nil
	}),
})

var removeCmd = root.Mutating(&cobra.Command{
	Use:   "remove <category>",
	Short: "Remove a budget",
	Args:  cobra.ExactArgs(1),
	RunE: withUser(func(cmd *cobra.Command, svc *service.FinanceService, u *account.User, args []string) error {
		if err := svc.RemoveBudget(u, args[0]); err != nil {
			return err
		}
		root.Printer(cmd).Success("Budget for '%s' removed", args[0])
		return nil
	}),
})

var resetCmd = root.Mutating(&cobra.Command{
	Use:   "reset <category>",
	Short: "Reset the spending of a budget to zero",
	Args:  cobra.ExactArgs(1),
	RunE: withUser(func(cmd *cobra.Command, svc *service.FinanceService, u *account.User, args []string) error {
		if err := svc.ResetBudget(u, args[0]); err != nil {
			return err
		}
		root.Printer(cmd).Success("Spending of '%s' reset", args[0])
		return nil
	}),
})

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets with their status",
	Args:  cobra.NoArgs,
	RunE: withUser(func(cmd *cobra.Command, svc *service.FinanceService, u *account.User, args []string) error {
		out := root.Printer(cmd)
		budgets := u.Ledger.Budgets()
		if len(budgets) == 0 {
			out.Info("No budgets")
			return nil
		}

		tw := tabwriter.NewWriter(out.Writer(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Category\tLimit\tSpent\tRemaining\tUsed\tStatus")
		for _, b := range budgets {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\t%s\n",
				b.Category, report.Amount(b.Limit), report.Amount(b.CurrentSpending),
				report.Amount(budgettracker.Remaining(b)), budgettracker.PercentUsed(b).StringFixed(1),
				budgettracker.Evaluate(b))
		}
		return tw.Flush()
	}),
}

func init() {
	Cmd.AddCommand(setCmd, editCmd, removeCmd, resetCmd, listCmd)
}

type userFunc func(cmd *cobra.Command, svc *service.FinanceService, u *account.User, args []string) error

func withUser(fn userFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		svc, err := root.Service()
		if err != nil {
			return err
		}
		u, err := root.Login(cmd)
		if err != nil {
			return err
		}
		return fn(cmd, svc, u, args)
	}
}
