// Package transaction handles adding, removing and listing ledger entries
package transaction

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"fjacquet/finance-manager/cmd/root"
	"fjacquet/finance-manager/internal/ledger"
	"fjacquet/finance-manager/internal/models"
	"fjacquet/finance-manager/internal/report"
	"fjacquet/finance-manager/internal/service"
	"fjacquet/finance-manager/internal/walleterror"

	"github.com/spf13/cobra"
)

var (
	description string
	date        string

	listCategory string
	listType     string
	listPeriod   root.PeriodFlags
)

// IncomeCmd records an income entry
var IncomeCmd = root.Mutating(&cobra.Command{
	Use:     "income <amount> <category>",
	Short:   "Add an income transaction",
	Example: `  finance-manager income 2500 Salary -d "March salary"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addFunc(cmd, args, models.TransactionTypeIncome)
	},
})

// ExpenseCmd records an expense entry
var ExpenseCmd = root.Mutating(&cobra.Command{
	Use:     "expense <amount> <category>",
	Short:   "Add an expense transaction",
	Long:    `Add an expense transaction. The spending of the category budget, if any, grows by the amount.`,
	Example: `  finance-manager expense 12,50 Food -d lunch --date "01.03.2024 12:30"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addFunc(cmd, args, models.TransactionTypeExpense)
	},
})

// RemoveCmd deletes an entry by id
var RemoveCmd = root.Mutating(&cobra.Command{
	Use:   "remove-tx <id>",
	Short: "Remove a transaction by id",
	Long:  `Remove a transaction by id. Budget spending is only adjusted when wallet.recompute_budget_on_remove is set.`,
	Args:  cobra.ExactArgs(1),
	RunE:  removeFunc,
})

// ListCmd prints the ledger entries
var ListCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List transactions",
	Long: `List transactions in insertion order. With a period flag only the
transactions of that period are listed, newest first.`,
	Args: cobra.NoArgs,
	RunE: listFunc,
}

func init() {
	for _, c := range []*cobra.Command{IncomeCmd, ExpenseCmd} {
		c.Flags().StringVarP(&description, "description", "d", "", "Free-text description")
		c.Flags().StringVar(&date, "date", "", "Date as DD.MM.YYYY HH:MM (default: now)")
	}

	ListCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only this category")
	ListCmd.Flags().StringVarP(&listType, "type", "t", "", "Only income or expense")
	listPeriod.Bind(ListCmd)
}

func addFunc(cmd *cobra.Command, args []string, typ models.TransactionType) error {
	svc, err := root.Service()
	if err != nil {
		return err
	}
	u, err := root.Login(cmd)
	if err != nil {
		return err
	}

	in := service.TransactionInput{Amount: args[0], Category: args[1], Description: description, Date: date}
	var tx models.Transaction
	if typ == models.TransactionTypeIncome {
		tx, err = svc.AddIncome(u, in)
	} else {
		tx, err = svc.AddExpense(u, in)
	}
	if err != nil {
		return err
	}

	root.Printer(cmd).Success("%s of %s added to %s (id %s)",
		tx.Type.Label(), report.Amount(tx.Amount), tx.Category, tx.ID)
	return nil
}

func removeFunc(cmd *cobra.Command, args []string) error {
	svc, err := root.Service()
	if err != nil {
		return err
	}
	u, err := root.Login(cmd)
	if err != nil {
		return err
	}

	removed, err := svc.RemoveTransaction(u, args[0])
	if err != nil {
		return err
	}
	if !removed {
		root.Printer(cmd).Warn("No transaction with id %s", args[0])
		return nil
	}
	root.Printer(cmd).Success("Transaction %s removed", args[0])
	return nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	svc, err := root.Service()
	if err != nil {
		return err
	}
	u, err := root.Login(cmd)
	if err != nil {
		return err
	}

	txs := u.Ledger.Transactions()
	if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") || cmd.Flags().Changed("month") {
		period, err := listPeriod.Resolve()
		if err != nil {
			return err
		}
		if txs, err = svc.TransactionsInPeriod(u, period); err != nil {
			return err
		}
	}

	if listType != "" {
		typ, ok := models.ParseTransactionType(listType)
		if !ok {
			return walleterror.NewValidationError("type", fmt.Sprintf("unknown transaction type '%s'", listType))
		}
		txs = ledger.Filter(txs, func(tx models.Transaction) bool { return tx.Type == typ })
	}
	if listCategory != "" {
		txs = ledger.Filter(txs, func(tx models.Transaction) bool {
			return strings.EqualFold(tx.Category, listCategory)
		})
	}

	out := root.Printer(cmd)
	if len(txs) == 0 {
		out.Info("No transactions")
		return nil
	}

	tw := tabwriter.NewWriter(out.Writer(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDate\tType\tCategory\tAmount\tDescription")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.FormattedDate(), tx.Type.Label(), tx.Category, report.Amount(tx.Amount), tx.Description)
	}
	return tw.Flush()
}
