// Package stats handles balance and statistics commands
package stats

import (
	"strings"

	"fjacquet/finance-manager/cmd/root"
	"fjacquet/finance-manager/internal/report"
	"fjacquet/finance-manager/internal/validation"

	"github.com/spf13/cobra"
)

var (
	period      root.PeriodFlags
	format      string
	with        []string
	categoryFmt string
)

// BalanceCmd prints the balance and the all-time totals
var BalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current balance",
	Args:  cobra.NoArgs,
	RunE:  balanceFunc,
}

// Cmd prints the statistics of a period
var Cmd = &cobra.Command{
	Use:   "stats",
	Short: "Show income and expense statistics for a period",
	Long: `Show income and expense statistics for a period, grouped by category.
The period defaults to the current month. With --with the statistics of
several users are combined.`,
	Example: `  finance-manager stats -u alice --month 2024-03
  finance-manager stats -u alice --from 2024-01-01 --to 2024-03-31 --format json`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validation.OutputFormat(format)
	},
	RunE: statsFunc,
}

// CategoryCmd prints all-time figures per category
var CategoryCmd = &cobra.Command{
	Use:   "category-stats [category...]",
	Short: "Show all-time statistics per category",
	Long:  `Show all-time income, expenses and budget state per category. Without arguments every category is listed.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validation.OutputFormat(categoryFmt)
	},
	RunE: categoryFunc,
}

func init() {
	period.Bind(Cmd)
	Cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Output format: text, json or yaml")
	Cmd.Flags().StringSliceVar(&with, "with", nil, "Other users to combine with the logged-in user")

	CategoryCmd.Flags().StringVarP(&categoryFmt, "format", "f", report.FormatText, "Output format: text, json or yaml")
}

func balanceFunc(cmd *cobra.Command, args []string) error {
	u, err := root.Login(cmd)
	if err != nil {
		return err
	}
	snap := u.Ledger.Snapshot()
	out := root.Printer(cmd)
	out.Info("Balance: %s", report.Amount(snap.Balance()))
	out.Info("Total income: %s", report.Amount(snap.TotalIncome()))
	out.Info("Total expenses: %s", report.Amount(snap.TotalExpenses()))
	return nil
}

func statsFunc(cmd *cobra.Command, args []string) error {
	svc, err := root.Service()
	if err != nil {
		return err
	}
	u, err := root.Login(cmd)
	if err != nil {
		return err
	}
	p, err := period.Resolve()
	if err != nil {
		return err
	}

	res, err := svc.Statistics(u, p)
	if err != nil {
		return err
	}
	if len(with) > 0 {
		combined, err := svc.CombinedStatistics(append([]string{u.Username}, with...), p)
		if err != nil {
			return err
		}
		res = combined.Statistics
		res.Owner = strings.Join(combined.Owners, ", ")
	}

	rendered, err := root.App().GetReportGenerator().GenerateStatistics(res, format)
	if err != nil {
		return err
	}
	_, err = root.Printer(cmd).Writer().Write(rendered)
	return err
}

func categoryFunc(cmd *cobra.Command, args []string) error {
	svc, err := root.Service()
	if err != nil {
		return err
	}
	u, err := root.Login(cmd)
	if err != nil {
		return err
	}

	results, err := svc.CategoryStatistics(u, args)
	if err != nil {
		return err
	}
	rendered, err := root.App().GetReportGenerator().GenerateCategoryStatistics(results, categoryFmt)
	if err != nil {
		return err
	}
	_, err = root.Printer(cmd).Writer().Write(rendered)
	return err
}
