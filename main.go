package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/finance-manager/cmd/budget"
	"fjacquet/finance-manager/cmd/category"
	"fjacquet/finance-manager/cmd/exchange"
	"fjacquet/finance-manager/cmd/passwd"
	"fjacquet/finance-manager/cmd/register"
	"fjacquet/finance-manager/cmd/report"
	"fjacquet/finance-manager/cmd/root"
	"fjacquet/finance-manager/cmd/stats"
	"fjacquet/finance-manager/cmd/transaction"
	"fjacquet/finance-manager/cmd/transfer"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(register.Cmd)
	root.Cmd.AddCommand(passwd.Cmd)
	root.Cmd.AddCommand(transaction.IncomeCmd)
	root.Cmd.AddCommand(transaction.ExpenseCmd)
	root.Cmd.AddCommand(transaction.RemoveCmd)
	root.Cmd.AddCommand(transaction.ListCmd)
	root.Cmd.AddCommand(category.Cmd)
	root.Cmd.AddCommand(budget.Cmd)
	root.Cmd.AddCommand(stats.BalanceCmd)
	root.Cmd.AddCommand(stats.Cmd)
	root.Cmd.AddCommand(stats.CategoryCmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(report.AlertsCmd)
	root.Cmd.AddCommand(transfer.Cmd)
	root.Cmd.AddCommand(exchange.ExportCmd)
	root.Cmd.AddCommand(exchange.ImportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := root.Cmd.ExecuteContext(ctx)
	if closeErr := root.Close(); closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
	}
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
