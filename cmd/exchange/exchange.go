// Package exchange handles CSV export and import of a ledger
package exchange

import (
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/finance-manager/cmd/root"

	"github.com/spf13/cobra"
)

// ExportCmd writes the ledger to a CSV file
var ExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export transactions and budgets to CSV",
	Long: `Export transactions and budgets to a CSV file. Without a file name the
export goes to the export directory as <user>_<date>.csv.`,
	Args: cobra.MaximumNArgs(1),
	RunE: exportFunc,
}

// ImportCmd reads a CSV file into the ledger
var ImportCmd = root.Mutating(&cobra.Command{
	Use:   "import <file>",
	Short: "Import transactions and budgets from CSV",
	Long: `Import transactions and budgets from a CSV file written by export.
Transactions get new ids; budget spending is taken as written. Malformed
rows are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: importFunc,
})

func exportFunc(cmd *cobra.Command, args []string) error {
	svc, err := root.Service()
	if err != nil {
		return err
	}
	u, err := root.Login(cmd)
	if err != nil {
		return err
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		name := fmt.Sprintf("%s_%s", u.Username, time.Now().Format("20060102_150405"))
		path = filepath.Join(root.App().GetConfig().ExportDirectory(), name)
	}

	written, err := svc.Export(u, path)
	if err != nil {
		return err
	}
	root.Printer(cmd).Success("Exported to %s", written)
	return nil
}

func importFunc(cmd *cobra.Command, args []string) error {
	svc, err := root.Service()
	if err != nil {
		return err
	}
	u, err := root.Login(cmd)
	if err != nil {
		return err
	}

	res, err := svc.Import(cmd.Context(), u, args[0])
	if err != nil {
		return err
	}
	out := root.Printer(cmd)
	out.Success("Imported %d transactions and %d budgets", res.Transactions, res.Budgets)
	if res.Skipped > 0 {
		out.Warn("Skipped %d malformed rows", res.Skipped)
	}
	return nil
}
