// Package report handles the full report and alert commands
package report

import (
	"fmt"

	"fjacquet/finance-manager/cmd/root"
	"fjacquet/finance-manager/internal/fileutils"
	"fjacquet/finance-manager/internal/models"
	reportgen "fjacquet/finance-manager/internal/report"
	"fjacquet/finance-manager/internal/validation"

	"github.com/spf13/cobra"
)

var (
	period      root.PeriodFlags
	format      string
	output      string
	alertFormat string
)

// Cmd renders the full financial report
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a full financial report",
	Long: `Generate a full financial report: all-time totals, the figures of the
selected period, every budget and an analysis block with savings rate,
financial health and top expense categories.`,
	Example: `  finance-manager report -u alice --month 2024-03 --format yaml -o march.yaml`,
	Args:    cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validation.OutputFormat(format)
	},
	RunE: reportFunc,
}

// AlertsCmd lists the current budget and balance alerts
var AlertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show budget and balance alerts",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validation.OutputFormat(alertFormat)
	},
	RunE: alertsFunc,
}

func init() {
	period.Bind(Cmd)
	Cmd.Flags().StringVarP(&format, "format", "f", reportgen.FormatText, "Output format: text, json or yaml")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to this file instead of stdout")

	AlertsCmd.Flags().StringVarP(&alertFormat, "format", "f", reportgen.FormatText, "Output format: text, json or yaml")
}

func reportFunc(cmd *cobra.Command, args []string) error {
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

	full, err := svc.FullReport(u, p)
	if err != nil {
		return err
	}
	rendered, err := root.App().GetReportGenerator().GenerateReport(&full, format)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = root.Printer(cmd).Writer().Write(rendered)
		return err
	}
	if err := fileutils.WriteFile(output, rendered, models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	root.Printer(cmd).Success("Report written to %s", output)
	return nil
}

func alertsFunc(cmd *cobra.Command, args []string) error {
	svc, err := root.Service()
	if err != nil {
		return err
	}
	u, err := root.Login(cmd)
	if err != nil {
		return err
	}

	alerts, err := svc.Alerts(u)
	if err != nil {
		return err
	}
	if alertFormat == reportgen.FormatText || alertFormat == "" {
		out := root.Printer(cmd)
		if len(alerts) == 0 {
			out.Success("No alerts")
			return nil
		}
		out.Alerts(alerts)
		return nil
	}

	rendered, err := root.App().GetReportGenerator().GenerateAlerts(alerts, alertFormat)
	if err != nil {
		return err
	}
	_, err = root.Printer(cmd).Writer().Write(rendered)
	return err
}
